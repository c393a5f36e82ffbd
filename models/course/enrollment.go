package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	EnrollmentEnrolled   = "ENROLLED"
	EnrollmentInProgress = "IN_PROGRESS"
	EnrollmentCompleted  = "COMPLETED"
)

// LectureProgress is the per-lecture entry of an enrollment. At most one per LectureID.
type LectureProgress struct {
	LectureID        uint       `json:"lecture_id"`
	Completed        bool       `json:"completed"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	LastWatchedAt    *time.Time `json:"last_watched_at,omitempty"`
	WatchTimeSeconds float64    `json:"watch_time_seconds"`
}

// QuizResult is the best-of summary for one quiz. At most one per QuizID.
type QuizResult struct {
	QuizID        uint       `json:"quiz_id"`
	BestScore     int        `json:"best_score"`
	BestAttemptID *uint      `json:"best_attempt_id,omitempty"`
	TotalAttempts int        `json:"total_attempts"`
	LastAttemptAt *time.Time `json:"last_attempt_at,omitempty"`
	Passed        bool       `json:"passed"`
}

// Enrollment binds one learner to one course and holds all per-course
// progress and quiz state as a single document. Version guards concurrent
// read-modify-write cycles.
type Enrollment struct {
	gorm.Model
	UserID              uint                                `json:"user_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	CourseID            uint                                `json:"course_id" gorm:"not null;index;uniqueIndex:idx_enrollment_user_course"`
	Status              string                              `json:"status" gorm:"default:'ENROLLED'"` // ENROLLED, IN_PROGRESS, COMPLETED
	Progress            datatypes.JSONSlice[LectureProgress] `json:"progress"`
	QuizResults         datatypes.JSONSlice[QuizResult]      `json:"quiz_results"`
	OverallProgress     int                                 `json:"overall_progress" gorm:"default:0"`
	CompletedLectures   int                                 `json:"completed_lectures" gorm:"default:0"`
	CompletedAt         *time.Time                          `json:"completed_at"`
	LastAccessedAt      *time.Time                          `json:"last_accessed_at"`
	CertificateIssued   bool                                `json:"certificate_issued" gorm:"default:false"`
	CertificateIssuedAt *time.Time                          `json:"certificate_issued_at"`
	CertificateURL      string                              `json:"certificate_url"`
	VerificationURL     string                              `json:"verification_url"`
	Version             int                                 `json:"-" gorm:"not null;default:1"`
	IsDeleted           bool                                `gorm:"default:false"`
}

// FindLecture returns the index of the progress entry for lectureID, or -1.
func (e *Enrollment) FindLecture(lectureID uint) int {
	for i := range e.Progress {
		if e.Progress[i].LectureID == lectureID {
			return i
		}
	}
	return -1
}

// FindQuizResult returns the index of the summary for quizID, or -1.
func (e *Enrollment) FindQuizResult(quizID uint) int {
	for i := range e.QuizResults {
		if e.QuizResults[i].QuizID == quizID {
			return i
		}
	}
	return -1
}

// Clone returns a copy that shares no slices with e.
func (e *Enrollment) Clone() *Enrollment {
	out := *e
	out.Progress = append(datatypes.JSONSlice[LectureProgress](nil), e.Progress...)
	out.QuizResults = append(datatypes.JSONSlice[QuizResult](nil), e.QuizResults...)
	return &out
}

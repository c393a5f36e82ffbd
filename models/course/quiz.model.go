package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionSingleChoice   QuestionType = "SINGLE_CHOICE"
	QuestionTrueFalse      QuestionType = "TRUE_FALSE"
	QuestionMultipleSelect QuestionType = "MULTIPLE_SELECT"
)

// Question is one entry of a quiz's ordered question list.
// CorrectAnswer is used by single-choice and true-false questions,
// CorrectAnswers by multiple-select ones.
type Question struct {
	ID             string       `json:"id"`
	Type           QuestionType `json:"type"`
	Prompt         string       `json:"prompt"`
	Options        []string     `json:"options,omitempty"`
	CorrectAnswer  string       `json:"correct_answer,omitempty"`
	CorrectAnswers []string     `json:"correct_answers,omitempty"`
}

// Quiz is an ordered list of questions attached to a course
type Quiz struct {
	gorm.Model
	CourseID     uint                          `json:"course_id" gorm:"index;not null"`
	SectionID    *uint                         `json:"section_id"`
	Title        string                        `json:"title"`
	Questions    datatypes.JSONSlice[Question] `json:"questions"`
	PassingScore int                           `json:"passing_score" gorm:"default:0"`
	MaxAttempts  int                           `json:"max_attempts" gorm:"default:1"`
	IsPublished  bool                          `json:"is_published" gorm:"default:false"`
	IsDeleted    bool                          `gorm:"default:false"`
}

// SubmittedAnswer is what a learner sends for one question. Value carries
// single-choice/true-false answers, Values multiple-select ones.
type SubmittedAnswer struct {
	QuestionID string   `json:"question_id"`
	Value      string   `json:"value,omitempty"`
	Values     []string `json:"values,omitempty"`
}

// GradedAnswer is the frozen per-question outcome stored on an attempt
type GradedAnswer struct {
	QuestionID  string   `json:"question_id"`
	GivenAnswer []string `json:"given_answer"`
	IsCorrect   bool     `json:"is_correct"`
}

type AttemptStatus string

const (
	AttemptOpen      AttemptStatus = "OPEN"
	AttemptSubmitted AttemptStatus = "SUBMITTED"
)

// QuizAttempt is one pass through a quiz. It moves OPEN -> SUBMITTED exactly once.
type QuizAttempt struct {
	gorm.Model
	UserID        uint                              `json:"user_id" gorm:"not null;uniqueIndex:idx_attempt_user_quiz_number"`
	QuizID        uint                              `json:"quiz_id" gorm:"not null;uniqueIndex:idx_attempt_user_quiz_number"`
	AttemptNumber int                               `json:"attempt_number" gorm:"not null;uniqueIndex:idx_attempt_user_quiz_number"`
	CourseID      uint                              `json:"course_id" gorm:"index;not null"`
	Status        AttemptStatus                     `json:"status" gorm:"default:'OPEN';index"`
	StartedAt     time.Time                         `json:"started_at"`
	CompletedAt   *time.Time                        `json:"completed_at" gorm:"index"`
	Answers       datatypes.JSONSlice[GradedAnswer] `json:"answers"`
	Score         int                               `json:"score" gorm:"default:0"`
	Passed        bool                              `json:"passed" gorm:"default:false"`
}

// IsSubmitted reports whether the attempt has been frozen
func (a *QuizAttempt) IsSubmitted() bool {
	return a.Status == AttemptSubmitted || a.CompletedAt != nil
}

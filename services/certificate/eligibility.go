// Package certificate gates certificate issuance on course completion. The
// issued flag on an enrollment is a one-way latch and is never revoked.
package certificate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"coursetrack/logger"
	"coursetrack/models/course"
)

const (
	ReasonAlreadyIssued = "already issued"
	ReasonIncomplete    = "incomplete"
)

// IsEligible reports whether the enrollment has completed its course.
func IsEligible(e *course.Enrollment) bool {
	return e.OverallProgress == 100
}

// Decide is the pure issuance check: it returns "" when the enrollment may be
// issued a certificate, otherwise the reason it may not.
func Decide(e *course.Enrollment) string {
	if e.CertificateIssued {
		return ReasonAlreadyIssued
	}
	if !IsEligible(e) {
		return ReasonIncomplete
	}
	return ""
}

type Store interface {
	Get(ctx context.Context, userID, courseID uint) (*course.Enrollment, error)
	// LatchCertificate flips certificate_issued from false to true on a
	// complete enrollment and creates the certificate row, atomically. It
	// returns false when the guard did not match.
	LatchCertificate(ctx context.Context, enrollmentID uint, certificateNumber string, at time.Time) (*course.Certificate, bool, error)
	RecordArtifact(ctx context.Context, certificateID uint, artifact Artifact, at time.Time) error
	Certificate(ctx context.Context, certificateID uint) (*course.Certificate, error)
	PendingArtifacts(ctx context.Context) ([]course.Certificate, error)
	ListByUser(ctx context.Context, userID uint) ([]course.Certificate, error)
}

// Directory resolves display names for the renderer.
type Directory interface {
	StudentName(ctx context.Context, userID uint) (string, error)
	CourseName(ctx context.Context, courseID uint) (string, error)
}

type RenderRequest struct {
	StudentName    string    `json:"studentName"`
	CourseName     string    `json:"courseName"`
	CompletionDate time.Time `json:"completionDate"`
}

type Artifact struct {
	URL             string `json:"url"`
	VerificationURL string `json:"verificationUrl"`
}

// Renderer produces the downloadable certificate artifact.
type Renderer interface {
	Render(ctx context.Context, req RenderRequest) (Artifact, error)
}

type Notifier interface {
	CertificateIssued(ctx context.Context, userID, courseID uint, certificateURL string)
}

type IssueResult struct {
	Issued      bool                `json:"issued"`
	Reason      string              `json:"reason,omitempty"`
	Certificate *course.Certificate `json:"certificate,omitempty"`
}

type Service struct {
	store     Store
	directory Directory
	renderer  Renderer
	notifier  Notifier
	log       *logger.Logger
	now       func() time.Time
}

func NewService(store Store, directory Directory, renderer Renderer, notifier Notifier, log *logger.Logger) *Service {
	return &Service{
		store:     store,
		directory: directory,
		renderer:  renderer,
		notifier:  notifier,
		log:       log.With("component", "certificate"),
		now:       time.Now,
	}
}

func (s *Service) SetClock(now func() time.Time) { s.now = now }

func (s *Service) Eligible(ctx context.Context, userID, courseID uint) (bool, error) {
	e, err := s.store.Get(ctx, userID, courseID)
	if err != nil {
		return false, err
	}
	return IsEligible(e), nil
}

// Issue latches the certificate for the learner's enrollment. Concurrent
// calls yield exactly one Issued result; the others report ReasonAlreadyIssued.
// On success the caller is expected to run Render for the returned certificate.
func (s *Service) Issue(ctx context.Context, userID, courseID uint) (*IssueResult, error) {
	e, err := s.store.Get(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if reason := Decide(e); reason != "" {
		return &IssueResult{Reason: reason}, nil
	}

	cert, latched, err := s.store.LatchCertificate(ctx, e.ID, newCertificateNumber(), s.now())
	if err != nil {
		return nil, err
	}
	if !latched {
		// Lost a race or progress changed underneath; re-read to explain why.
		e, err = s.store.Get(ctx, userID, courseID)
		if err != nil {
			return nil, err
		}
		reason := Decide(e)
		if reason == "" {
			reason = ReasonIncomplete
		}
		return &IssueResult{Reason: reason}, nil
	}

	s.log.Info("certificate issued", "user_id", userID, "course_id", courseID, "certificate_number", cert.CertificateNumber)
	return &IssueResult{Issued: true, Certificate: cert}, nil
}

// Render asks the renderer for the certificate artifact and records the
// resulting URLs. Failures are logged and left for RetryPendingRenders.
func (s *Service) Render(ctx context.Context, certificateID uint) error {
	cert, err := s.store.Certificate(ctx, certificateID)
	if err != nil {
		return err
	}
	if cert.CertificateURL != "" {
		return nil
	}

	student, err := s.directory.StudentName(ctx, cert.UserID)
	if err != nil {
		return fmt.Errorf("resolve student name: %w", err)
	}
	courseName, err := s.directory.CourseName(ctx, cert.CourseID)
	if err != nil {
		return fmt.Errorf("resolve course name: %w", err)
	}

	artifact, err := s.renderer.Render(ctx, RenderRequest{
		StudentName:    student,
		CourseName:     courseName,
		CompletionDate: cert.IssuedAt,
	})
	if err != nil {
		s.log.Warn("certificate render failed", "certificate_id", certificateID, "error", err)
		return err
	}
	if err := s.store.RecordArtifact(ctx, certificateID, artifact, s.now()); err != nil {
		return err
	}

	if s.notifier != nil {
		go s.notifier.CertificateIssued(context.Background(), cert.UserID, cert.CourseID, artifact.URL)
	}
	return nil
}

// RetryPendingRenders renders every issued certificate still missing its artifact.
func (s *Service) RetryPendingRenders(ctx context.Context) (int, error) {
	pending, err := s.store.PendingArtifacts(ctx)
	if err != nil {
		return 0, err
	}
	rendered := 0
	for _, c := range pending {
		if err := s.Render(ctx, c.ID); err != nil {
			continue
		}
		rendered++
	}
	return rendered, nil
}

func (s *Service) List(ctx context.Context, userID uint) ([]course.Certificate, error) {
	return s.store.ListByUser(ctx, userID)
}

func newCertificateNumber() string {
	return "CERT-" + uuid.NewString()
}

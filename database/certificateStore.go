package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	courseModels "coursetrack/models/course"
	"coursetrack/services"
	"coursetrack/services/certificate"

	"gorm.io/gorm"
)

// CertificateStore owns the certificate latch on enrollments and the
// certificate rows it creates.
type CertificateStore struct {
	db          *gorm.DB
	enrollments *EnrollmentStore
}

func NewCertificateStore(db *gorm.DB, enrollments *EnrollmentStore) *CertificateStore {
	return &CertificateStore{db: db, enrollments: enrollments}
}

func (s *CertificateStore) Get(ctx context.Context, userID, courseID uint) (*courseModels.Enrollment, error) {
	return s.enrollments.Get(ctx, userID, courseID)
}

// LatchCertificate is a conditional update guarded by certificate_issued =
// false and overall_progress = 100. Only the caller whose update matched
// creates the certificate row.
func (s *CertificateStore) LatchCertificate(ctx context.Context, enrollmentID uint, certificateNumber string, at time.Time) (*courseModels.Certificate, bool, error) {
	var cert *courseModels.Certificate
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&courseModels.Enrollment{}).
			Where("id = ? AND certificate_issued = ? AND overall_progress = ?", enrollmentID, false, 100).
			Updates(map[string]interface{}{
				"certificate_issued":    true,
				"certificate_issued_at": at,
				"version":               gorm.Expr("version + 1"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		var enrollment courseModels.Enrollment
		if err := tx.First(&enrollment, enrollmentID).Error; err != nil {
			return err
		}
		cert = &courseModels.Certificate{
			UserID:            enrollment.UserID,
			CourseID:          enrollment.CourseID,
			EnrollmentID:      enrollment.ID,
			CertificateNumber: certificateNumber,
			IssuedAt:          at,
		}
		return tx.Create(cert).Error
	})
	if err != nil {
		return nil, false, err
	}
	return cert, cert != nil, nil
}

func (s *CertificateStore) Certificate(ctx context.Context, certificateID uint) (*courseModels.Certificate, error) {
	var row courseModels.Certificate
	err := s.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", certificateID, false).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("certificate %d: %w", certificateID, services.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// RecordArtifact stores the rendered URLs on the certificate and its enrollment.
func (s *CertificateStore) RecordArtifact(ctx context.Context, certificateID uint, artifact certificate.Artifact, at time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cert courseModels.Certificate
		if err := tx.First(&cert, certificateID).Error; err != nil {
			return err
		}
		if err := tx.Model(&cert).Updates(map[string]interface{}{
			"certificate_url":  artifact.URL,
			"verification_url": artifact.VerificationURL,
			"rendered_at":      at,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&courseModels.Enrollment{}).
			Where("id = ?", cert.EnrollmentID).
			Updates(map[string]interface{}{
				"certificate_url":  artifact.URL,
				"verification_url": artifact.VerificationURL,
				"version":          gorm.Expr("version + 1"),
			}).Error
	})
}

func (s *CertificateStore) PendingArtifacts(ctx context.Context) ([]courseModels.Certificate, error) {
	var rows []courseModels.Certificate
	err := s.db.WithContext(ctx).
		Where("certificate_url = ? AND is_deleted = ?", "", false).
		Order("issued_at asc").
		Find(&rows).Error
	return rows, err
}

func (s *CertificateStore) ListByUser(ctx context.Context, userID uint) ([]courseModels.Certificate, error) {
	var rows []courseModels.Certificate
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("issued_at desc").
		Find(&rows).Error
	return rows, err
}

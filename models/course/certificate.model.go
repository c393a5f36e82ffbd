package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate represents an issued certificate for course completion.
// CertificateURL and VerificationURL stay empty until the renderer answers.
type Certificate struct {
	gorm.Model
	UserID            uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_certificate_user_course"`
	CourseID          uint       `json:"course_id" gorm:"not null;uniqueIndex:idx_certificate_user_course"`
	EnrollmentID      uint       `json:"enrollment_id" gorm:"index;not null"`
	CertificateNumber string     `json:"certificate_number" gorm:"unique"`
	CertificateURL    string     `json:"certificate_url"`
	VerificationURL   string     `json:"verification_url"`
	IssuedAt          time.Time  `json:"issued_at"`
	RenderedAt        *time.Time `json:"rendered_at"`
	IsDeleted         bool       `gorm:"default:false"`
}

// Package services holds the error taxonomy shared by the progress, quiz and
// certificate services. Every error here is user-facing except
// ErrConcurrentUpdate, which signals a retryable transient failure.
package services

import "errors"

var (
	ErrNotEnrolled          = errors.New("user not enrolled in this course")
	ErrInvalidReference     = errors.New("reference does not belong to this course")
	ErrAttemptLimitExceeded = errors.New("attempt limit exceeded")
	ErrAlreadySubmitted     = errors.New("attempt already submitted")
	ErrNotFound             = errors.New("not found")

	ErrConcurrentUpdate = errors.New("concurrent update conflict, retry later")
)

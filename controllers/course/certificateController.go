package controllers

import (
	"context"

	"coursetrack/middleware"

	"github.com/gofiber/fiber/v2"
)

// GetCertificateEligibility reports whether the user may be issued a certificate
func GetCertificateEligibility(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)

	eligible, err := deps.Certificates.Eligible(c.UserContext(), userID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Eligibility fetched successfully!", fiber.Map{
		"eligible": eligible,
	})
}

// IssueCertificate latches the certificate for a completed course and kicks
// off rendering in the background
func IssueCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("courseID").(uint)

	result, err := deps.Certificates.Issue(c.UserContext(), userID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if !result.Issued {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate not issued: "+result.Reason, result)
	}

	certificateID := result.Certificate.ID
	certificates, log := deps.Certificates, deps.Log
	go func() {
		if err := certificates.Render(context.Background(), certificateID); err != nil {
			log.Warn("certificate render deferred to reconciliation", "certificate_id", certificateID, "error", err)
		}
	}()

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate issued successfully!", result)
}

// GetUserCertificates gets all certificates for the current user
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	certificates, err := deps.Certificates.List(c.UserContext(), userID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": certificates,
	})
}

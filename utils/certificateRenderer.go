package utils

import (
	"context"
	"fmt"
	"time"

	"coursetrack/services/certificate"

	"github.com/go-resty/resty/v2"
)

// CertificateRenderer calls the external rendering service that turns a
// completion record into a downloadable certificate and a verification page.
type CertificateRenderer struct {
	client *resty.Client
}

func NewCertificateRenderer(baseURL string, timeout time.Duration) *CertificateRenderer {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("Content-Type", "application/json")
	return &CertificateRenderer{client: client}
}

type renderResponse struct {
	CertificateURL  string `json:"certificateUrl"`
	VerificationURL string `json:"verificationUrl"`
}

func (r *CertificateRenderer) Render(ctx context.Context, req certificate.RenderRequest) (certificate.Artifact, error) {
	var out renderResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/certificates")
	if err != nil {
		return certificate.Artifact{}, fmt.Errorf("render certificate: %w", err)
	}
	if resp.IsError() {
		return certificate.Artifact{}, fmt.Errorf("render certificate: status %d: %s", resp.StatusCode(), resp.String())
	}
	if out.CertificateURL == "" {
		return certificate.Artifact{}, fmt.Errorf("render certificate: empty certificate url")
	}
	return certificate.Artifact{URL: out.CertificateURL, VerificationURL: out.VerificationURL}, nil
}

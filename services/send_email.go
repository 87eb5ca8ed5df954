package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rpupo63/portfolio-site/config"
	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rs/zerolog/log"
)

const (
	defaultResendEndpoint = "https://api.resend.com/emails"
	defaultFromEmail      = "Portfolio Contact <onboarding@resend.dev>"
)

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// ContactMessage is what a visitor submits through the contact form.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ContactMailer relays contact form submissions to a fixed recipient through Resend.
type ContactMailer struct {
	apiKey    string
	from      string
	recipient string
	endpoint  string
	client    *http.Client
}

// NewContactMailer reads RESEND_API_KEY, RESEND_FROM_EMAIL, RESEND_ENDPOINT and
// CONTACT_RECIPIENT. A missing key is reported when a message is sent.
func NewContactMailer(cfg map[string]string) *ContactMailer {
	return &ContactMailer{
		apiKey:    config.GetString(cfg, "RESEND_API_KEY", ""),
		from:      config.GetString(cfg, "RESEND_FROM_EMAIL", defaultFromEmail),
		recipient: config.GetString(cfg, "CONTACT_RECIPIENT", ""),
		endpoint:  config.GetString(cfg, "RESEND_ENDPOINT", defaultResendEndpoint),
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// ContactEmail builds the Resend payload for a contact form submission.
func ContactEmail(from, recipient string, msg ContactMessage) ResendEmailRequest {
	text := fmt.Sprintf("\nName: %s\nEmail: %s\nSubject: %s\n\nMessage:\n%s\n", msg.Name, msg.Email, msg.Subject, msg.Message)
	return ResendEmailRequest{
		From:    from,
		To:      []string{recipient},
		Subject: "New Contact Form Submission: " + msg.Subject,
		ReplyTo: msg.Email,
		Text:    text,
	}
}

// Send delivers msg and returns the provider's response body unchanged.
func (m *ContactMailer) Send(ctx context.Context, msg ContactMessage) ([]byte, error) {
	if m.apiKey == "" {
		return nil, errs.NewEnvironmentVariableError("RESEND_API_KEY")
	}
	if m.recipient == "" {
		return nil, errs.NewEnvironmentVariableError("CONTACT_RECIPIENT")
	}

	return m.send(ctx, ContactEmail(m.from, m.recipient, msg))
}

func (m *ContactMailer) send(ctx context.Context, payload ResendEmailRequest) ([]byte, error) {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, errs.NewServiceUnavailableError("resend", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return nil, errs.NewUpstreamError("resend", resp.StatusCode, errorResp.Message)
		}
		return nil, errs.NewUpstreamError("resend", resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		log.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		log.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	}

	return bodyBytes, nil
}

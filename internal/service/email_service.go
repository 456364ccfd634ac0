package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"
)

const defaultResendURL = "https://api.resend.com/emails"

type EmailService struct {
	apiKey   string
	from     string
	endpoint string
	client   *http.Client
}

func NewEmailService(apiKey, from string) *EmailService {
	return &EmailService{
		apiKey:   apiKey,
		from:     from,
		endpoint: defaultResendURL,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// WithEndpoint points the service at a different Resend-compatible API.
func (s *EmailService) WithEndpoint(url string) *EmailService {
	s.endpoint = url
	return s
}

type resendPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (s *EmailService) SendPasswordReset(ctx context.Context, to, token string) error {
	html, err := buildResetEmail(token)
	if err != nil {
		return fmt.Errorf("failed to render email: %w", err)
	}

	body, err := json.Marshal(resendPayload{
		From:    s.from,
		To:      []string{to},
		Subject: "Nyenyak - Password Reset Code",
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("resend http error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("resend api error %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

var resetEmail = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family:Arial,sans-serif;background:#f4f4f4;padding:20px;">
  <div style="max-width:480px;margin:0 auto;background:#fff;border-radius:8px;padding:32px;">
    <h2 style="color:#333;">Reset your Nyenyak password</h2>
    <p>Hi,</p>
    <p>Use the 6-digit code below to reset your password:</p>
    <div style="text-align:center;margin:24px 0;">
      <span style="font-size:36px;font-weight:bold;letter-spacing:8px;color:#3949AB;">{{.Token}}</span>
    </div>
    <p>The code is valid for <strong>{{.Minutes}} minutes</strong>.</p>
    <p>If you did not request this, you can ignore this email.</p>
    <hr style="border:none;border-top:1px solid #eee;margin:24px 0;">
    <p style="color:#999;font-size:12px;">The Nyenyak Team</p>
  </div>
</body>
</html>`))

func buildResetEmail(token string) (string, error) {
	var buf bytes.Buffer
	err := resetEmail.Execute(&buf, struct {
		Token   string
		Minutes int
	}{Token: token, Minutes: 15})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Sender delivers transactional email. The OTP flow only needs one kind
// of message; implementations report delivery failure via the error.
type Sender interface {
	SendOTP(ctx context.Context, toEmail, subject, code string) error
}

var otpTemplate = template.Must(template.New("otp").Parse(`<div>
  <h3>{{.Subject}}</h3>
  <p>Your verification code is <strong>{{.Code}}</strong>.</p>
  <p>The code expires in one hour.</p>
</div>`))

const brevoEndpoint = "https://api.brevo.com/v3/smtp/email"

// EmailNotifier sends transactional emails via the Brevo HTTP API v3.
type EmailNotifier struct {
	APIKey      string
	SenderEmail string
	SenderName  string
	Endpoint    string
	client      *http.Client
	logger      *zap.SugaredLogger
}

func NewEmailNotifier(apiKey, senderEmail, senderName string, logger *zap.SugaredLogger) *EmailNotifier {
	return &EmailNotifier{
		APIKey:      apiKey,
		SenderEmail: senderEmail,
		SenderName:  senderName,
		Endpoint:    brevoEndpoint,
		client:      &http.Client{Timeout: 10 * time.Second},
		logger:      logger,
	}
}

func (e *EmailNotifier) SendOTP(ctx context.Context, toEmail, subject, code string) error {
	var buf bytes.Buffer
	if err := otpTemplate.Execute(&buf, struct {
		Subject string
		Code    string
	}{Subject: subject, Code: code}); err != nil {
		return err
	}

	payload := map[string]any{
		"sender":      map[string]string{"name": e.SenderName, "email": e.SenderEmail},
		"to":          []map[string]string{{"email": toEmail}},
		"subject":     subject,
		"htmlContent": buf.String(),
	}
	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(payload); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", e.Endpoint, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", e.APIKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		e.logger.Infof("email sent to %s subject=%s", toEmail, subject)
		return nil
	}
	e.logger.Warnf("brevo send failed status=%d", resp.StatusCode)
	return fmt.Errorf("brevo send failed status=%d", resp.StatusCode)
}

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/UTarts/cardiff-healthcare/pkg/httpclient"
)

// DefaultEmailAPIURL is the EmailJS send endpoint.
const DefaultEmailAPIURL = "https://api.emailjs.com/api/v1.0/email/send"

// EmailConfig holds the mail template account.
type EmailConfig struct {
	APIURL     string
	ServiceID  string
	TemplateID string
	PublicKey  string
}

// Configured reports whether every credential is present.
func (c EmailConfig) Configured() bool {
	return c.ServiceID != "" && c.TemplateID != "" && c.PublicKey != ""
}

type emailRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

// EmailSender renders notifications through a hosted mail template API.
type EmailSender struct {
	doer httpclient.Doer
	cfg  EmailConfig
}

// NewEmailSender creates a sender posting through doer.
func NewEmailSender(doer httpclient.Doer, cfg EmailConfig) *EmailSender {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultEmailAPIURL
	}
	return &EmailSender{doer: doer, cfg: cfg}
}

// Send posts n to the template API.
func (s *EmailSender) Send(ctx context.Context, n Notification) error {
	params := map[string]string{
		"to_name":   n.ToName,
		"from_name": n.FromName,
		"message":   n.Message,
		"products":  n.Products,
		"reply_to":  n.ReplyTo,
	}
	if n.Phone != "" {
		params["phone"] = n.Phone
	}

	body, err := json.Marshal(emailRequest{
		ServiceID:      s.cfg.ServiceID,
		TemplateID:     s.cfg.TemplateID,
		UserID:         s.cfg.PublicKey,
		TemplateParams: params,
	})
	if err != nil {
		return fmt.Errorf("encode email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.doer.Do(ctx, req)
	if err != nil {
		return httpclient.TransportError(err, "email")
	}
	if !httpclient.IsSuccess(resp.StatusCode) {
		return httpclient.ParseResponseError(resp, "email")
	}
	return resp.Body.Close()
}

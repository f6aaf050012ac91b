// Package notify e-mails the sales desk about new inquiries. It consumes
// inquiry.created events so a slow mail provider never delays the
// customer's form submission.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UTarts/cardiff-healthcare/internal/event"
	pkgkafka "github.com/UTarts/cardiff-healthcare/pkg/kafka"
)

// Notification is one message to the sales desk.
type Notification struct {
	ToName   string
	FromName string
	ReplyTo  string
	Phone    string
	Message  string
	Products string
}

// Sender delivers a notification.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// FromInquiry builds the notification for a new inquiry.
func FromInquiry(data event.InquiryCreatedData, toName string) Notification {
	return Notification{
		ToName:   toName,
		FromName: data.CustomerName,
		ReplyTo:  data.CustomerEmail,
		Phone:    data.CustomerPhone,
		Message:  data.Message,
		Products: data.SelectedProducts,
	}
}

// Handler turns inquiry.created events into notifications.
type Handler struct {
	sender Sender
	toName string
	logger *slog.Logger
}

// NewHandler creates a handler addressing notifications to toName.
func NewHandler(sender Sender, toName string, logger *slog.Logger) *Handler {
	return &Handler{sender: sender, toName: toName, logger: logger}
}

// Handle sends the notification for ev. Events of other types are ignored.
func (h *Handler) Handle(ctx context.Context, ev *pkgkafka.Event) error {
	if ev.EventType != event.TopicInquiryCreated {
		h.logger.DebugContext(ctx, "ignoring event", slog.String("event_type", ev.EventType))
		return nil
	}

	var data event.InquiryCreatedData
	if err := ev.UnmarshalData(&data); err != nil {
		return fmt.Errorf("decode inquiry.created payload: %w", err)
	}

	if err := h.sender.Send(ctx, FromInquiry(data, h.toName)); err != nil {
		return fmt.Errorf("notify inquiry %d: %w", data.ID, err)
	}

	h.logger.InfoContext(ctx, "inquiry notification sent",
		slog.Int64("inquiry_id", data.ID),
		slog.String("event_id", ev.EventID),
	)
	return nil
}

// LogSender writes notifications to the log. It is used when no mail
// provider is configured.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a log-only sender.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs n.
func (s *LogSender) Send(ctx context.Context, n Notification) error {
	s.logger.InfoContext(ctx, "new inquiry",
		slog.String("from", n.FromName),
		slog.String("reply_to", n.ReplyTo),
		slog.String("products", n.Products),
	)
	return nil
}

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/UTarts/cardiff-healthcare/internal/event"
	apperrors "github.com/UTarts/cardiff-healthcare/pkg/errors"
	"github.com/UTarts/cardiff-healthcare/pkg/httpclient"
	pkgkafka "github.com/UTarts/cardiff-healthcare/pkg/kafka"
	"github.com/UTarts/cardiff-healthcare/pkg/logger"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, n Notification) error {
	return m.Called(ctx, n).Error(0)
}

func inquiryEvent(t *testing.T) *pkgkafka.Event {
	t.Helper()
	ev, err := pkgkafka.NewEvent(event.TopicInquiryCreated, "12", event.AggregateTypeInquiry, event.Source, event.InquiryCreatedData{
		ID:               12,
		CustomerName:     "Asha Rao",
		CustomerEmail:    "asha@example.com",
		Message:          "Please send a price list",
		SelectedProducts: "Cardimol-650, Cardicef-200",
	})
	require.NoError(t, err)
	return ev
}

func TestHandler_SendsNotification(t *testing.T) {
	sender := new(mockSender)
	sender.On("Send", mock.Anything, Notification{
		ToName:   "Admin",
		FromName: "Asha Rao",
		ReplyTo:  "asha@example.com",
		Message:  "Please send a price list",
		Products: "Cardimol-650, Cardicef-200",
	}).Return(nil)

	h := NewHandler(sender, "Admin", logger.Discard())
	require.NoError(t, h.Handle(context.Background(), inquiryEvent(t)))
	sender.AssertExpectations(t)
}

func TestHandler_IgnoresOtherEvents(t *testing.T) {
	sender := new(mockSender)
	h := NewHandler(sender, "Admin", logger.Discard())

	ev, err := pkgkafka.NewEvent(event.TopicProductDeleted, "1", event.AggregateTypeProduct, event.Source, event.ProductDeletedData{ID: 1})
	require.NoError(t, err)
	require.NoError(t, h.Handle(context.Background(), ev))
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestHandler_SenderError(t *testing.T) {
	sender := new(mockSender)
	sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	h := NewHandler(sender, "Admin", logger.Discard())
	err := h.Handle(context.Background(), inquiryEvent(t))
	assert.ErrorContains(t, err, "notify inquiry 12")
}

func TestHandler_DeduplicatesThroughRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sender := new(mockSender)
	sender.On("Send", mock.Anything, mock.Anything).Return(nil).Once()

	h := NewHandler(sender, "Admin", logger.Discard())
	handle := pkgkafka.IdempotentHandler(NewIdempotencyStore(client, time.Hour), h.Handle, logger.Discard())

	ev := inquiryEvent(t)
	require.NoError(t, handle(context.Background(), ev))
	assert.ErrorIs(t, handle(context.Background(), ev), pkgkafka.ErrDuplicate)
	sender.AssertNumberOfCalls(t, "Send", 1)
}

func TestNewIdempotencyStore_FallsBackToMemory(t *testing.T) {
	_, ok := NewIdempotencyStore(nil, time.Minute).(*pkgkafka.MemoryIdempotencyStore)
	assert.True(t, ok)
}

func TestEmailSender_Send(t *testing.T) {
	var got emailRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte("OK"))
	}))
	t.Cleanup(srv.Close)

	cfg := httpclient.DefaultConfig()
	cfg.MaxRetries = 0
	s := NewEmailSender(httpclient.New(cfg), EmailConfig{APIURL: srv.URL, ServiceID: "svc", TemplateID: "tpl", PublicKey: "pub"})

	err := s.Send(context.Background(), Notification{
		ToName: "Admin", FromName: "Asha Rao", ReplyTo: "asha@example.com", Message: "hi", Products: "Cardimol-650",
	})
	require.NoError(t, err)

	assert.Equal(t, "svc", got.ServiceID)
	assert.Equal(t, "tpl", got.TemplateID)
	assert.Equal(t, "pub", got.UserID)
	assert.Equal(t, map[string]string{
		"to_name":   "Admin",
		"from_name": "Asha Rao",
		"message":   "hi",
		"products":  "Cardimol-650",
		"reply_to":  "asha@example.com",
	}, got.TemplateParams)
}

func TestEmailSender_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("The public key is required"))
	}))
	t.Cleanup(srv.Close)

	cfg := httpclient.DefaultConfig()
	cfg.MaxRetries = 0
	s := NewEmailSender(httpclient.New(cfg), EmailConfig{APIURL: srv.URL})

	err := s.Send(context.Background(), Notification{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestEmailConfig_Configured(t *testing.T) {
	assert.False(t, EmailConfig{ServiceID: "s", TemplateID: "t"}.Configured())
	assert.True(t, EmailConfig{ServiceID: "s", TemplateID: "t", PublicKey: "p"}.Configured())
}

package kafka

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type fakeWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []kafka.Message
	done      chan struct{}
	closed    bool
}

func newFakeReader(msgs ...kafka.Message) *fakeReader {
	return &fakeReader{queue: msgs, done: make(chan struct{})}
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.queue) > 0 {
		m := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return m, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	if len(r.queue) == 0 {
		select {
		case <-r.done:
		default:
			close(r.done)
		}
	}
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return nil
}

func eventMessage(t *testing.T, id string) kafka.Message {
	t.Helper()
	ev, err := NewEvent("inquiry.created", "17", "inquiry", "storefront", map[string]string{"customer_name": "Asha"})
	require.NoError(t, err)
	ev.EventID = id
	b, err := ev.Marshal()
	require.NoError(t, err)
	return kafka.Message{Topic: Topic("inquiry", "created"), Value: b}
}

func runConsumer(t *testing.T, c *Consumer, r *fakeReader) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- c.Start(ctx) }()

	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not commit all messages")
	}
	cancel()
	require.NoError(t, <-errCh)
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "cardiff.inquiry.created", Topic("inquiry", "created"))
	assert.Equal(t, "cardiff.dlq.cardiff.inquiry.created", DLQTopic(Topic("inquiry", "created")))
}

func TestNewEvent(t *testing.T) {
	ev, err := NewEvent("product.created", "3", "product", "storefront", map[string]string{"name": "Cardipan-D"})
	require.NoError(t, err)
	ev.WithCorrelationID("corr-9").WithMetadata("actor", "admin")

	assert.NotEmpty(t, ev.EventID)
	assert.Equal(t, 1, ev.Version)
	assert.Equal(t, "corr-9", ev.CorrelationID)
	assert.Equal(t, "admin", ev.Metadata["actor"])

	var payload map[string]string
	require.NoError(t, ev.UnmarshalData(&payload))
	assert.Equal(t, "Cardipan-D", payload["name"])
}

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w, nil, testLogger())

	ev, err := NewEvent("inquiry.created", "17", "inquiry", "storefront", struct{}{})
	require.NoError(t, err)
	ev.WithCorrelationID("corr-1")

	require.NoError(t, p.Publish(context.Background(), "cardiff.inquiry.created", ev))
	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, []byte("17"), msg.Key)

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "inquiry.created", headers["event_type"])
	assert.Equal(t, "corr-1", headers["correlation_id"])
}

func TestProducer_PublishError(t *testing.T) {
	p := NewProducerWithWriter(&fakeWriter{err: errors.New("leader not available")}, nil, testLogger())
	ev, _ := NewEvent("inquiry.created", "1", "inquiry", "storefront", nil)

	err := p.Publish(context.Background(), "t", ev)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leader not available")
}

func TestPingBrokers_NoBrokers(t *testing.T) {
	assert.Error(t, PingBrokers(context.Background(), nil))
}

func TestDLQProducer_Headers(t *testing.T) {
	w := &fakeWriter{}
	d := NewDLQProducerWithWriter(w, testLogger())

	src := kafka.Message{Topic: "cardiff.inquiry.created", Partition: 2, Offset: 41, Key: []byte("k"), Value: []byte("v")}
	require.NoError(t, d.Publish(context.Background(), src, errors.New("smtp down"), "notifier"))

	require.Len(t, w.msgs, 1)
	out := w.msgs[0]
	assert.Equal(t, "cardiff.dlq.cardiff.inquiry.created", out.Topic)
	headers := map[string]string{}
	for _, h := range out.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "2", headers["dlq.original_partition"])
	assert.Equal(t, "41", headers["dlq.original_offset"])
	assert.Equal(t, "smtp down", headers["dlq.error"])
}

func TestConsumer_HandlesAndCommits(t *testing.T) {
	r := newFakeReader(eventMessage(t, "e1"), eventMessage(t, "e2"))
	var mu sync.Mutex
	var seen []string
	handler := func(_ context.Context, ev *Event) error {
		mu.Lock()
		seen = append(seen, ev.EventID)
		mu.Unlock()
		return nil
	}

	c := NewConsumerWithReader(r, ConsumerConfig{Topic: "cardiff.inquiry.created", GroupID: "notifier"}, handler, nil, testLogger())
	runConsumer(t, c, r)

	assert.Equal(t, []string{"e1", "e2"}, seen)
	assert.Len(t, r.committed, 2)
	assert.True(t, r.closed)
}

func TestConsumer_RetriesThenDeadLetters(t *testing.T) {
	r := newFakeReader(eventMessage(t, "e1"))
	w := &fakeWriter{}
	calls := 0
	handler := func(context.Context, *Event) error {
		calls++
		return errors.New("mail api 503")
	}

	cfg := ConsumerConfig{Topic: "cardiff.inquiry.created", GroupID: "notifier", MaxRetries: 3, RetryWait: time.Millisecond}
	c := NewConsumerWithReader(r, cfg, handler, NewDLQProducerWithWriter(w, testLogger()), testLogger())
	runConsumer(t, c, r)

	assert.Equal(t, 3, calls)
	require.Len(t, w.msgs, 1)
	assert.Len(t, r.committed, 1)
}

func TestConsumer_BadPayloadIsDeadLettered(t *testing.T) {
	r := newFakeReader(kafka.Message{Topic: "cardiff.inquiry.created", Value: []byte("not json")})
	w := &fakeWriter{}
	called := false
	handler := func(context.Context, *Event) error { called = true; return nil }

	c := NewConsumerWithReader(r, ConsumerConfig{Topic: "cardiff.inquiry.created"}, handler, NewDLQProducerWithWriter(w, testLogger()), testLogger())
	runConsumer(t, c, r)

	assert.False(t, called)
	assert.Len(t, w.msgs, 1)
}

func TestMemoryIdempotencyStore_Expires(t *testing.T) {
	s := NewMemoryIdempotencyStore(time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	ctx := context.Background()
	require.NoError(t, s.Add(ctx, "e1"))
	ok, _ := s.Contains(ctx, "e1")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	ok, _ = s.Contains(ctx, "e1")
	assert.False(t, ok)
}

func TestRedisIdempotencyStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	s := NewRedisIdempotencyStore(client, "notify:seen:", time.Hour)
	ctx := context.Background()

	ok, err := s.Contains(ctx, "e1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Add(ctx, "e1"))
	ok, err = s.Contains(ctx, "e1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("notify:seen:e1"))

	mr.FastForward(2 * time.Hour)
	ok, _ = s.Contains(ctx, "e1")
	assert.False(t, ok)
}

func TestIdempotentHandler(t *testing.T) {
	store := NewMemoryIdempotencyStore(time.Hour)
	calls := 0
	h := IdempotentHandler(store, func(context.Context, *Event) error { calls++; return nil }, testLogger())

	ev := &Event{EventID: "e1"}
	require.NoError(t, h(context.Background(), ev))
	assert.ErrorIs(t, h(context.Background(), ev), ErrDuplicate)
	assert.Equal(t, 1, calls)
}

func TestIdempotentHandler_FailureNotRecorded(t *testing.T) {
	store := NewMemoryIdempotencyStore(time.Hour)
	h := IdempotentHandler(store, func(context.Context, *Event) error { return errors.New("boom") }, testLogger())

	require.Error(t, h(context.Background(), &Event{EventID: "e1"}))
	ok, _ := store.Contains(context.Background(), "e1")
	assert.False(t, ok)
}

package events

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/cadence/internal/domain"
)

var testNow = time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)

// recordingHandler captures every event it receives
type recordingHandler struct {
	mu     sync.Mutex
	events []*ReviewEvent
	err    error
}

func (h *recordingHandler) HandleEvent(_ context.Context, event *ReviewEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func TestNewReviewEvent(t *testing.T) {
	t.Parallel() // Enable parallel execution

	progress := domain.NewProgress(testNow, time.UTC)
	event := NewReviewEvent(TypeIntroduced, progress, testNow)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, TypeIntroduced, event.Type)
	assert.True(t, event.At.Equal(testNow))

	progress.ReviewCount = 99
	assert.Zero(t, event.Progress.ReviewCount, "event holds a copy")

	assert.Nil(t, NewReviewEvent(TypeGraded, nil, testNow).Progress)
}

func TestInMemoryEventEmitter(t *testing.T) {
	t.Parallel() // Enable parallel execution

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	event := NewReviewEvent(TypeGraded, domain.NewProgress(testNow, time.UTC), testNow)

	t.Run("no handlers", func(t *testing.T) {
		t.Parallel() // Enable parallel execution

		emitter := NewInMemoryEventEmitter(logger)
		assert.NoError(t, emitter.EmitEvent(context.Background(), event))
	})

	t.Run("every handler receives the event", func(t *testing.T) {
		t.Parallel() // Enable parallel execution

		emitter := NewInMemoryEventEmitter(logger)
		h1, h2 := &recordingHandler{}, &recordingHandler{}
		emitter.RegisterHandler(h1)
		emitter.RegisterHandler(h2)

		require.NoError(t, emitter.EmitEvent(context.Background(), event))
		assert.Equal(t, []*ReviewEvent{event}, h1.events)
		assert.Equal(t, []*ReviewEvent{event}, h2.events)
	})

	t.Run("failing handler does not stop delivery", func(t *testing.T) {
		t.Parallel() // Enable parallel execution

		emitter := NewInMemoryEventEmitter(logger)
		failing := &recordingHandler{err: errors.New("handler error")}
		after := &recordingHandler{}
		emitter.RegisterHandler(failing)
		emitter.RegisterHandler(after)

		err := emitter.EmitEvent(context.Background(), event)
		require.Error(t, err)
		assert.Equal(t, "handler error", err.Error())
		assert.Len(t, after.events, 1)
	})

	t.Run("handler func adapter", func(t *testing.T) {
		t.Parallel() // Enable parallel execution

		emitter := NewInMemoryEventEmitter(logger)
		var got string
		emitter.RegisterHandler(HandlerFunc(func(_ context.Context, e *ReviewEvent) error {
			got = e.Type
			return nil
		}))

		require.NoError(t, emitter.EmitEvent(context.Background(), event))
		assert.Equal(t, TypeGraded, got)
	})
}

func TestLogHandler(t *testing.T) {
	t.Parallel() // Enable parallel execution

	var buf bytes.Buffer
	handler := NewLogHandler(slog.New(slog.NewJSONHandler(&buf, nil)))

	latency := int64(4200)
	event := NewReviewEvent(TypeGraded, domain.NewProgress(testNow, time.UTC), testNow)
	event.Grade = domain.GradeHard
	event.LatencyMs = &latency

	require.NoError(t, handler.HandleEvent(context.Background(), event))

	out := buf.String()
	assert.Contains(t, out, `"msg":"review event"`)
	assert.Contains(t, out, `"component":"review_log"`)
	assert.Contains(t, out, `"event_type":"review.graded"`)
	assert.Contains(t, out, `"grade":"hard"`)
	assert.Contains(t, out, `"latency_ms":4200`)
	assert.Contains(t, out, `"ease":2.5`)
}

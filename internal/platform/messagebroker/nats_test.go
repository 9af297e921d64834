package messagebroker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (r *recordingPublisher) Publish(_ context.Context, subject string, data []byte) error {
	if r.err != nil {
		return r.err
	}
	r.subjects = append(r.subjects, subject)
	r.payloads = append(r.payloads, data)
	return nil
}

func TestEventPublisher_PublishEvent(t *testing.T) {
	rec := &recordingPublisher{}
	p := NewEventPublisher(rec, slog.New(slog.NewTextHandler(io.Discard, nil)))

	p.PublishEvent(context.Background(), "porting.status.changed", map[string]string{"status": "completed"})

	require.Len(t, rec.subjects, 1)
	assert.Equal(t, "porting.status.changed", rec.subjects[0])
	var decoded map[string]string
	require.NoError(t, json.Unmarshal(rec.payloads[0], &decoded))
	assert.Equal(t, "completed", decoded["status"])
}

func TestEventPublisher_SwallowsFailures(t *testing.T) {
	rec := &recordingPublisher{err: errors.New("nats down")}
	p := NewEventPublisher(rec, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.NotPanics(t, func() {
		p.PublishEvent(context.Background(), "x", map[string]string{})
		p.PublishEvent(context.Background(), "x", make(chan int)) // unmarshalable
	})
	assert.Empty(t, rec.subjects)
}

func TestNewEventPublisher_NilFallsBackToNoop(t *testing.T) {
	p := NewEventPublisher(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.NotPanics(t, func() { p.PublishEvent(context.Background(), "x", 1) })
}

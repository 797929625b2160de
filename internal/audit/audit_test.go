package audit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dohkar/dohkar-api/internal/observability/logger"
)

type fakeWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { f.closed = true; return nil }

func TestKafkaSinkEncodesEvent(t *testing.T) {
	fw := &fakeWriter{}
	k := &KafkaSink{w: fw}
	at := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, k.Emit(context.Background(), Event{
		Type: EventUserRoleChanged, ActorID: "admin-1", TargetID: "u-2",
		Fields: map[string]any{"role": "PREMIUM"}, At: at,
	}))
	require.Len(t, fw.msgs, 1)
	m := fw.msgs[0]
	require.Equal(t, "admin-1", string(m.Key))
	require.Equal(t, at, m.Time)
	require.Equal(t, "event", m.Headers[0].Key)

	var got map[string]any
	require.NoError(t, json.Unmarshal(m.Value, &got))
	require.Equal(t, EventUserRoleChanged, got["event"])
	require.Equal(t, "u-2", got["targetId"])

	require.NoError(t, k.Close())
	require.True(t, fw.closed)
}

func TestLogNeverFailsCaller(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	restore := logger.ReplaceForTest(zap.New(core))
	defer restore()

	prev := SetDefault(Tee{LogSink{}, &KafkaSink{w: &fakeWriter{err: errors.New("broker down")}}})
	defer SetDefault(prev)

	Log(context.Background(), EventLogin, "u-1", "", map[string]any{"method": "otp"})

	require.Equal(t, 1, logs.FilterMessage("audit").Len())
	require.Equal(t, 1, logs.FilterMessage("audit emit failed").Len())
}

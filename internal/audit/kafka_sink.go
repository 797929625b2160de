package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/dohkar/dohkar-api/internal/observability/logger"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaSink publica eventos en un topic. El writer es async: Emit encola y
// los errores de entrega llegan al log vía Completion.
type KafkaSink struct {
	w messageWriter
}

func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	log := logger.Named("audit")
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
		Async:        true,
		BatchTimeout: 50 * time.Millisecond,
		Completion: func(msgs []kafkago.Message, err error) {
			if err != nil {
				log.Warn("audit kafka delivery failed", logger.Count(len(msgs)), logger.Err(err))
			}
		},
	}
	return &KafkaSink{w: w}
}

// encode usa ActorID como key para mantener el orden por usuario.
func encode(e Event) (kafkago.Message, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("audit: marshal: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(e.ActorID),
		Value: b,
		Time:  e.At,
		Headers: []kafkago.Header{
			{Key: "event", Value: []byte(e.Type)},
		},
	}, nil
}

func (k *KafkaSink) Emit(ctx context.Context, e Event) error {
	msg, err := encode(e)
	if err != nil {
		return err
	}
	return k.w.WriteMessages(ctx, msg)
}

func (k *KafkaSink) Close() error { return k.w.Close() }

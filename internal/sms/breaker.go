package sms

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/dohkar/dohkar-api/internal/metrics"
	"github.com/dohkar/dohkar-api/internal/observability/logger"
)

// BreakerConfig mapea config.SMS.Breaker.
type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	OpenTimeout      time.Duration
	FailureThreshold uint32
}

// Guarded envuelve un Sender con timeout por envío y circuit breaker.
// Con el breaker abierto Send falla al instante con ErrUnavailable.
type Guarded struct {
	next    Sender
	cb      *gobreaker.CircuitBreaker
	timeout time.Duration
}

func NewGuarded(next Sender, timeout time.Duration, bc BreakerConfig) *Guarded {
	if bc.FailureThreshold == 0 {
		bc.FailureThreshold = 5
	}
	log := logger.Named("sms")
	st := gobreaker.Settings{
		Name:        "sms-gateway",
		MaxRequests: bc.MaxRequests,
		Interval:    bc.Interval,
		Timeout:     bc.OpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= bc.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		// ErrRejected es un problema del mensaje, no del gateway.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrRejected)
		},
	}
	return &Guarded{next: next, cb: gobreaker.NewCircuitBreaker(st), timeout: timeout}
}

func (g *Guarded) Send(ctx context.Context, phone, text string) error {
	start := time.Now()
	_, err := g.cb.Execute(func() (interface{}, error) {
		cctx := ctx
		if g.timeout > 0 {
			var cancel context.CancelFunc
			cctx, cancel = context.WithTimeout(ctx, g.timeout)
			defer cancel()
		}
		return nil, g.next.Send(cctx, phone, text)
	})
	metrics.SMSLatency.Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		metrics.SMSDispatch.WithLabelValues("ok").Inc()
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.SMSDispatch.WithLabelValues("breaker_open").Inc()
		return ErrUnavailable
	default:
		metrics.SMSDispatch.WithLabelValues("failed").Inc()
		return err
	}
}

// State expone el estado del breaker (readyz y tests).
func (g *Guarded) State() string { return g.cb.State().String() }

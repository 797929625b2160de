// Package audit registra acciones sensibles (logins, cambios de rol,
// borrados del admin). Es best-effort: un sink caído nunca hace fallar la
// operación que lo origina.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/dohkar/dohkar-api/internal/observability/logger"
)

// Tipos de evento.
const (
	EventLogin             = "auth.login"
	EventLogout            = "auth.logout"
	EventPasswordChanged   = "auth.password_changed"
	EventIdentityLinked    = "auth.identity_linked"
	EventUserRoleChanged   = "admin.user_role_changed"
	EventUserDeleted       = "admin.user_deleted"
	EventPropertyStatusSet = "admin.property_status_changed"
	EventPropertyDeleted   = "admin.property_deleted"
)

type Event struct {
	Type     string         `json:"event"`
	ActorID  string         `json:"actorId,omitempty"`
	TargetID string         `json:"targetId,omitempty"`
	Fields   map[string]any `json:"fields,omitempty"`
	At       time.Time      `json:"ts"`
}

// Sink recibe eventos. Emit no debe bloquear más que unos milisegundos.
type Sink interface {
	Emit(ctx context.Context, e Event) error
	Close() error
}

var (
	mu          sync.RWMutex
	defaultSink Sink = LogSink{}
)

// SetDefault reemplaza el sink global y retorna el anterior.
func SetDefault(s Sink) Sink {
	mu.Lock()
	defer mu.Unlock()
	prev := defaultSink
	if s == nil {
		s = LogSink{}
	}
	defaultSink = s
	return prev
}

// Log emite un evento al sink global.
func Log(ctx context.Context, event, actorID, targetID string, fields map[string]any) {
	mu.RLock()
	s := defaultSink
	mu.RUnlock()
	e := Event{Type: event, ActorID: actorID, TargetID: targetID, Fields: fields, At: time.Now().UTC()}
	if err := s.Emit(ctx, e); err != nil {
		logger.From(ctx).Warn("audit emit failed", logger.Component("audit"), logger.String("event", event), logger.Err(err))
	}
}

// Tee reparte cada evento a todos los sinks.
type Tee []Sink

func (t Tee) Emit(ctx context.Context, e Event) error {
	var first error
	for _, s := range t {
		if err := s.Emit(ctx, e); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (t Tee) Close() error {
	var first error
	for _, s := range t {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

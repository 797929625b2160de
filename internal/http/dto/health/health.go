// Package health contiene DTOs para /healthz y /readyz.
package health

import "time"

// ComponentStatus es el estado de una dependencia.
type ComponentStatus struct {
	Status  string `json:"status"`            // "ok" | "error" | "disabled"
	Message string `json:"message,omitempty"` // detalle opcional
}

// HealthResponse es la respuesta de readiness.
type HealthResponse struct {
	Status     string                     `json:"status"` // "ready" | "degraded" | "unavailable"
	Components map[string]ComponentStatus `json:"components"`
	Version    string                     `json:"version,omitempty"`
	Timestamp  time.Time                  `json:"timestamp"`
}

// Package metrics define los collectors de dominio. Vive aparte de http para
// que sms, services y store puedan registrar sin ciclos de import.
package metrics

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// OTPSent cuenta pedidos de código por resultado: sent|sms_failed|throttled_phone|throttled_ip|error.
	OTPSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dohkar_otp_sent_total",
		Help: "Solicitudes de código OTP por resultado",
	}, []string{"result"})

	// SMSDispatch: ok|failed|breaker_open.
	SMSDispatch = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dohkar_sms_dispatch_total",
		Help: "Envíos al gateway SMS por resultado",
	}, []string{"result"})

	SMSLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dohkar_sms_dispatch_seconds",
		Help:    "Latencia de envío al gateway SMS",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})

	// AuthLogins: method=otp|password|refresh|oauth_<provider>, result=ok|fail.
	AuthLogins = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dohkar_auth_logins_total",
		Help: "Intentos de autenticación por método y resultado",
	}, []string{"method", "result"})

	// StatsCache: hit|miss.
	StatsCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dohkar_admin_stats_cache_total",
		Help: "Lecturas del cache de estadísticas",
	}, []string{"result"})
)

// Register registra los collectors de dominio (default registry si reg es nil).
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return RegisterAll(reg, OTPSent, SMSDispatch, SMSLatency, AuthLogins, StatsCache)
}

// RegisterAll registra cada collector ignorando duplicados.
func RegisterAll(reg prometheus.Registerer, cs ...prometheus.Collector) error {
	for _, c := range cs {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return err
		}
	}
	return nil
}

// PoolCollector expone el estado del pgxpool.
type PoolCollector struct {
	pool *pgxpool.Pool

	acquired *prometheus.Desc
	idle     *prometheus.Desc
	total    *prometheus.Desc
}

func NewPoolCollector(pool *pgxpool.Pool) *PoolCollector {
	return &PoolCollector{
		pool:     pool,
		acquired: prometheus.NewDesc("dohkar_pgxpool_acquired", "Conexiones adquiridas", nil, nil),
		idle:     prometheus.NewDesc("dohkar_pgxpool_idle", "Conexiones inactivas", nil, nil),
		total:    prometheus.NewDesc("dohkar_pgxpool_total", "Conexiones totales", nil, nil),
	}
}

func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquired
	ch <- c.idle
	ch <- c.total
}

func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	if c.pool == nil {
		return
	}
	st := c.pool.Stat()
	ch <- prometheus.MustNewConstMetric(c.acquired, prometheus.GaugeValue, float64(st.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(c.idle, prometheus.GaugeValue, float64(st.IdleConns()))
	ch <- prometheus.MustNewConstMetric(c.total, prometheus.GaugeValue, float64(st.TotalConns()))
}

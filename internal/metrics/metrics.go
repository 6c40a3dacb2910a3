// Package metrics содержит метрики Prometheus сервиса аутентификации.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Исходы операций аутентификации.
const (
	OutcomeSuccess = "success"
)

// Metrics — набор счётчиков сервиса. Нулевой указатель допустим и ничего не пишет.
type Metrics struct {
	authRequests *prometheus.CounterVec
}

// New регистрирует метрики в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		authRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blogapp",
			Subsystem: "auth",
			Name:      "requests_total",
			Help:      "Number of authentication operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
	}
	reg.MustRegister(m.authRequests)
	return m
}

// ObserveAuth увеличивает счётчик операции op с исходом outcome.
func (m *Metrics) ObserveAuth(op, outcome string) {
	if m == nil {
		return
	}
	m.authRequests.WithLabelValues(op, outcome).Inc()
}

package shop

import "github.com/prometheus/client_golang/prometheus"

const (
	lookupHit   = "hit"
	lookupMiss  = "miss"
	lookupError = "error"
)

type Metrics struct {
	CacheLookups *prometheus.CounterVec
}

func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "topsellers_cache_lookups_total",
				Help: "Top-seller cache lookups by result",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(m.CacheLookups)
	return m
}

func (m *Metrics) lookup(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

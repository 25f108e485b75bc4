package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns the HTTP handler exposing the default Prometheus
// registry, mounted at /metrics by the public server.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Register adds a custom collector to the default registry.
func Register(collector prometheus.Collector) error {
	return prometheus.Register(collector)
}

// MustRegister adds custom collectors to the default registry and panics
// on conflict. Intended for package-level initialization.
func MustRegister(collectors ...prometheus.Collector) {
	prometheus.MustRegister(collectors...)
}

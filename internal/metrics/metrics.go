package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	InteractionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slashbind_interactions_total",
		Help: "Total number of handled slash-command interactions",
	}, []string{"command", "status"})

	ParseErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slashbind_parse_errors_total",
		Help: "Total number of interaction payloads that failed to parse, by reason",
	}, []string{"reason"})

	HandlerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "slashbind_handler_duration_seconds",
		Help:    "Duration of slash-command handlers",
		Buckets: prometheus.DefBuckets,
	}, []string{"command"})

	CommandsRegistered = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slashbind_commands_registered",
		Help: "Number of application commands currently registered with Discord",
	})

	DiscordResponses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slashbind_discord_responses_total",
		Help: "Total number of interaction responses sent to Discord",
	}, []string{"type", "status"})
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	botCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Total number of bot commands received labeled by command and status",
		},
		[]string{"command", "status"},
	)
	commandDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "command_duration_seconds",
			Help:    "Duration of bot commands in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)
	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors split by type and severity",
		},
		[]string{"type", "severity"},
	)
	priceFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_fetch_total",
			Help: "Price provider requests labeled by provider and outcome",
		},
		[]string{"provider", "status"},
	)
	priceFetchDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "price_fetch_duration_seconds",
			Help:    "Latency of price provider requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)
	menuEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "menu_entries",
			Help: "Number of loaded menu entries per audience context",
		},
		[]string{"context"},
	)
	messagesSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_sent_total",
			Help: "Outbound messages labeled by navigation result kind",
		},
		[]string{"kind"},
	)
)

// RecordCommand increments command counters and records duration.
func RecordCommand(command, status string, duration time.Duration) {
	command = orUnknown(command)
	botCommandsTotal.WithLabelValues(command, orUnknown(status)).Inc()
	commandDurationSeconds.WithLabelValues(command).Observe(duration.Seconds())
}

// RecordError increments error counters with metadata.
func RecordError(errType, severity string) {
	errorsTotal.WithLabelValues(orUnknown(errType), orUnknown(severity)).Inc()
}

// RecordPriceFetch counts one provider attempt and its latency.
func RecordPriceFetch(provider, status string, duration time.Duration) {
	provider = orUnknown(provider)
	priceFetchTotal.WithLabelValues(provider, orUnknown(status)).Inc()
	priceFetchDurationSeconds.WithLabelValues(provider).Observe(duration.Seconds())
}

// SetMenuEntries updates the gauge of loaded entries for an audience context.
func SetMenuEntries(context string, count int) {
	menuEntries.WithLabelValues(orUnknown(context)).Set(float64(count))
}

// RecordMessageSent counts delivered chunks per navigation result kind.
func RecordMessageSent(kind string) {
	messagesSentTotal.WithLabelValues(orUnknown(kind)).Inc()
}

func orUnknown(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/onflow/chainbft/module"
)

type RunnerCollector struct {
	inboxLength   prometheus.Gauge
	eventDuration *prometheus.HistogramVec
	eventsDropped *prometheus.CounterVec
}

var _ module.RunnerMetrics = (*RunnerCollector)(nil)

func NewRunnerCollector(registerer prometheus.Registerer) *RunnerCollector {
	factory := promauto.With(registerer)
	return &RunnerCollector{
		inboxLength: factory.NewGauge(prometheus.GaugeOpts{
			Name:      "inbox_length",
			Namespace: namespaceConsensus,
			Subsystem: subsystemRunner,
			Help:      "number of events waiting to be processed by the consensus runner",
		}),
		eventDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:      "event_processing_seconds",
			Namespace: namespaceConsensus,
			Subsystem: subsystemRunner,
			Help:      "duration of processing one consensus event",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1},
		}, []string{LabelEvent}),
		eventsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name:      "events_dropped_total",
			Namespace: namespaceConsensus,
			Subsystem: subsystemRunner,
			Help:      "number of events dropped because the inbox was full",
		}, []string{LabelEvent}),
	}
}

func (c *RunnerCollector) InboxLength(length int) {
	c.inboxLength.Set(float64(length))
}

func (c *RunnerCollector) EventProcessed(event string, duration time.Duration) {
	c.eventDuration.WithLabelValues(event).Observe(duration.Seconds())
}

func (c *RunnerCollector) EventDropped(event string) {
	c.eventsDropped.WithLabelValues(event).Inc()
}

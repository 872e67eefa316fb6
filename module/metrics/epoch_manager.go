package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/onflow/chainbft/module"
)

type EpochManagerCollector struct {
	eventsReceived prometheus.Counter
	eventsQueued   prometheus.Counter
	eventsDropped  *prometheus.CounterVec
	queuedEvents   prometheus.Gauge
	currentEpoch   prometheus.Gauge
}

var _ module.EpochManagerMetrics = (*EpochManagerCollector)(nil)

func NewEpochManagerCollector(registerer prometheus.Registerer) *EpochManagerCollector {
	factory := promauto.With(registerer)
	return &EpochManagerCollector{
		eventsReceived: factory.NewCounter(prometheus.CounterOpts{
			Name:      "consensus_events_received_total",
			Namespace: namespaceConsensus,
			Subsystem: subsystemEpochManager,
			Help:      "number of consensus events dispatched to the current epoch",
		}),
		eventsQueued: factory.NewCounter(prometheus.CounterOpts{
			Name:      "consensus_events_enqueued_total",
			Namespace: namespaceConsensus,
			Subsystem: subsystemEpochManager,
			Help:      "number of consensus events queued for a future epoch",
		}),
		eventsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name:      "consensus_events_dropped_total",
			Namespace: namespaceConsensus,
			Subsystem: subsystemEpochManager,
			Help:      "number of consensus events dropped",
		}, []string{LabelReason}),
		queuedEvents: factory.NewGauge(prometheus.GaugeOpts{
			Name:      "queued_consensus_events",
			Namespace: namespaceConsensus,
			Subsystem: subsystemEpochManager,
			Help:      "number of consensus events currently queued for future epochs",
		}),
		currentEpoch: factory.NewGauge(prometheus.GaugeOpts{
			Name:      "current_epoch",
			Namespace: namespaceConsensus,
			Subsystem: subsystemEpochManager,
			Help:      "the epoch the node is currently in",
		}),
	}
}

func (c *EpochManagerCollector) ConsensusEventReceived() {
	c.eventsReceived.Inc()
}

func (c *EpochManagerCollector) ConsensusEventQueued() {
	c.eventsQueued.Inc()
}

func (c *EpochManagerCollector) ConsensusEventDropped(reason string) {
	c.eventsDropped.WithLabelValues(reason).Inc()
}

func (c *EpochManagerCollector) QueuedEvents(count int) {
	c.queuedEvents.Set(float64(count))
}

func (c *EpochManagerCollector) EpochTransition(epoch uint64) {
	c.currentEpoch.Set(float64(epoch))
}

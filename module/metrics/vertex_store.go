package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/onflow/chainbft/module"
)

type VertexStoreCollector struct {
	vertexCount            prometheus.Gauge
	byteSize               prometheus.Gauge
	forks                  prometheus.Counter
	indirectParents        prometheus.Counter
	rebuilds               prometheus.Counter
	errorsDueToSizeLimit   prometheus.Counter
	committedVerticesTotal prometheus.Counter
}

var _ module.VertexStoreMetrics = (*VertexStoreCollector)(nil)

func NewVertexStoreCollector(registerer prometheus.Registerer) *VertexStoreCollector {
	factory := promauto.With(registerer)
	return &VertexStoreCollector{
		vertexCount: factory.NewGauge(prometheus.GaugeOpts{
			Name:      "vertex_count",
			Namespace: namespaceConsensus,
			Subsystem: subsystemVertexStore,
			Help:      "number of uncommitted vertices held by the vertex store",
		}),
		byteSize: factory.NewGauge(prometheus.GaugeOpts{
			Name:      "byte_size",
			Namespace: namespaceConsensus,
			Subsystem: subsystemVertexStore,
			Help:      "size of the serialized vertex store state in bytes",
		}),
		forks: factory.NewCounter(prometheus.CounterOpts{
			Name:      "forks_total",
			Namespace: namespaceConsensus,
			Subsystem: subsystemVertexStore,
			Help:      "number of vertices inserted next to an existing sibling",
		}),
		indirectParents: factory.NewCounter(prometheus.CounterOpts{
			Name:      "indirect_parents_total",
			Namespace: namespaceConsensus,
			Subsystem: subsystemVertexStore,
			Help:      "number of vertices inserted whose parent is not from the preceding round",
		}),
		rebuilds: factory.NewCounter(prometheus.CounterOpts{
			Name:      "rebuilds_total",
			Namespace: namespaceConsensus,
			Subsystem: subsystemVertexStore,
			Help:      "number of successful rebuilds from a snapshot",
		}),
		errorsDueToSizeLimit: factory.NewCounter(prometheus.CounterOpts{
			Name:      "size_limit_errors_total",
			Namespace: namespaceConsensus,
			Subsystem: subsystemVertexStore,
			Help:      "number of inserts and rebuilds refused due to the serialized size limit",
		}),
		committedVerticesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name:      "committed_vertices_total",
			Namespace: namespaceConsensus,
			Subsystem: subsystemVertexStore,
			Help:      "number of vertices committed",
		}),
	}
}

func (c *VertexStoreCollector) VertexCount(count int) {
	c.vertexCount.Set(float64(count))
}

func (c *VertexStoreCollector) SerializedSize(bytes int) {
	c.byteSize.Set(float64(bytes))
}

func (c *VertexStoreCollector) ForkInserted() {
	c.forks.Inc()
}

func (c *VertexStoreCollector) IndirectParentInserted() {
	c.indirectParents.Inc()
}

func (c *VertexStoreCollector) Rebuilt() {
	c.rebuilds.Inc()
}

func (c *VertexStoreCollector) SizeLimitExceeded() {
	c.errorsDueToSizeLimit.Inc()
}

func (c *VertexStoreCollector) VerticesCommitted(count int) {
	c.committedVerticesTotal.Add(float64(count))
}

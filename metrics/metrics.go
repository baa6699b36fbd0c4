// Package metrics exposes the Prometheus instrumentation for block import
// and Safrole engine operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the counters, gauges, and histograms the importer and
// Safrole engine report against.
type Metrics struct {
	BlocksImported     prometheus.Counter
	BlocksRejected     prometheus.Counter
	TicketsAccepted    prometheus.Counter
	GuaranteesAccepted prometheus.Counter
	EpochBoundaries    prometheus.Counter

	TicketAccumulatorSize prometheus.Gauge
	HeadSlot              prometheus.Gauge

	ImportDuration     prometheus.Histogram
	SealVerifyDuration prometheus.Histogram
}

// New builds a Metrics set and registers every collector on registerer.
func New(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		BlocksImported: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jam_blocks_imported_total",
			Help: "Number of blocks successfully imported.",
		}),
		BlocksRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jam_blocks_rejected_total",
			Help: "Number of blocks that failed validation or application.",
		}),
		TicketsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jam_tickets_accepted_total",
			Help: "Number of ticket submissions accepted into the accumulator.",
		}),
		GuaranteesAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jam_guarantees_accepted_total",
			Help: "Number of work-report guarantees that verified.",
		}),
		EpochBoundaries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jam_epoch_boundaries_total",
			Help: "Number of epoch boundary transitions applied.",
		}),
		TicketAccumulatorSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "jam_ticket_accumulator_size",
			Help: "Current size of the next epoch's ticket accumulator.",
		}),
		HeadSlot: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "jam_head_slot",
			Help: "Timeslot of the most recently imported block.",
		}),
		ImportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "jam_block_import_seconds",
			Help:    "Wall-clock time spent importing a block.",
			Buckets: prometheus.DefBuckets,
		}),
		SealVerifyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "jam_seal_verify_seconds",
			Help:    "Wall-clock time spent verifying a header's seal and VRF signatures.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	collectors := []prometheus.Collector{
		m.BlocksImported, m.BlocksRejected, m.TicketsAccepted, m.GuaranteesAccepted,
		m.EpochBoundaries, m.TicketAccumulatorSize, m.HeadSlot, m.ImportDuration, m.SealVerifyDuration,
	}
	for _, c := range collectors {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveImport records the outcome and duration of a single import call.
func (m *Metrics) ObserveImport(ok bool, slot uint32, took time.Duration) {
	m.ImportDuration.Observe(took.Seconds())
	if ok {
		m.BlocksImported.Inc()
		m.HeadSlot.Set(float64(slot))
		return
	}
	m.BlocksRejected.Inc()
}

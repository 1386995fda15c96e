package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TerminalMetrics records counters for a POS terminal daemon.
type TerminalMetrics struct {
	blockedAdds       *prometheus.CounterVec
	cacheInvalidation prometheus.Counter
	saleCommits       *prometheus.CounterVec
	saleDuration      prometheus.Histogram
	stockEvents       *prometheus.CounterVec
}

// NewTerminalMetrics registers the terminal metrics on the provided registerer.
// A nil registerer yields a no-op instance, which tests rely on.
func NewTerminalMetrics(reg prometheus.Registerer) *TerminalMetrics {
	if reg == nil {
		return &TerminalMetrics{}
	}
	blockedAdds := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "terminal_blocked_adds_total",
		Help: "Cart additions rejected because available stock was exhausted.",
	}, []string{"context"})
	cacheInvalidation := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "terminal_catalog_invalidations_total",
		Help: "Wholesale catalog cache invalidations triggered by stock events.",
	})
	saleCommits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "terminal_sale_commits_total",
		Help: "Sale commit attempts by outcome.",
	}, []string{"outcome"})
	saleDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "terminal_sale_commit_seconds",
		Help:    "Duration of sale commit round trips in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	stockEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "terminal_stock_events_total",
		Help: "Remote stock change events by handling result.",
	}, []string{"result"})
	reg.MustRegister(blockedAdds, cacheInvalidation, saleCommits, saleDuration, stockEvents)
	return &TerminalMetrics{
		blockedAdds:       blockedAdds,
		cacheInvalidation: cacheInvalidation,
		saleCommits:       saleCommits,
		saleDuration:      saleDuration,
		stockEvents:       stockEvents,
	}
}

// IncBlockedAdd counts a rejected cart addition for the named cart context.
func (t *TerminalMetrics) IncBlockedAdd(cartContext string) {
	if t == nil || t.blockedAdds == nil {
		return
	}
	t.blockedAdds.WithLabelValues(normalizeLabel(cartContext)).Inc()
}

// IncCacheInvalidation counts a wholesale catalog invalidation.
func (t *TerminalMetrics) IncCacheInvalidation() {
	if t == nil || t.cacheInvalidation == nil {
		return
	}
	t.cacheInvalidation.Inc()
}

// ObserveSaleCommit records one commit attempt and its duration.
func (t *TerminalMetrics) ObserveSaleCommit(outcome string, duration time.Duration) {
	if t == nil || t.saleCommits == nil {
		return
	}
	t.saleCommits.WithLabelValues(normalizeLabel(outcome)).Inc()
	t.saleDuration.Observe(duration.Seconds())
}

// IncStockEvent counts a received stock change event by handling result.
func (t *TerminalMetrics) IncStockEvent(result string) {
	if t == nil || t.stockEvents == nil {
		return
	}
	t.stockEvents.WithLabelValues(normalizeLabel(result)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

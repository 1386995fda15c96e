package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestTerminalMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewTerminalMetrics(reg)

	metrics.IncBlockedAdd("pos")
	metrics.IncBlockedAdd("pos")
	metrics.IncCacheInvalidation()
	metrics.ObserveSaleCommit("success", 120*time.Millisecond)
	metrics.IncStockEvent("applied")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "terminal_blocked_adds_total", "context", "pos"); err != nil {
		t.Fatalf("fetch blocked adds: %v", err)
	} else if got != 2 {
		t.Fatalf("expected blocked adds=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "terminal_sale_commits_total", "outcome", "success"); err != nil {
		t.Fatalf("fetch sale commits: %v", err)
	} else if got != 1 {
		t.Fatalf("expected sale commits=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "terminal_stock_events_total", "result", "applied"); err != nil {
		t.Fatalf("fetch stock events: %v", err)
	} else if got != 1 {
		t.Fatalf("expected stock events=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "terminal_sale_commit_seconds"); err != nil {
		t.Fatalf("fetch commit duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestTerminalMetricsNilRegistererIsNoop(t *testing.T) {
	metrics := NewTerminalMetrics(nil)
	metrics.IncBlockedAdd("store")
	metrics.IncCacheInvalidation()
	metrics.ObserveSaleCommit("failure", time.Second)
	metrics.IncStockEvent("rejected")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		return metric.GetHistogram().GetSampleSum(), nil
	}
	return 0, fmt.Errorf("histogram %q has no samples", name)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}

// Package metrics provides internal metrics utilities for the warehouse client.
package metrics

import "github.com/arloliu/warehouse/types"

// NopMetrics is a no-op metrics collector that discards all metrics.
//
// This is used as the default metrics collector when no collector is configured,
// avoiding nil checks throughout the codebase.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements types.MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNopMetrics creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A collector that discards all metrics
func NewNopMetrics() *NopMetrics {
	return &NopMetrics{}
}

// IncReadTotal discards the metric.
func (m *NopMetrics) IncReadTotal(_ types.Path) {}

// IncReadError discards the metric.
func (m *NopMetrics) IncReadError(_ types.Path) {}

// ObserveReadDuration discards the metric.
func (m *NopMetrics) ObserveReadDuration(_ types.Path, _ float64) {}

// IncExecuteTotal discards the metric.
func (m *NopMetrics) IncExecuteTotal(_ types.Path) {}

// IncExecuteError discards the metric.
func (m *NopMetrics) IncExecuteError(_ types.Path) {}

// ObserveExecuteDuration discards the metric.
func (m *NopMetrics) ObserveExecuteDuration(_ types.Path, _ float64) {}

// IncConnectionOpened discards the metric.
func (m *NopMetrics) IncConnectionOpened() {}

// IncSessionOpened discards the metric.
func (m *NopMetrics) IncSessionOpened() {}

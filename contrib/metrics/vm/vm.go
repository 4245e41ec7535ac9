package vm

import (
	"fmt"
	"io"
	"net/http"

	"github.com/VictoriaMetrics/metrics"
	"github.com/arloliu/warehouse/types"
)

// Option configures a Collector.
type Option func(*Collector)

// WithPrefix sets the metric name prefix.
//
// Default: "warehouse"
//
// Parameters:
//   - prefix: The prefix to use for all metric names
//
// Returns:
//   - Option: A configuration option
func WithPrefix(prefix string) Option {
	return func(c *Collector) {
		c.prefix = prefix
	}
}

// WithMetricsSet sets the metrics set to use.
//
// If provided, the collector will register metrics with this set instead of
// creating a new one. The caller is responsible for exposing this set
// (e.g., via metrics.WritePrometheus or a custom handler).
//
// Parameters:
//   - set: The metrics set to use
//
// Returns:
//   - Option: A configuration option
func WithMetricsSet(set *metrics.Set) Option {
	return func(c *Collector) {
		c.set = set
	}
}

// pathMetrics holds the per-path series.
type pathMetrics struct {
	readTotal       *metrics.Counter
	readErrors      *metrics.Counter
	readDuration    *metrics.Histogram
	executeTotal    *metrics.Counter
	executeErrors   *metrics.Counter
	executeDuration *metrics.Histogram
}

// Collector implements types.MetricsCollector using VictoriaMetrics.
//
// All metrics are pre-created at initialization time for optimal performance.
// Thread-safe for concurrent use.
type Collector struct {
	set    *metrics.Set
	prefix string

	connector pathMetrics
	session   pathMetrics

	connectionsOpened *metrics.Counter
	sessionsOpened    *metrics.Counter
}

// Compile-time assertion that Collector implements types.MetricsCollector.
var _ types.MetricsCollector = (*Collector)(nil)

// New creates a new VictoriaMetrics-based metrics collector.
//
// The collector creates its own metrics.Set and registers it globally.
// All metrics are pre-created at initialization for optimal performance.
//
// Parameters:
//   - opts: Configuration options (e.g., WithPrefix)
//
// Returns:
//   - *Collector: A new metrics collector ready for use
//
// Example:
//
//	collector := vm.New(vm.WithPrefix("myapp"))
//	client := warehouse.NewClient(warehouse.WithMetrics(collector))
func New(opts ...Option) *Collector {
	c := &Collector{
		prefix: "warehouse",
	}

	for _, opt := range opts {
		opt(c)
	}

	// If no set is provided, create a new one and register it globally.
	// If a set is provided, we assume the caller manages it.
	if c.set == nil {
		c.set = metrics.NewSet()
		metrics.RegisterSet(c.set)
	}

	c.initMetrics()

	return c
}

// initMetrics pre-creates all metrics with the configured prefix.
func (c *Collector) initMetrics() {
	c.connector = c.newPathMetrics(types.PathConnector)
	c.session = c.newPathMetrics(types.PathSession)

	c.connectionsOpened = c.set.NewCounter(fmt.Sprintf(`%s_connections_opened_total`, c.prefix))
	c.sessionsOpened = c.set.NewCounter(fmt.Sprintf(`%s_sessions_opened_total`, c.prefix))
}

func (c *Collector) newPathMetrics(path types.Path) pathMetrics {
	p := c.prefix

	return pathMetrics{
		readTotal:       c.set.NewCounter(fmt.Sprintf(`%s_read_total{path="%s"}`, p, path)),
		readErrors:      c.set.NewCounter(fmt.Sprintf(`%s_read_errors_total{path="%s"}`, p, path)),
		readDuration:    c.set.NewHistogram(fmt.Sprintf(`%s_read_duration_seconds{path="%s"}`, p, path)),
		executeTotal:    c.set.NewCounter(fmt.Sprintf(`%s_execute_total{path="%s"}`, p, path)),
		executeErrors:   c.set.NewCounter(fmt.Sprintf(`%s_execute_errors_total{path="%s"}`, p, path)),
		executeDuration: c.set.NewHistogram(fmt.Sprintf(`%s_execute_duration_seconds{path="%s"}`, p, path)),
	}
}

func (c *Collector) forPath(path types.Path) *pathMetrics {
	if path == types.PathSession {
		return &c.session
	}

	return &c.connector
}

// Set returns the underlying metrics set.
func (c *Collector) Set() *metrics.Set {
	return c.set
}

// Handler returns an HTTP handler that exposes metrics in Prometheus format.
//
// Example:
//
//	http.HandleFunc("/metrics", collector.Handler)
func (c *Collector) Handler(w http.ResponseWriter, _ *http.Request) {
	c.set.WritePrometheus(w)
}

// WritePrometheus writes all metrics in Prometheus format to the given writer.
//
// Parameters:
//   - w: The writer to write metrics to
func (c *Collector) WritePrometheus(w io.Writer) {
	c.set.WritePrometheus(w)
}

// IncReadTotal increments the total read operations counter.
func (c *Collector) IncReadTotal(path types.Path) {
	c.forPath(path).readTotal.Inc()
}

// IncReadError increments the read error counter.
func (c *Collector) IncReadError(path types.Path) {
	c.forPath(path).readErrors.Inc()
}

// ObserveReadDuration records a read operation duration in seconds.
func (c *Collector) ObserveReadDuration(path types.Path, seconds float64) {
	c.forPath(path).readDuration.Update(seconds)
}

// IncExecuteTotal increments the total execute operations counter.
func (c *Collector) IncExecuteTotal(path types.Path) {
	c.forPath(path).executeTotal.Inc()
}

// IncExecuteError increments the execute error counter.
func (c *Collector) IncExecuteError(path types.Path) {
	c.forPath(path).executeErrors.Inc()
}

// ObserveExecuteDuration records an execute operation duration in seconds.
func (c *Collector) ObserveExecuteDuration(path types.Path, seconds float64) {
	c.forPath(path).executeDuration.Update(seconds)
}

// IncConnectionOpened increments the counter of connector connections opened.
func (c *Collector) IncConnectionOpened() {
	c.connectionsOpened.Inc()
}

// IncSessionOpened increments the counter of compute sessions created.
func (c *Collector) IncSessionOpened() {
	c.sessionsOpened.Inc()
}

package types

// MetricsCollector defines methods for collecting operational metrics.
//
// All call-scoped methods accept a Path parameter for labeling.
// Implementations should be thread-safe as methods may be called concurrently.
//
// Example usage with VictoriaMetrics (via contrib/metrics/vm):
//
//	import vmmetrics "github.com/arloliu/warehouse/contrib/metrics/vm"
//
//	collector := vmmetrics.New(vmmetrics.WithPrefix("myapp"))
//	client := warehouse.NewClient(warehouse.WithMetrics(collector))
//
//	// Expose metrics via HTTP
//	http.HandleFunc("/metrics", collector.Handler)
type MetricsCollector interface {
	// ----------------------
	// Read Operations
	// ----------------------

	// IncReadTotal increments the total read operations counter.
	IncReadTotal(path Path)

	// IncReadError increments the read error counter.
	IncReadError(path Path)

	// ObserveReadDuration records a read operation duration in seconds.
	ObserveReadDuration(path Path, seconds float64)

	// ----------------------
	// Execute Operations
	// ----------------------

	// IncExecuteTotal increments the total execute operations counter.
	IncExecuteTotal(path Path)

	// IncExecuteError increments the execute error counter.
	IncExecuteError(path Path)

	// ObserveExecuteDuration records an execute operation duration in seconds.
	ObserveExecuteDuration(path Path, seconds float64)

	// ----------------------
	// Resources
	// ----------------------

	// IncConnectionOpened increments the counter of connector connections opened.
	IncConnectionOpened()

	// IncSessionOpened increments the counter of compute sessions created.
	IncSessionOpened()
}

// Package vm provides a VictoriaMetrics-based implementation of the MetricsCollector interface.
//
// This package uses github.com/VictoriaMetrics/metrics for lightweight,
// high-performance Prometheus-compatible metrics collection.
//
// # Basic Usage
//
// Create a collector with default prefix "warehouse":
//
//	collector := vm.New()
//	client := warehouse.NewClient(warehouse.WithMetrics(collector))
//
// # Custom Prefix
//
// Use WithPrefix to customize the metric name prefix:
//
//	collector := vm.New(vm.WithPrefix("myapp"))
//
// This produces metrics like:
//   - myapp_read_total{path="connector"}
//   - myapp_execute_duration_seconds{path="session"}
//
// # Exposing Metrics
//
// Use the Handler method to expose metrics via HTTP:
//
//	http.HandleFunc("/metrics", collector.Handler)
//	http.ListenAndServe(":8080", nil)
//
// Or use WritePrometheus to write metrics to a custom writer:
//
//	collector.WritePrometheus(w)
//
// # Metrics Provided
//
// Read operations (Read and ReadTyped):
//   - {prefix}_read_total{path} - Counter of read operations
//   - {prefix}_read_errors_total{path} - Counter of read errors
//   - {prefix}_read_duration_seconds{path} - Histogram of read latencies
//
// Execute operations:
//   - {prefix}_execute_total{path} - Counter of execute operations
//   - {prefix}_execute_errors_total{path} - Counter of execute errors
//   - {prefix}_execute_duration_seconds{path} - Histogram of execute latencies
//
// Resources:
//   - {prefix}_connections_opened_total - Counter of connector connections opened
//   - {prefix}_sessions_opened_total - Counter of compute sessions created
//
// The path label is "connector" or "session".
//
// # Performance Notes
//
// This implementation pre-creates all metrics at initialization time
// using the NewXXX pattern (instead of GetOrCreateXXX) for optimal
// performance in hot paths, as recommended by the VictoriaMetrics documentation.
package vm

package warehouse

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/arloliu/warehouse/adapter/connector"
	"github.com/arloliu/warehouse/adapter/session"
	"github.com/arloliu/warehouse/internal/logging"
	"github.com/arloliu/warehouse/internal/metrics"
	"github.com/arloliu/warehouse/types"
)

// ClientConfig holds configuration for warehouse clients.
type ClientConfig struct {
	Connector       connector.Connector
	SessionProvider session.Provider
	SessionFactory  session.Factory
	Logger          types.Logger
	Metrics         types.MetricsCollector
	EnvLookup       types.LookupFunc
	Allocator       memory.Allocator
	Defaults        types.ConnParams
}

// DefaultConfig returns a ClientConfig with sensible defaults.
//
// Neither path has a backend by default. A call routed to an unconfigured
// path fails with ErrNilConnector or ErrNilSessionProvider.
//
// Returns:
//   - *ClientConfig: Configuration with default settings
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		Logger:    logging.NewNopLogger(),
		Metrics:   metrics.NewNopMetrics(),
		Allocator: memory.DefaultAllocator,
	}
}

// Option configures a ClientConfig.
type Option func(*ClientConfig)

// WithConnector sets the client used outside the cluster runtime.
//
// Parameters:
//   - c: The connector (e.g., databricks.NewConnector())
//
// Returns:
//   - Option: Configuration option
func WithConnector(c connector.Connector) Option {
	return func(cfg *ClientConfig) {
		cfg.Connector = c
	}
}

// WithSessionProvider sets the provider of the compute session used inside
// the cluster runtime.
//
// Parameters:
//   - p: The session provider
//
// Returns:
//   - Option: Configuration option
func WithSessionProvider(p session.Provider) Option {
	return func(cfg *ClientConfig) {
		cfg.SessionProvider = p
	}
}

// WithSessionFactory sets a factory for the compute session.
//
// The client wraps it in a session.CachingProvider, so the factory runs
// once on the first session-path call. Ignored when WithSessionProvider
// is also set.
//
// Parameters:
//   - factory: Function that creates the session
//
// Returns:
//   - Option: Configuration option
//
// Example:
//
//	warehouse.WithSessionFactory(func(ctx context.Context) (session.Session, error) {
//	    return statement.NewWorkspaceSession(&databricks.Config{}, "abc123")
//	})
func WithSessionFactory(factory func(ctx context.Context) (session.Session, error)) Option {
	return func(cfg *ClientConfig) {
		cfg.SessionFactory = factory
	}
}

// WithLogger sets the logger.
//
// If not set, a no-op logger is used. Use contrib/logging/zaplog for zap.
//
// Parameters:
//   - logger: The logger implementation
//
// Returns:
//   - Option: Configuration option
func WithLogger(logger types.Logger) Option {
	return func(cfg *ClientConfig) {
		cfg.Logger = logger
	}
}

// WithMetrics sets the metrics collector.
//
// If not set, a no-op collector is used that discards all metrics.
// Use contrib/metrics/vm.New() for VictoriaMetrics integration.
//
// Parameters:
//   - collector: The metrics collector implementation
//
// Returns:
//   - Option: Configuration option
func WithMetrics(collector types.MetricsCollector) Option {
	return func(cfg *ClientConfig) {
		cfg.Metrics = collector
	}
}

// WithEnvLookup sets the function used to read the runtime environment variable.
//
// Default: os.LookupEnv
//
// Parameters:
//   - lookup: Function with the os.LookupEnv signature
//
// Returns:
//   - Option: Configuration option
func WithEnvLookup(lookup types.LookupFunc) Option {
	return func(cfg *ClientConfig) {
		cfg.EnvLookup = lookup
	}
}

// WithAllocator sets the Arrow allocator for typed results.
//
// Default: memory.DefaultAllocator
//
// Parameters:
//   - mem: The allocator
//
// Returns:
//   - Option: Configuration option
func WithAllocator(mem memory.Allocator) Option {
	return func(cfg *ClientConfig) {
		cfg.Allocator = mem
	}
}

// WithDefaults sets connection parameters used for fields a call leaves empty.
//
// Parameters:
//   - defaults: Default connection parameters
//
// Returns:
//   - Option: Configuration option
func WithDefaults(defaults types.ConnParams) Option {
	return func(cfg *ClientConfig) {
		cfg.Defaults = defaults
	}
}

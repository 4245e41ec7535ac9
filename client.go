package warehouse

import (
	"github.com/arloliu/warehouse/table"
	"github.com/arloliu/warehouse/types"
)

// Type aliases for convenience - re-export from types package.
type (
	Path             = types.Path
	ConnParams       = types.ConnParams
	Params           = types.Params
	SchemaOverrides  = types.SchemaOverrides
	Logger           = types.Logger
	MetricsCollector = types.MetricsCollector
	Frame            = table.Frame
)

// Re-export path constants for convenience.
const (
	PathConnector = types.PathConnector
	PathSession   = types.PathSession
)

// RuntimeVersionEnv is the environment variable whose presence selects the session path.
const RuntimeVersionEnv = types.RuntimeVersionEnv

// Package warehouse dispatches SQL to Databricks from inside or outside a
// cluster runtime.
//
// The same three calls work in both places:
//
//   - Read: run a query and return a row-oriented table.Frame
//   - ReadTyped: run a query and return a typed Arrow record, with optional
//     per-column type overrides
//   - Execute: run a statement for its side effect
//
// # Path Selection
//
// Each call checks the DATABRICKS_RUNTIME_VERSION environment variable.
// When it is present, with any value including the empty string, the call
// goes to the long-lived compute session. Otherwise the call opens a SQL
// connector connection, uses it, and closes it before returning.
//
// # Basic Usage
//
//	client := warehouse.NewClient(
//	    warehouse.WithConnector(databricks.NewConnector()),
//	    warehouse.WithSessionFactory(func(ctx context.Context) (session.Session, error) {
//	        return statement.NewWorkspaceSession(&sdk.Config{}, "abc123")
//	    }),
//	)
//	defer client.Close()
//
//	frame, err := client.Read(ctx, "SELECT * FROM t WHERE id = :id",
//	    warehouse.ConnParams{Host: "adb-1.azuredatabricks.net", WarehouseID: "abc123"},
//	    warehouse.Params{"id": 7},
//	)
//
// The package-level Read, ReadTyped and Execute functions use a default
// client configured from the environment (see the config package).
//
// # Parameters
//
// Query parameters are named and handed to the underlying client unchanged.
// The SQL text refers to them with the :name marker on both paths.
//
// # Error Handling
//
// Errors from the connector or the session are returned unchanged, so
// callers can match driver and SDK error types directly. Conditions the
// library itself detects use sentinel errors from the types package:
//
//	frame, err := client.Read(ctx, query, conn, nil)
//	if errors.Is(err, types.ErrNilConnector) {
//	    // the connector path was selected but no connector is configured
//	}
//
// Failed remote statements on the session path are reported as
// *types.StatementError, and failed conversions as *types.CastError.
//
// # Observability
//
// Logging uses the types.Logger interface (see contrib/logging/zaplog) and
// metrics use types.MetricsCollector (see contrib/metrics/vm). Both default
// to no-op implementations.
package warehouse

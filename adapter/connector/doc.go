// Package connector provides the SQL connector interfaces used by the warehouse client.
//
// The connector path is taken when the process runs outside a Databricks
// cluster runtime. Each call acquires one scoped [Conn] from a [Connector],
// runs a single statement on it, and closes it before returning.
//
// # Interfaces
//
//   - [Connector]: Opens a connection for one call from connection parameters
//   - [Conn]: Executes queries with named parameters and releases the connection
//
// # database/sql Adapters
//
// [NewDBConn] wraps a *sql.Conn and [NewDBConnector] wraps a *sql.DB so any
// database/sql driver can back the connector path:
//
//	db, _ := sql.Open("sqlite3", ":memory:")
//	client := warehouse.NewClient(
//	    warehouse.WithConnector(connector.NewDBConnector(db)),
//	)
//
// Named parameters are bound with sql.Named in sorted key order, so the
// driver must support named placeholders (":name", "@name", or "$name"
// depending on the driver).
//
// The databricks subpackage provides the Databricks SQL driver connector.
package connector

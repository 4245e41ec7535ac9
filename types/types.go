// Package types provides shared types and errors for the warehouse library.
//
// This is a "leaf" package with no imports from other warehouse packages,
// allowing it to be imported by any package without causing import cycles.
package types

import (
	"errors"
	"fmt"
	"os"
)

// RuntimeVersionEnv is the environment variable set by the Databricks cluster runtime.
//
// Its presence, with any value, means the process runs inside a managed cluster.
const RuntimeVersionEnv = "DATABRICKS_RUNTIME_VERSION"

// Path identifies which client executes a call.
type Path string

// String returns the string representation of the Path.
func (p Path) String() string {
	return string(p)
}

const (
	// PathConnector routes calls through the SQL connector (outside the runtime).
	PathConnector Path = "connector"
	// PathSession routes calls through the compute session (inside the runtime).
	PathSession Path = "session"
)

// LookupFunc reports the value of an environment variable and whether it is set.
//
// It has the same signature as os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// DetectPath resolves the execution path from the environment.
//
// The session path is chosen when RuntimeVersionEnv is present, even when
// its value is empty. A nil lookup uses os.LookupEnv.
func DetectPath(lookup LookupFunc) Path {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if _, ok := lookup(RuntimeVersionEnv); ok {
		return PathSession
	}

	return PathConnector
}

// ConnParams holds the connection parameters for the connector path.
//
// Every field is optional. Empty fields are filled from the connector's
// defaults. The connector rejects parameters it cannot connect with.
type ConnParams struct {
	// Host is the workspace hostname, e.g. "adb-123.4.azuredatabricks.net".
	Host string

	// ClusterID selects an all-purpose cluster endpoint.
	ClusterID string

	// WarehouseID selects a SQL warehouse endpoint. Takes precedence over ClusterID.
	WarehouseID string

	// ClientID is the service principal application ID (OAuth M2M).
	ClientID string

	// ClientSecret is the service principal secret (OAuth M2M).
	ClientSecret string

	// AccessToken is a personal access token, used when ClientID is empty.
	AccessToken string
}

// Merge returns a copy of p with empty fields taken from defaults.
func (p ConnParams) Merge(defaults ConnParams) ConnParams {
	pick := func(v, d string) string {
		if v != "" {
			return v
		}
		return d
	}

	return ConnParams{
		Host:         pick(p.Host, defaults.Host),
		ClusterID:    pick(p.ClusterID, defaults.ClusterID),
		WarehouseID:  pick(p.WarehouseID, defaults.WarehouseID),
		ClientID:     pick(p.ClientID, defaults.ClientID),
		ClientSecret: pick(p.ClientSecret, defaults.ClientSecret),
		AccessToken:  pick(p.AccessToken, defaults.AccessToken),
	}
}

// Params maps named query parameters to their values.
//
// The library never inspects the values; they are handed to the client as-is.
type Params map[string]any

// SchemaOverrides maps column names to Spark-style type names ("long", "int", ...).
type SchemaOverrides map[string]string

// Rows is the row cursor returned by a query.
//
// *sql.Rows satisfies this interface.
type Rows interface {
	// Columns returns the column names.
	Columns() ([]string, error)

	// Next prepares the next row for Scan.
	Next() bool

	// Scan copies the current row into dest.
	Scan(dest ...any) error

	// Err returns the error, if any, encountered during iteration.
	Err() error

	// Close releases the cursor.
	Close() error
}

// Logger is the structured logger used by the library.
//
// Arguments after the message are alternating key-value pairs.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Sentinel errors for common failure scenarios.
var (
	// ErrClientClosed indicates an operation was attempted on a closed client.
	ErrClientClosed = errors.New("warehouse: client is closed")

	// ErrNilConnector indicates the connector path was selected but no connector is configured.
	ErrNilConnector = errors.New("warehouse: connector is not configured")

	// ErrNilSessionProvider indicates the session path was selected but no session provider is configured.
	ErrNilSessionProvider = errors.New("warehouse: session provider is not configured")

	// ErrUnknownType indicates a type name that cannot be mapped to a column type.
	ErrUnknownType = errors.New("warehouse: unknown column type")

	// ErrUnknownColumn indicates a cast targets a column the result does not have.
	ErrUnknownColumn = errors.New("warehouse: unknown column")

	// ErrMissingHost indicates no workspace host was supplied or configured.
	ErrMissingHost = errors.New("warehouse: host is required")

	// ErrMissingHTTPPath indicates neither a warehouse ID nor a cluster ID was supplied.
	ErrMissingHTTPPath = errors.New("warehouse: warehouse id or cluster id is required")

	// ErrMissingWarehouse indicates the statement session has no warehouse to run on.
	ErrMissingWarehouse = errors.New("warehouse: session warehouse id is required")

	// ErrStatementFailed indicates a remote statement did not succeed.
	ErrStatementFailed = errors.New("warehouse: statement failed")
)

// CastError reports a value that could not be converted to the requested type.
type CastError struct {
	// Column is the column being cast. Empty when casting a standalone value.
	Column string

	// Type is the requested type name.
	Type string

	// Value is the offending value.
	Value any

	// Cause is the underlying conversion error, if any.
	Cause error
}

// Error implements the error interface.
func (e *CastError) Error() string {
	msg := fmt.Sprintf("warehouse: cannot cast %T(%v) to %s", e.Value, e.Value, e.Type)
	if e.Column != "" {
		msg += " in column " + e.Column
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	return msg
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *CastError) Unwrap() error {
	return e.Cause
}

// StatementError reports a remote statement that finished in a non-success state.
type StatementError struct {
	// StatementID is the server-assigned statement identifier.
	StatementID string

	// State is the terminal state, e.g. "FAILED" or "CANCELED".
	State string

	// Code is the server error code, when provided.
	Code string

	// Message is the server error message, when provided.
	Message string
}

// Error implements the error interface.
func (e *StatementError) Error() string {
	msg := "warehouse: statement " + e.StatementID + " " + e.State
	if e.Code != "" {
		msg += " [" + e.Code + "]"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}

	return msg
}

// Unwrap returns ErrStatementFailed so callers can match with errors.Is.
func (e *StatementError) Unwrap() error {
	return ErrStatementFailed
}

// Package types provides shared types and error definitions for the warehouse library.
//
// This is a leaf package with zero warehouse imports to prevent import cycles.
// All packages in warehouse can safely import this package.
//
// # Paths
//
// Path identifies which client executes a call:
//
//	const (
//	    PathConnector Path = "connector"
//	    PathSession   Path = "session"
//	)
//
// DetectPath picks PathSession when DATABRICKS_RUNTIME_VERSION is set and
// PathConnector otherwise.
//
// # Errors
//
// Sentinel errors are provided for conditions the library detects itself:
//
//   - ErrClientClosed: Operation attempted on a closed client
//   - ErrNilConnector: Connector path selected without a connector
//   - ErrNilSessionProvider: Session path selected without a session provider
//   - ErrUnknownType: Type override names an unsupported type
//   - ErrMissingHost, ErrMissingHTTPPath: Connector parameters are incomplete
//   - ErrStatementFailed: A remote statement ended in a non-success state
//
// Errors raised by the underlying clients are never wrapped and reach the
// caller unchanged.
package types

package connector

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"slices"

	"github.com/arloliu/warehouse/types"
)

// Connector opens a scoped connection for a single call.
type Connector interface {
	// Connect acquires a connection using the given parameters.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - params: Connection parameters for this call
	//
	// Returns:
	//   - Conn: The connection; the caller must Close it
	//   - error: Error from the underlying driver
	Connect(ctx context.Context, params types.ConnParams) (Conn, error)
}

// Conn is a connection checked out for the duration of one call.
//
// A Conn must not be used after Close.
type Conn interface {
	// QueryContext executes a query that returns rows.
	QueryContext(ctx context.Context, query string, params types.Params) (types.Rows, error)

	// ExecContext executes a statement without returning rows.
	ExecContext(ctx context.Context, query string, params types.Params) error

	// Close releases the connection and anything acquired with it.
	Close() error
}

// NamedArgs converts query parameters into sql.Named arguments sorted by name.
//
// Returns nil for nil or empty params, so the driver receives no arguments.
func NamedArgs(params types.Params) []any {
	if len(params) == 0 {
		return nil
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	slices.Sort(names)

	args := make([]any, len(names))
	for i, name := range names {
		args[i] = sql.Named(name, params[name])
	}

	return args
}

// dbConn wraps *sql.Conn to implement the Conn interface.
type dbConn struct {
	conn    *sql.Conn
	closers []io.Closer
}

// NewDBConn creates a Conn wrapping a *sql.Conn.
//
// The closers are closed after the connection itself, in order. Use them to
// release resources tied to this connection, such as the *sql.DB it came from.
//
// Parameters:
//   - conn: The underlying connection to wrap
//   - closers: Additional resources released by Close
//
// Returns:
//   - Conn: An adapter implementing the Conn interface
func NewDBConn(conn *sql.Conn, closers ...io.Closer) Conn {
	return &dbConn{conn: conn, closers: closers}
}

// QueryContext executes a query that returns rows.
func (c *dbConn) QueryContext(ctx context.Context, query string, params types.Params) (types.Rows, error) {
	rows, err := c.conn.QueryContext(ctx, query, NamedArgs(params)...)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// ExecContext executes a statement without returning rows.
func (c *dbConn) ExecContext(ctx context.Context, query string, params types.Params) error {
	_, err := c.conn.ExecContext(ctx, query, NamedArgs(params)...)

	return err
}

// Close closes the connection, then every additional closer.
func (c *dbConn) Close() error {
	errs := []error{c.conn.Close()}
	for _, closer := range c.closers {
		errs = append(errs, closer.Close())
	}

	return errors.Join(errs...)
}

// dbConnector checks out connections from a shared *sql.DB.
type dbConnector struct {
	db *sql.DB
}

// NewDBConnector creates a Connector that checks connections out of db.
//
// The connection parameters of each call are ignored since db is already
// bound to its data source. Closing a Conn returns it to db; db itself stays
// open and is owned by the caller.
//
// Parameters:
//   - db: The underlying sql.DB to check connections out of
//
// Returns:
//   - Connector: An adapter implementing the Connector interface
func NewDBConnector(db *sql.DB) Connector {
	return &dbConnector{db: db}
}

// Connect checks out one connection from the pool.
func (c *dbConnector) Connect(ctx context.Context, _ types.ConnParams) (Conn, error) {
	conn, err := c.db.Conn(ctx)
	if err != nil {
		return nil, err
	}

	return NewDBConn(conn), nil
}

package warehouse

import (
	"context"
	"slices"
	"sync/atomic"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/google/uuid"

	"github.com/arloliu/warehouse/adapter/connector"
	"github.com/arloliu/warehouse/adapter/session"
	"github.com/arloliu/warehouse/internal/logging"
	"github.com/arloliu/warehouse/internal/metrics"
	"github.com/arloliu/warehouse/table"
	"github.com/arloliu/warehouse/types"
)

// Client dispatches queries to the compute session or the SQL connector.
//
// The path is chosen per call from the environment: when RuntimeVersionEnv
// is present the compute session is used, otherwise a connector connection
// is opened for the call and closed before it returns.
//
// Thread-safe for concurrent use.
type Client struct {
	config   *ClientConfig
	sessions session.Provider
	closed   atomic.Bool
}

// NewClient creates a new warehouse client.
//
// Parameters:
//   - opts: Optional configuration options
//
// Returns:
//   - *Client: A new client
func NewClient(opts ...Option) *Client {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}

	// Ensure metrics is never nil
	if config.Metrics == nil {
		config.Metrics = metrics.NewNopMetrics()
	}

	// Ensure logger is never nil
	if config.Logger == nil {
		config.Logger = logging.NewNopLogger()
	}

	sessions := config.SessionProvider
	if sessions == nil && config.SessionFactory != nil {
		sessions = session.NewCachingProvider(config.SessionFactory,
			session.WithOnCreate(config.Metrics.IncSessionOpened),
		)
	}

	return &Client{
		config:   config,
		sessions: sessions,
	}
}

// Path reports which path the next call will take.
func (c *Client) Path() Path {
	return types.DetectPath(c.config.EnvLookup)
}

// Read runs query and returns the result as a row-oriented table.
//
// On the session path conn is ignored and params are passed as SQL
// arguments. On the connector path conn is merged with the configured
// defaults and params are bound as named parameters.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - query: SQL text
//   - conn: Connection parameters for the connector path
//   - params: Named query parameters; nil for none
//
// Returns:
//   - *table.Frame: The result
//   - error: Error from the underlying client, unchanged
func (c *Client) Read(ctx context.Context, query string, conn ConnParams, params Params) (*table.Frame, error) {
	if c.closed.Load() {
		return nil, types.ErrClientClosed
	}

	path := c.Path()
	reqID := c.begin("read", path, query)
	start := time.Now()
	c.config.Metrics.IncReadTotal(path)

	var (
		frame *table.Frame
		err   error
	)
	if path == types.PathSession {
		frame, err = c.readSession(ctx, query, params)
	} else {
		frame, err = c.readConnector(ctx, query, conn, params)
	}

	c.config.Metrics.ObserveReadDuration(path, time.Since(start).Seconds())
	if err != nil {
		c.config.Metrics.IncReadError(path)
	}
	c.end("read", reqID, path, start, err)

	return frame, err
}

// ReadTyped runs query and returns the result as a typed Arrow record.
//
// Columns named in overrides are cast to the given type names ("long",
// "int", "double", ...). Other column types are inferred. On the session
// path the casts are requested from the session in column-name order.
//
// The caller must Release the returned record.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - query: SQL text
//   - conn: Connection parameters for the connector path
//   - params: Named query parameters; nil for none
//   - overrides: Column type overrides; nil for none
//
// Returns:
//   - arrow.Record: The result
//   - error: Error from the underlying client, unchanged, or *types.CastError
func (c *Client) ReadTyped(ctx context.Context, query string, conn ConnParams, params Params, overrides SchemaOverrides) (arrow.Record, error) {
	if c.closed.Load() {
		return nil, types.ErrClientClosed
	}

	path := c.Path()
	reqID := c.begin("read_typed", path, query)
	start := time.Now()
	c.config.Metrics.IncReadTotal(path)

	var (
		rec arrow.Record
		err error
	)
	if path == types.PathSession {
		rec, err = c.readTypedSession(ctx, query, params, overrides)
	} else {
		rec, err = c.readTypedConnector(ctx, query, conn, params, overrides)
	}

	c.config.Metrics.ObserveReadDuration(path, time.Since(start).Seconds())
	if err != nil {
		c.config.Metrics.IncReadError(path)
	}
	c.end("read_typed", reqID, path, start, err)

	return rec, err
}

// Execute runs query for its side effect.
//
// Exactly one execution call is made and no result is fetched.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - query: SQL statement
//   - conn: Connection parameters for the connector path
//
// Returns:
//   - error: Error from the underlying client, unchanged
func (c *Client) Execute(ctx context.Context, query string, conn ConnParams) error {
	if c.closed.Load() {
		return types.ErrClientClosed
	}

	path := c.Path()
	reqID := c.begin("execute", path, query)
	start := time.Now()
	c.config.Metrics.IncExecuteTotal(path)

	var err error
	if path == types.PathSession {
		err = c.executeSession(ctx, query)
	} else {
		err = c.executeConnector(ctx, query, conn)
	}

	c.config.Metrics.ObserveExecuteDuration(path, time.Since(start).Seconds())
	if err != nil {
		c.config.Metrics.IncExecuteError(path)
	}
	c.end("execute", reqID, path, start, err)

	return err
}

// Close closes the session provider.
//
// Calls made after Close return ErrClientClosed. Close is idempotent.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}

	if c.sessions != nil {
		return c.sessions.Close()
	}

	return nil
}

func (c *Client) readSession(ctx context.Context, query string, params Params) (*table.Frame, error) {
	s, err := c.session(ctx)
	if err != nil {
		return nil, err
	}

	df, err := s.SQL(ctx, query, params)
	if err != nil {
		return nil, err
	}

	return df.ToFrame(ctx)
}

func (c *Client) readConnector(ctx context.Context, query string, conn ConnParams, params Params) (frame *table.Frame, err error) {
	cn, err := c.connect(ctx, conn)
	if err != nil {
		return nil, err
	}
	defer c.release(cn, &err)

	rows, err := cn.QueryContext(ctx, query, params)
	if err != nil {
		return nil, err
	}

	return table.FromRows(rows)
}

func (c *Client) readTypedSession(ctx context.Context, query string, params Params, overrides SchemaOverrides) (arrow.Record, error) {
	s, err := c.session(ctx)
	if err != nil {
		return nil, err
	}

	df, err := s.SQL(ctx, query, params)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		df = df.WithColumnCast(name, overrides[name])
	}

	frame, err := df.ToFrame(ctx)
	if err != nil {
		return nil, err
	}

	return table.ToRecord(c.config.Allocator, frame, overrides)
}

func (c *Client) readTypedConnector(ctx context.Context, query string, conn ConnParams, params Params, overrides SchemaOverrides) (rec arrow.Record, err error) {
	cn, err := c.connect(ctx, conn)
	if err != nil {
		return nil, err
	}
	defer func() {
		c.release(cn, &err)
		if err != nil && rec != nil {
			rec.Release()
			rec = nil
		}
	}()

	rec, err = table.ReadDatabase(ctx, cn, query, table.ReadOptions{
		SchemaOverrides: overrides,
		Parameters:      params,
		Allocator:       c.config.Allocator,
	})
	if err != nil {
		return nil, err
	}

	return rec, nil
}

func (c *Client) executeSession(ctx context.Context, query string) error {
	s, err := c.session(ctx)
	if err != nil {
		return err
	}

	// The result handle is dropped without being fetched.
	_, err = s.SQL(ctx, query, nil)

	return err
}

func (c *Client) executeConnector(ctx context.Context, query string, conn ConnParams) (err error) {
	cn, err := c.connect(ctx, conn)
	if err != nil {
		return err
	}
	defer c.release(cn, &err)

	return cn.ExecContext(ctx, query, nil)
}

func (c *Client) session(ctx context.Context) (session.Session, error) {
	if c.sessions == nil {
		return nil, types.ErrNilSessionProvider
	}

	return c.sessions.Session(ctx)
}

func (c *Client) connect(ctx context.Context, conn ConnParams) (connector.Conn, error) {
	if c.config.Connector == nil {
		return nil, types.ErrNilConnector
	}

	cn, err := c.config.Connector.Connect(ctx, conn.Merge(c.config.Defaults))
	if err != nil {
		return nil, err
	}
	c.config.Metrics.IncConnectionOpened()

	return cn, nil
}

// release closes cn. A close failure is reported only when the call
// itself succeeded.
func (c *Client) release(cn connector.Conn, errp *error) {
	closeErr := cn.Close()
	if closeErr == nil {
		return
	}

	if *errp == nil {
		*errp = closeErr
		return
	}

	c.config.Logger.Warn("connection close failed", "error", closeErr)
}

func (c *Client) begin(op string, path Path, query string) string {
	reqID := uuid.NewString()
	c.config.Logger.Debug("dispatching query",
		"op", op,
		"request_id", reqID,
		"path", path.String(),
		"query", query,
	)

	return reqID
}

func (c *Client) end(op, reqID string, path Path, start time.Time, err error) {
	if err != nil {
		c.config.Logger.Debug("query failed",
			"op", op,
			"request_id", reqID,
			"path", path.String(),
			"duration", time.Since(start),
			"error", err,
		)

		return
	}

	c.config.Logger.Debug("query completed",
		"op", op,
		"request_id", reqID,
		"path", path.String(),
		"duration", time.Since(start),
	)
}

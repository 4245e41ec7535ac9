// Package statement implements a compute session on the Databricks Statement Execution API.
//
// Statements run on a SQL warehouse through the workspace REST API with the
// INLINE disposition and JSON_ARRAY format. Named arguments are bound as
// statement parameters, so values never get spliced into the SQL text.
//
// # Usage
//
//	s, err := statement.NewWorkspaceSession(&databricks.Config{}, "abc123")
//	if err != nil {
//	    return err
//	}
//
//	client := warehouse.NewClient(
//	    warehouse.WithSessionProvider(session.Static(s)),
//	)
//
// Inside a cluster runtime an empty databricks.Config resolves the
// workspace host and credentials from the environment.
//
// # Results
//
// Cells are parsed according to the result manifest's column types. Casts
// requested with WithColumnCast are applied while converting to a local
// table. The API encodes NULL and the empty string identically, so empty
// cells in non-string columns become nil.
package statement

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/databricks/databricks-sdk-go"
	"github.com/databricks/databricks-sdk-go/service/sql"

	"github.com/arloliu/warehouse/adapter/session"
	"github.com/arloliu/warehouse/table"
	"github.com/arloliu/warehouse/types"
)

// Synchronous wait bounds accepted by the API.
const (
	// DefaultWaitTimeout is the longest synchronous wait the API allows.
	DefaultWaitTimeout = 50 * time.Second

	// MinWaitTimeout is the shortest synchronous wait the API allows.
	MinWaitTimeout = 5 * time.Second
)

// API is the subset of the SDK statement execution service used by Session.
//
// sql.StatementExecutionInterface satisfies it.
type API interface {
	ExecuteStatement(ctx context.Context, request sql.ExecuteStatementRequest) (*sql.StatementResponse, error)
	GetStatementResultChunkN(ctx context.Context, request sql.GetStatementResultChunkNRequest) (*sql.ResultData, error)
}

// Option configures a Session.
type Option func(*Session)

// WithCatalog sets the default catalog for statements.
func WithCatalog(catalog string) Option {
	return func(s *Session) {
		s.catalog = catalog
	}
}

// WithSchema sets the default schema for statements.
func WithSchema(schema string) Option {
	return func(s *Session) {
		s.schema = schema
	}
}

// WithWaitTimeout sets how long a statement may run before it is canceled.
//
// Values are clamped to the 5s to 50s range the API accepts for a
// synchronous wait. Zero or negative means the default. Default: 50s
func WithWaitTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.waitTimeout = d
	}
}

// WithRowLimit caps the number of rows a statement returns.
//
// Default: 0 (no limit)
func WithRowLimit(limit int64) Option {
	return func(s *Session) {
		s.rowLimit = limit
	}
}

// Session submits SQL through the Statement Execution API.
//
// Thread-safe for concurrent use.
type Session struct {
	api         API
	warehouseID string
	catalog     string
	schema      string
	waitTimeout time.Duration
	rowLimit    int64
}

// Compile-time assertion that Session implements session.Session.
var _ session.Session = (*Session)(nil)

// NewSession creates a session that runs statements on the given warehouse.
//
// Parameters:
//   - api: The statement execution service
//   - warehouseID: The SQL warehouse to run statements on
//   - opts: Optional configuration options
//
// Returns:
//   - *Session: A new session
//   - error: ErrMissingWarehouse if warehouseID is empty
func NewSession(api API, warehouseID string, opts ...Option) (*Session, error) {
	if warehouseID == "" {
		return nil, types.ErrMissingWarehouse
	}

	s := &Session{
		api:         api,
		warehouseID: warehouseID,
		waitTimeout: DefaultWaitTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	// A zero wait makes the API run the statement asynchronously.
	switch {
	case s.waitTimeout <= 0:
		s.waitTimeout = DefaultWaitTimeout
	case s.waitTimeout < MinWaitTimeout:
		s.waitTimeout = MinWaitTimeout
	case s.waitTimeout > DefaultWaitTimeout:
		s.waitTimeout = DefaultWaitTimeout
	}

	return s, nil
}

// NewWorkspaceSession creates a session backed by a new workspace client.
//
// Parameters:
//   - cfg: SDK configuration; empty fields are resolved from the environment
//   - warehouseID: The SQL warehouse to run statements on
//   - opts: Optional configuration options
//
// Returns:
//   - *Session: A new session
//   - error: Error from workspace client creation or ErrMissingWarehouse
func NewWorkspaceSession(cfg *databricks.Config, warehouseID string, opts ...Option) (*Session, error) {
	if warehouseID == "" {
		return nil, types.ErrMissingWarehouse
	}

	w, err := databricks.NewWorkspaceClient(cfg)
	if err != nil {
		return nil, err
	}

	return NewSession(w.StatementExecution, warehouseID, opts...)
}

// SQL executes query and returns a DataFrame over its result.
//
// The statement runs to completion before SQL returns.
//
// Returns:
//   - session.DataFrame: The result, fetched lazily on ToFrame
//   - error: Error from the API unchanged, or *types.StatementError if the
//     statement did not succeed
func (s *Session) SQL(ctx context.Context, query string, args types.Params) (session.DataFrame, error) {
	req := sql.ExecuteStatementRequest{
		Statement:     query,
		WarehouseId:   s.warehouseID,
		Catalog:       s.catalog,
		Schema:        s.schema,
		Parameters:    Parameters(args),
		WaitTimeout:   fmt.Sprintf("%ds", int(s.waitTimeout.Seconds())),
		OnWaitTimeout: sql.ExecuteStatementRequestOnWaitTimeoutCancel,
		Disposition:   sql.DispositionInline,
		Format:        sql.FormatJsonArray,
		RowLimit:      s.rowLimit,
	}

	resp, err := s.api.ExecuteStatement(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	return session.NewDataFrame(func(ctx context.Context) (*table.Frame, error) {
		return s.collect(ctx, resp)
	}), nil
}

// collect builds a local frame from the inline result, fetching any
// remaining chunks.
func (s *Session) collect(ctx context.Context, resp *sql.StatementResponse) (*table.Frame, error) {
	var columns []sql.ColumnInfo
	totalChunks := 0
	if resp.Manifest != nil {
		totalChunks = resp.Manifest.TotalChunkCount
		if resp.Manifest.Schema != nil {
			columns = resp.Manifest.Schema.Columns
		}
	}

	names := make([]string, len(columns))
	declared := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
		declared[i] = string(c.TypeName)
	}

	frame := table.NewFrame(names, [][]any{})
	frame.Types = declared
	if resp.Result != nil {
		if err := appendChunk(frame, columns, resp.Result.DataArray); err != nil {
			return nil, err
		}
	}

	for idx := 1; idx < totalChunks; idx++ {
		chunk, err := s.api.GetStatementResultChunkN(ctx, sql.GetStatementResultChunkNRequest{
			StatementId: resp.StatementId,
			ChunkIndex:  idx,
		})
		if err != nil {
			return nil, err
		}

		if err := appendChunk(frame, columns, chunk.DataArray); err != nil {
			return nil, err
		}
	}

	return frame, nil
}

func appendChunk(frame *table.Frame, columns []sql.ColumnInfo, data [][]string) error {
	for _, cells := range data {
		row := make([]any, len(columns))
		for i, c := range columns {
			if i >= len(cells) {
				continue
			}

			v, err := table.ParseValue(string(c.TypeName), cells[i])
			if err != nil {
				var castErr *types.CastError
				if errors.As(err, &castErr) {
					castErr.Column = c.Name
				}
				return err
			}
			row[i] = v
		}
		frame.Rows = append(frame.Rows, row)
	}

	return nil
}

func checkStatus(resp *sql.StatementResponse) error {
	if resp.Status != nil && resp.Status.State == sql.StatementStateSucceeded {
		return nil
	}

	stmtErr := &types.StatementError{StatementID: resp.StatementId, State: "UNKNOWN"}
	if resp.Status != nil {
		stmtErr.State = string(resp.Status.State)
		if resp.Status.Error != nil {
			stmtErr.Code = string(resp.Status.Error.ErrorCode)
			stmtErr.Message = resp.Status.Error.Message
		}
	}

	return stmtErr
}

// Parameters converts named arguments into statement parameters sorted by name.
//
// The parameter type is derived from the Go type of each value. nil becomes
// an untyped NULL.
func Parameters(args types.Params) []sql.StatementParameterListItem {
	if len(args) == 0 {
		return nil
	}

	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	slices.Sort(names)

	params := make([]sql.StatementParameterListItem, len(names))
	for i, name := range names {
		value, typeName := encodeParameter(args[name])
		params[i] = sql.StatementParameterListItem{Name: name, Type: typeName, Value: value}
	}

	return params
}

func encodeParameter(v any) (value, typeName string) {
	switch x := v.(type) {
	case nil:
		return "", ""
	case string:
		return x, "STRING"
	case []byte:
		return string(x), "STRING"
	case bool:
		return strconv.FormatBool(x), "BOOLEAN"
	case int:
		return strconv.FormatInt(int64(x), 10), "BIGINT"
	case int64:
		return strconv.FormatInt(x, 10), "BIGINT"
	case int32:
		return strconv.FormatInt(int64(x), 10), "INT"
	case int16:
		return strconv.FormatInt(int64(x), 10), "SMALLINT"
	case int8:
		return strconv.FormatInt(int64(x), 10), "TINYINT"
	case uint8, uint16, uint32, uint, uint64:
		return fmt.Sprint(x), "BIGINT"
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), "DOUBLE"
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32), "FLOAT"
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano), "TIMESTAMP"
	default:
		return fmt.Sprint(x), "STRING"
	}
}

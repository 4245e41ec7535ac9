// Package session provides the compute session interfaces used by the warehouse client.
//
// The session path is taken when the process runs inside a Databricks
// cluster runtime. Unlike connector connections, a session is long-lived:
// a [Provider] creates it on first use and hands the same session to every
// later call until the provider is closed.
//
// # Interfaces
//
//   - [Session]: Submits SQL with named arguments and returns a [DataFrame]
//   - [DataFrame]: A remote table that can cast columns and convert to a local table.Frame
//   - [Provider]: Get-or-create access to the long-lived session
//
// The statement subpackage implements Session on the Databricks Statement
// Execution API.
package session

import (
	"context"
	"io"
	"sync"

	"github.com/arloliu/warehouse/table"
	"github.com/arloliu/warehouse/types"
)

// Session submits SQL to a compute session.
type Session interface {
	// SQL submits query with named arguments.
	//
	// Statements without a result (DDL, DML) take effect when SQL returns.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - query: SQL text
	//   - args: Named arguments; nil for none
	//
	// Returns:
	//   - DataFrame: Handle to the result
	//   - error: Error from the session, unchanged
	SQL(ctx context.Context, query string, args types.Params) (DataFrame, error)
}

// DataFrame is a result held by the compute session.
//
// DataFrames are immutable: WithColumnCast returns a new DataFrame.
type DataFrame interface {
	// WithColumnCast returns a DataFrame whose named column is cast to typeName.
	WithColumnCast(name, typeName string) DataFrame

	// ToFrame materializes the result as a local row-oriented table.
	ToFrame(ctx context.Context) (*table.Frame, error)
}

// Provider hands out the long-lived session.
type Provider interface {
	// Session returns the session, creating it on first use.
	Session(ctx context.Context) (Session, error)

	// Close releases the session, if one was created.
	Close() error
}

// Factory creates a new session.
type Factory func(ctx context.Context) (Session, error)

// ProviderOption configures a CachingProvider.
type ProviderOption func(*CachingProvider)

// WithOnCreate sets a callback invoked each time the factory creates a session.
//
// Parameters:
//   - fn: Callback, e.g. a metrics increment
//
// Returns:
//   - ProviderOption: Configuration option
func WithOnCreate(fn func()) ProviderOption {
	return func(p *CachingProvider) {
		p.onCreate = fn
	}
}

// CachingProvider creates one session through a Factory and reuses it.
//
// A failed creation is not cached; the next call tries again.
// Thread-safe for concurrent use.
type CachingProvider struct {
	factory  Factory
	onCreate func()

	mu      sync.Mutex
	session Session
}

// Compile-time assertion that CachingProvider implements Provider.
var _ Provider = (*CachingProvider)(nil)

// NewCachingProvider creates a provider around factory.
//
// Parameters:
//   - factory: Creates the session on first use
//   - opts: Optional configuration options
//
// Returns:
//   - *CachingProvider: A new provider
func NewCachingProvider(factory Factory, opts ...ProviderOption) *CachingProvider {
	p := &CachingProvider{factory: factory}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Session returns the cached session, creating it if needed.
func (p *CachingProvider) Session(ctx context.Context) (Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session != nil {
		return p.session, nil
	}

	s, err := p.factory(ctx)
	if err != nil {
		return nil, err
	}

	p.session = s
	if p.onCreate != nil {
		p.onCreate()
	}

	return s, nil
}

// Close drops the cached session, closing it if it implements io.Closer.
//
// A later call to Session creates a new one.
func (p *CachingProvider) Close() error {
	p.mu.Lock()
	s := p.session
	p.session = nil
	p.mu.Unlock()

	if closer, ok := s.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}

// Static returns a Provider that always hands out s and never closes it.
func Static(s Session) Provider {
	return staticProvider{s: s}
}

type staticProvider struct {
	s Session
}

func (p staticProvider) Session(context.Context) (Session, error) { return p.s, nil }

func (p staticProvider) Close() error { return nil }

// FetchFunc materializes a result as a local table.
type FetchFunc func(ctx context.Context) (*table.Frame, error)

type cast struct {
	name     string
	typeName string
}

// lazyFrame is a DataFrame that fetches on ToFrame and casts locally.
type lazyFrame struct {
	fetch FetchFunc
	casts []cast
}

// NewDataFrame creates a DataFrame whose data is produced by fetch.
//
// Casts added with WithColumnCast are applied, in order, to the fetched
// frame. Backends without server-side casts use this as their DataFrame.
func NewDataFrame(fetch FetchFunc) DataFrame {
	return &lazyFrame{fetch: fetch}
}

// WithColumnCast returns a copy that also casts the named column.
func (f *lazyFrame) WithColumnCast(name, typeName string) DataFrame {
	casts := make([]cast, len(f.casts), len(f.casts)+1)
	copy(casts, f.casts)

	return &lazyFrame{fetch: f.fetch, casts: append(casts, cast{name: name, typeName: typeName})}
}

// ToFrame fetches the data and applies the pending casts.
func (f *lazyFrame) ToFrame(ctx context.Context) (*table.Frame, error) {
	frame, err := f.fetch(ctx)
	if err != nil {
		return nil, err
	}

	for _, c := range f.casts {
		if err := frame.CastColumn(c.name, c.typeName); err != nil {
			return nil, err
		}
	}

	return frame, nil
}

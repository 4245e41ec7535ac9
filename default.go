package warehouse

import (
	"context"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	sdk "github.com/databricks/databricks-sdk-go"

	"github.com/arloliu/warehouse/adapter/connector/databricks"
	"github.com/arloliu/warehouse/adapter/session"
	"github.com/arloliu/warehouse/adapter/session/statement"
	"github.com/arloliu/warehouse/config"
	"github.com/arloliu/warehouse/contrib/logging/zaplog"
	"github.com/arloliu/warehouse/table"
)

var (
	defaultOnce   sync.Once
	defaultClient *Client
	defaultErr    error
)

// Default returns the package-level client, building it on first use.
//
// It is configured from the environment by config.FromEnv: a Databricks
// connector for the connector path and a Statement Execution session for
// the session path. A failed build is returned on every later call.
func Default() (*Client, error) {
	defaultOnce.Do(func() {
		defaultClient, defaultErr = NewClientFromConfig(nil)
	})

	return defaultClient, defaultErr
}

// NewClientFromConfig builds a Databricks-backed client from cfg.
//
// A nil cfg is read from the environment. Extra options are applied after
// the ones derived from cfg.
//
// Parameters:
//   - cfg: Resolved configuration, or nil
//   - opts: Additional configuration options
//
// Returns:
//   - *Client: A new client
//   - error: Error loading or validating the configuration
func NewClientFromConfig(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		var err error
		if cfg, err = config.FromEnv(); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := zaplog.NewProduction(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	conn := databricks.NewConnector(
		databricks.WithDefaults(cfg.ConnParams()),
		databricks.WithOrgID(cfg.Connection.OrgID),
	)

	sdkConfig := &sdk.Config{
		Host:         cfg.Connection.Host,
		Token:        cfg.Connection.AccessToken,
		ClientID:     cfg.Connection.ClientID,
		ClientSecret: cfg.Connection.ClientSecret,
	}
	sessionOpts := []statement.Option{
		statement.WithCatalog(cfg.Session.Catalog),
		statement.WithSchema(cfg.Session.Schema),
		statement.WithWaitTimeout(cfg.Session.WaitTimeout),
	}
	factory := func(_ context.Context) (session.Session, error) {
		return statement.NewWorkspaceSession(sdkConfig, cfg.Session.WarehouseID, sessionOpts...)
	}

	base := []Option{
		WithConnector(conn),
		WithSessionFactory(factory),
		WithLogger(logger),
	}

	return NewClient(append(base, opts...)...), nil
}

// Read runs query with the default client. See Client.Read.
func Read(ctx context.Context, query string, conn ConnParams, params Params) (*table.Frame, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}

	return c.Read(ctx, query, conn, params)
}

// ReadTyped runs query with the default client. See Client.ReadTyped.
func ReadTyped(ctx context.Context, query string, conn ConnParams, params Params, overrides SchemaOverrides) (arrow.Record, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}

	return c.ReadTyped(ctx, query, conn, params, overrides)
}

// Execute runs query with the default client. See Client.Execute.
func Execute(ctx context.Context, query string, conn ConnParams) error {
	c, err := Default()
	if err != nil {
		return err
	}

	return c.Execute(ctx, query, conn)
}

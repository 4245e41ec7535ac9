// Package databricks provides a connector backed by the Databricks SQL driver.
//
// Each Connect opens a dedicated *sql.DB through dbsql.NewConnector and
// checks out one connection from it. Closing the returned Conn closes both,
// so no connection outlives the call that acquired it.
//
// # Endpoints
//
// The HTTP path is derived from the connection parameters:
//
//   - WarehouseID: /sql/1.0/warehouses/<id>
//   - ClusterID:   /sql/protocolv1/o/<org>/<id>
//
// WarehouseID wins when both are set.
//
// # Authentication
//
// ClientID and ClientSecret select OAuth machine-to-machine credentials.
// Otherwise AccessToken is sent as a personal access token. Token refresh is
// handled by the driver.
package databricks

import (
	"context"
	"database/sql"

	dbsql "github.com/databricks/databricks-sql-go"

	"github.com/arloliu/warehouse/adapter/connector"
	"github.com/arloliu/warehouse/types"
)

const (
	// DefaultPort is the HTTPS port of Databricks SQL endpoints.
	DefaultPort = 443

	// DefaultOrgID is the organization segment used in cluster HTTP paths.
	DefaultOrgID = "0"
)

// Option configures a Connector.
type Option func(*Connector)

// WithDefaults sets the parameters used for fields a call leaves empty.
//
// Parameters:
//   - defaults: Fallback connection parameters (typically from config)
//
// Returns:
//   - Option: Configuration option
func WithDefaults(defaults types.ConnParams) Option {
	return func(c *Connector) {
		c.defaults = defaults
	}
}

// WithOrgID sets the organization (workspace) ID used in cluster HTTP paths.
//
// Default: "0"
func WithOrgID(orgID string) Option {
	return func(c *Connector) {
		c.orgID = orgID
	}
}

// WithPort sets the endpoint port.
//
// Default: 443
func WithPort(port int) Option {
	return func(c *Connector) {
		c.port = port
	}
}

// WithInitialNamespace sets the catalog and schema of each new session.
func WithInitialNamespace(catalog, schema string) Option {
	return func(c *Connector) {
		c.catalog = catalog
		c.schema = schema
	}
}

// WithUserAgentEntry sets the user agent entry reported to the server.
func WithUserAgentEntry(entry string) Option {
	return func(c *Connector) {
		c.userAgent = entry
	}
}

// Connector opens Databricks SQL connections, one per call.
type Connector struct {
	defaults  types.ConnParams
	orgID     string
	port      int
	catalog   string
	schema    string
	userAgent string
}

// Compile-time assertion that Connector implements connector.Connector.
var _ connector.Connector = (*Connector)(nil)

// NewConnector creates a Databricks SQL connector.
//
// Parameters:
//   - opts: Optional configuration options
//
// Returns:
//   - *Connector: A new connector
func NewConnector(opts ...Option) *Connector {
	c := &Connector{
		orgID: DefaultOrgID,
		port:  DefaultPort,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Connect opens a connection for one call.
//
// params is merged with the connector defaults before use.
//
// Returns:
//   - connector.Conn: The connection; Close releases it and its database handle
//   - error: ErrMissingHost or ErrMissingHTTPPath for incomplete parameters,
//     otherwise the driver error unchanged
func (c *Connector) Connect(ctx context.Context, params types.ConnParams) (connector.Conn, error) {
	resolved := params.Merge(c.defaults)

	opts, err := c.ConnOptions(resolved)
	if err != nil {
		return nil, err
	}

	dc, err := dbsql.NewConnector(opts...)
	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(dc)
	conn, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return connector.NewDBConn(conn, db), nil
}

// ConnOptions builds the driver options for the given parameters.
//
// Parameters:
//   - params: Fully resolved connection parameters
//
// Returns:
//   - []dbsql.ConnOption: Options for dbsql.NewConnector
//   - error: ErrMissingHost or ErrMissingHTTPPath
func (c *Connector) ConnOptions(params types.ConnParams) ([]dbsql.ConnOption, error) {
	if params.Host == "" {
		return nil, types.ErrMissingHost
	}

	httpPath, err := HTTPPath(params, c.orgID)
	if err != nil {
		return nil, err
	}

	opts := []dbsql.ConnOption{
		dbsql.WithServerHostname(params.Host),
		dbsql.WithPort(c.port),
		dbsql.WithHTTPPath(httpPath),
	}

	switch {
	case params.ClientID != "":
		opts = append(opts, dbsql.WithClientCredentials(params.ClientID, params.ClientSecret))
	case params.AccessToken != "":
		opts = append(opts, dbsql.WithAccessToken(params.AccessToken))
	}

	if c.catalog != "" || c.schema != "" {
		opts = append(opts, dbsql.WithInitialNamespace(c.catalog, c.schema))
	}

	if c.userAgent != "" {
		opts = append(opts, dbsql.WithUserAgentEntry(c.userAgent))
	}

	return opts, nil
}

// HTTPPath returns the endpoint path for a warehouse or cluster.
//
// Returns:
//   - string: The HTTP path
//   - error: ErrMissingHTTPPath if neither WarehouseID nor ClusterID is set
func HTTPPath(params types.ConnParams, orgID string) (string, error) {
	switch {
	case params.WarehouseID != "":
		return "/sql/1.0/warehouses/" + params.WarehouseID, nil
	case params.ClusterID != "":
		if orgID == "" {
			orgID = DefaultOrgID
		}
		return "/sql/protocolv1/o/" + orgID + "/" + params.ClusterID, nil
	default:
		return "", types.ErrMissingHTTPPath
	}
}

package databricks

import (
	"testing"

	"github.com/arloliu/warehouse/types"
	"github.com/stretchr/testify/require"
)

func TestHTTPPath(t *testing.T) {
	tests := []struct {
		name   string
		params types.ConnParams
		orgID  string
		want   string
	}{
		{"warehouse", types.ConnParams{WarehouseID: "w"}, "", "/sql/1.0/warehouses/w"},
		{"cluster", types.ConnParams{ClusterID: "c"}, "1234", "/sql/protocolv1/o/1234/c"},
		{"cluster default org", types.ConnParams{ClusterID: "c"}, "", "/sql/protocolv1/o/0/c"},
		{"warehouse wins", types.ConnParams{WarehouseID: "w", ClusterID: "c"}, "1", "/sql/1.0/warehouses/w"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HTTPPath(tt.params, tt.orgID)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := HTTPPath(types.ConnParams{Host: "h"}, "")
	require.ErrorIs(t, err, types.ErrMissingHTTPPath)
}

func TestNewConnectorDefaults(t *testing.T) {
	c := NewConnector()
	require.Equal(t, DefaultOrgID, c.orgID)
	require.Equal(t, DefaultPort, c.port)

	c = NewConnector(
		WithOrgID("42"),
		WithPort(8443),
		WithInitialNamespace("main", "sales"),
		WithUserAgentEntry("acme+reports"),
		WithDefaults(types.ConnParams{Host: "h"}),
	)
	require.Equal(t, "42", c.orgID)
	require.Equal(t, 8443, c.port)
	require.Equal(t, "main", c.catalog)
	require.Equal(t, "sales", c.schema)
	require.Equal(t, "acme+reports", c.userAgent)
	require.Equal(t, "h", c.defaults.Host)
}

func TestConnOptions(t *testing.T) {
	c := NewConnector(WithInitialNamespace("main", ""))

	t.Run("missing host", func(t *testing.T) {
		_, err := c.ConnOptions(types.ConnParams{WarehouseID: "w"})
		require.ErrorIs(t, err, types.ErrMissingHost)
	})

	t.Run("missing endpoint", func(t *testing.T) {
		_, err := c.ConnOptions(types.ConnParams{Host: "h"})
		require.ErrorIs(t, err, types.ErrMissingHTTPPath)
	})

	t.Run("client credentials", func(t *testing.T) {
		opts, err := c.ConnOptions(types.ConnParams{Host: "h", WarehouseID: "w", ClientID: "cid", ClientSecret: "csec"})
		require.NoError(t, err)
		// hostname, port, path, credentials, namespace
		require.Len(t, opts, 5)
	})

	t.Run("access token", func(t *testing.T) {
		opts, err := c.ConnOptions(types.ConnParams{Host: "h", ClusterID: "c", AccessToken: "dapi"})
		require.NoError(t, err)
		require.Len(t, opts, 5)
	})

	t.Run("no credentials", func(t *testing.T) {
		opts, err := NewConnector().ConnOptions(types.ConnParams{Host: "h", ClusterID: "c"})
		require.NoError(t, err)
		require.Len(t, opts, 3)
	})
}

func TestConnectValidatesBeforeDialing(t *testing.T) {
	c := NewConnector(WithDefaults(types.ConnParams{WarehouseID: "w"}))

	conn, err := c.Connect(t.Context(), types.ConnParams{})
	require.ErrorIs(t, err, types.ErrMissingHost)
	require.Nil(t, conn)
}

package connector_test

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/arloliu/warehouse/adapter/connector"
	"github.com/arloliu/warehouse/table"
	"github.com/arloliu/warehouse/types"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func openDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", "file:connector_test?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec("CREATE TABLE IF NOT EXISTS items (id INTEGER PRIMARY KEY, name TEXT)")
	require.NoError(t, err)
	_, err = db.Exec("DELETE FROM items")
	require.NoError(t, err)

	return db
}

func TestNamedArgs(t *testing.T) {
	require.Nil(t, connector.NamedArgs(nil))
	require.Nil(t, connector.NamedArgs(types.Params{}))

	args := connector.NamedArgs(types.Params{"b": 2, "a": "x"})
	require.Equal(t, []any{sql.Named("a", "x"), sql.Named("b", 2)}, args)
}

func TestNewDBConnector(t *testing.T) {
	db := openDB(t)

	c := connector.NewDBConnector(db)
	require.NotNil(t, c)
	require.Implements(t, (*connector.Connector)(nil), c)
}

func TestDBConnExecAndQuery(t *testing.T) {
	db := openDB(t)
	ctx := t.Context()

	conn, err := connector.NewDBConnector(db).Connect(ctx, types.ConnParams{Host: "ignored"})
	require.NoError(t, err)
	defer conn.Close()

	err = conn.ExecContext(ctx, "INSERT INTO items (id, name) VALUES (:id, :name)", types.Params{"id": 1, "name": "Alice"})
	require.NoError(t, err)
	err = conn.ExecContext(ctx, "INSERT INTO items (id, name) VALUES (2, 'Bob')", nil)
	require.NoError(t, err)

	rows, err := conn.QueryContext(ctx, "SELECT id, name FROM items WHERE id >= :min ORDER BY id", types.Params{"min": 1})
	require.NoError(t, err)

	frame, err := table.FromRows(rows)
	require.NoError(t, err)
	require.Equal(t, [][]any{{int64(1), "Alice"}, {int64(2), "Bob"}}, frame.Rows)
}

func TestDBConnQueryError(t *testing.T) {
	db := openDB(t)
	ctx := t.Context()

	conn, err := connector.NewDBConnector(db).Connect(ctx, types.ConnParams{})
	require.NoError(t, err)
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, "SELECT * FROM nonexistent_table", nil)
	require.Error(t, err)
	require.Nil(t, rows)

	err = conn.ExecContext(ctx, "INVALID SQL SYNTAX", nil)
	require.Error(t, err)
}

func TestDBConnClose(t *testing.T) {
	db := openDB(t)
	ctx := t.Context()

	sqlConn, err := db.Conn(ctx)
	require.NoError(t, err)

	var released []string
	conn := connector.NewDBConn(sqlConn,
		closerFunc(func() error { released = append(released, "first"); return nil }),
		closerFunc(func() error { released = append(released, "second"); return nil }),
	)

	require.NoError(t, conn.Close())
	require.Equal(t, []string{"first", "second"}, released)

	// The underlying connection is returned to the pool and unusable.
	err = conn.ExecContext(ctx, "SELECT 1", nil)
	require.ErrorIs(t, err, sql.ErrConnDone)
}

func TestDBConnCloseJoinsErrors(t *testing.T) {
	db := openDB(t)

	sqlConn, err := db.Conn(t.Context())
	require.NoError(t, err)

	boom := errors.New("release failed")
	conn := connector.NewDBConn(sqlConn, closerFunc(func() error { return boom }))

	require.ErrorIs(t, conn.Close(), boom)
}

package table_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/arloliu/warehouse/table"
	"github.com/arloliu/warehouse/types"
	"github.com/stretchr/testify/require"
)

// querierFunc adapts a function to table.Querier.
type querierFunc func(ctx context.Context, query string, params types.Params) (types.Rows, error)

func (f querierFunc) QueryContext(ctx context.Context, query string, params types.Params) (types.Rows, error) {
	return f(ctx, query, params)
}

func TestToRecordInfersTypes(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	ts := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	frame := table.NewFrame(
		[]string{"id", "name", "score", "ok", "at", "empty"},
		[][]any{
			{int64(1), "a", 1.5, true, ts, nil},
			{nil, "b", nil, false, nil, nil},
		},
	)

	rec, err := table.ToRecord(mem, frame, nil)
	require.NoError(t, err)
	defer rec.Release()

	require.Equal(t, int64(2), rec.NumRows())
	schema := rec.Schema()
	require.Equal(t, arrow.INT64, schema.Field(0).Type.ID())
	require.Equal(t, arrow.STRING, schema.Field(1).Type.ID())
	require.Equal(t, arrow.FLOAT64, schema.Field(2).Type.ID())
	require.Equal(t, arrow.BOOL, schema.Field(3).Type.ID())
	require.Equal(t, arrow.TIMESTAMP, schema.Field(4).Type.ID())
	require.Equal(t, arrow.STRING, schema.Field(5).Type.ID())

	ids := rec.Column(0).(*array.Int64)
	require.Equal(t, int64(1), ids.Value(0))
	require.True(t, ids.IsNull(1))

	names := rec.Column(1).(*array.String)
	require.Equal(t, "b", names.Value(1))

	at := rec.Column(4).(*array.Timestamp)
	require.Equal(t, arrow.Timestamp(ts.UnixMicro()), at.Value(0))
}

func TestToRecordOverrides(t *testing.T) {
	frame := table.NewFrame([]string{"a", "d"}, [][]any{{"3", "2024-02-03"}})

	rec, err := table.ToRecord(nil, frame, types.SchemaOverrides{"a": "int", "d": "date", "missing": "long"})
	require.NoError(t, err)
	defer rec.Release()

	require.Equal(t, arrow.INT32, rec.Schema().Field(0).Type.ID())
	require.Equal(t, int32(3), rec.Column(0).(*array.Int32).Value(0))

	require.Equal(t, arrow.DATE32, rec.Schema().Field(1).Type.ID())
	got := rec.Column(1).(*array.Date32).Value(0).ToTime()
	require.Equal(t, time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), got)
}

func TestToRecordErrors(t *testing.T) {
	t.Run("unknown override type", func(t *testing.T) {
		frame := table.NewFrame([]string{"a"}, [][]any{{1}})
		_, err := table.ToRecord(nil, frame, types.SchemaOverrides{"a": "geography"})
		require.ErrorIs(t, err, types.ErrUnknownType)
	})

	t.Run("uncastable value", func(t *testing.T) {
		mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
		defer mem.AssertSize(t, 0)

		frame := table.NewFrame([]string{"a"}, [][]any{{"1"}, {"x"}})
		_, err := table.ToRecord(mem, frame, types.SchemaOverrides{"a": "long"})

		var castErr *types.CastError
		require.ErrorAs(t, err, &castErr)
		require.Equal(t, "a", castErr.Column)
	})
}

func TestToFrameRoundTrip(t *testing.T) {
	frame := table.NewFrame(
		[]string{"n", "s", "b"},
		[][]any{{int64(1), "x", []byte("z")}, {int64(2), nil, nil}},
	)

	rec, err := table.ToRecord(nil, frame, nil)
	require.NoError(t, err)
	defer rec.Release()

	require.Equal(t, frame, table.ToFrame(rec))
}

func TestReadDatabase(t *testing.T) {
	db := openTestDB(t)

	var gotQuery string
	var gotParams types.Params
	q := querierFunc(func(ctx context.Context, query string, params types.Params) (types.Rows, error) {
		gotQuery = query
		gotParams = params
		return db.QueryContext(ctx, query)
	})

	rec, err := table.ReadDatabase(t.Context(), q, "SELECT id, name FROM people ORDER BY id", table.ReadOptions{
		SchemaOverrides: types.SchemaOverrides{"id": "int"},
		Parameters:      types.Params{"q": "v"},
	})
	require.NoError(t, err)
	defer rec.Release()

	require.Equal(t, "SELECT id, name FROM people ORDER BY id", gotQuery)
	require.Equal(t, types.Params{"q": "v"}, gotParams)
	require.Equal(t, int64(2), rec.NumRows())
	require.Equal(t, int32(2), rec.Column(0).(*array.Int32).Value(1))
	require.Equal(t, "Alice", rec.Column(1).(*array.String).Value(0))
}

func TestReadDatabaseQueryError(t *testing.T) {
	boom := errors.New("warehouse unreachable")
	q := querierFunc(func(context.Context, string, types.Params) (types.Rows, error) {
		return nil, boom
	})

	_, err := table.ReadDatabase(t.Context(), q, "SELECT 1", table.ReadOptions{})
	require.ErrorIs(t, err, boom)
}

func TestToRecordUsesDeclaredTypes(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec("CREATE TABLE metrics (n BIGINT, label TEXT, ratio DOUBLE)")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO metrics VALUES (NULL, NULL, NULL)")
	require.NoError(t, err)

	t.Run("all-null columns", func(t *testing.T) {
		rows, err := db.Query("SELECT n, label, ratio FROM metrics")
		require.NoError(t, err)

		frame, err := table.FromRows(rows)
		require.NoError(t, err)
		require.Equal(t, []string{"BIGINT", "TEXT", "DOUBLE"}, frame.Types)

		rec, err := table.ToRecord(nil, frame, nil)
		require.NoError(t, err)
		defer rec.Release()

		require.Equal(t, arrow.INT64, rec.Schema().Field(0).Type.ID())
		require.Equal(t, arrow.STRING, rec.Schema().Field(1).Type.ID())
		require.Equal(t, arrow.FLOAT64, rec.Schema().Field(2).Type.ID())
		require.True(t, rec.Column(0).IsNull(0))
	})

	t.Run("zero rows", func(t *testing.T) {
		rows, err := db.Query("SELECT n, ratio FROM metrics WHERE 1 = 0")
		require.NoError(t, err)

		frame, err := table.FromRows(rows)
		require.NoError(t, err)

		rec, err := table.ToRecord(nil, frame, nil)
		require.NoError(t, err)
		defer rec.Release()

		require.Equal(t, int64(0), rec.NumRows())
		require.Equal(t, arrow.INT64, rec.Schema().Field(0).Type.ID())
		require.Equal(t, arrow.FLOAT64, rec.Schema().Field(1).Type.ID())
	})

	t.Run("values win over declared type", func(t *testing.T) {
		frame := table.NewFrame([]string{"n"}, [][]any{{"not a number"}})
		frame.Types = []string{"BIGINT"}

		rec, err := table.ToRecord(nil, frame, nil)
		require.NoError(t, err)
		defer rec.Release()
		require.Equal(t, arrow.STRING, rec.Schema().Field(0).Type.ID())
	})

	t.Run("cast updates declared type", func(t *testing.T) {
		frame := table.NewFrame([]string{"n"}, [][]any{{nil}})
		frame.Types = []string{"STRING"}
		require.NoError(t, frame.CastColumn("n", "int"))
		require.Equal(t, []string{"int"}, frame.Types)

		rec, err := table.ToRecord(nil, frame, nil)
		require.NoError(t, err)
		defer rec.Release()
		require.Equal(t, arrow.INT32, rec.Schema().Field(0).Type.ID())
	})
}

package session_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/arloliu/warehouse/adapter/session"
	"github.com/arloliu/warehouse/table"
	"github.com/arloliu/warehouse/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSession struct {
	closed atomic.Bool
}

func (s *stubSession) SQL(context.Context, string, types.Params) (session.DataFrame, error) {
	return nil, nil
}

func (s *stubSession) Close() error {
	s.closed.Store(true)
	return nil
}

func TestCachingProviderReusesSession(t *testing.T) {
	var created atomic.Int32
	var hooked atomic.Int32

	p := session.NewCachingProvider(func(context.Context) (session.Session, error) {
		created.Add(1)
		return &stubSession{}, nil
	}, session.WithOnCreate(func() { hooked.Add(1) }))

	first, err := p.Session(t.Context())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 10 {
		wg.Go(func() {
			s, err := p.Session(t.Context())
			assert.NoError(t, err)
			assert.Same(t, first, s)
		})
	}
	wg.Wait()

	require.Equal(t, int32(1), created.Load())
	require.Equal(t, int32(1), hooked.Load())
}

func TestCachingProviderRetriesFailedCreate(t *testing.T) {
	boom := errors.New("cluster starting")
	attempts := 0

	p := session.NewCachingProvider(func(context.Context) (session.Session, error) {
		attempts++
		if attempts == 1 {
			return nil, boom
		}
		return &stubSession{}, nil
	})

	_, err := p.Session(t.Context())
	require.ErrorIs(t, err, boom)

	s, err := p.Session(t.Context())
	require.NoError(t, err)
	require.NotNil(t, s)
	require.Equal(t, 2, attempts)
}

func TestCachingProviderClose(t *testing.T) {
	stub := &stubSession{}
	p := session.NewCachingProvider(func(context.Context) (session.Session, error) {
		return stub, nil
	})

	// Closing before first use is a no-op.
	require.NoError(t, p.Close())

	_, err := p.Session(t.Context())
	require.NoError(t, err)

	require.NoError(t, p.Close())
	require.True(t, stub.closed.Load())
}

func TestStaticProvider(t *testing.T) {
	stub := &stubSession{}
	p := session.Static(stub)

	s, err := p.Session(t.Context())
	require.NoError(t, err)
	require.Same(t, stub, s)

	require.NoError(t, p.Close())
	require.False(t, stub.closed.Load())
}

func TestDataFrameCasts(t *testing.T) {
	fetches := 0
	df := session.NewDataFrame(func(context.Context) (*table.Frame, error) {
		fetches++
		return table.NewFrame([]string{"y", "z"}, [][]any{{"7", "1.5"}}), nil
	})

	cast := df.WithColumnCast("y", "long").WithColumnCast("z", "double")

	frame, err := cast.ToFrame(t.Context())
	require.NoError(t, err)
	require.Equal(t, [][]any{{int64(7), 1.5}}, frame.Rows)

	// The original DataFrame is unchanged.
	frame, err = df.ToFrame(t.Context())
	require.NoError(t, err)
	require.Equal(t, [][]any{{"7", "1.5"}}, frame.Rows)
	require.Equal(t, 2, fetches)
}

func TestDataFrameErrors(t *testing.T) {
	boom := errors.New("fetch failed")
	df := session.NewDataFrame(func(context.Context) (*table.Frame, error) {
		return nil, boom
	})
	_, err := df.ToFrame(t.Context())
	require.ErrorIs(t, err, boom)

	df = session.NewDataFrame(func(context.Context) (*table.Frame, error) {
		return table.NewFrame([]string{"a"}, nil), nil
	})
	_, err = df.WithColumnCast("missing", "long").ToFrame(t.Context())
	require.ErrorIs(t, err, types.ErrUnknownColumn)
}

package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewStore(rdb, time.Minute), mr
}

func TestBeginCompleteReplay(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	rec, started, err := s.Begin(ctx, "u1:orders:abc")
	require.NoError(t, err)
	assert.True(t, started)
	assert.Nil(t, rec)

	rec, started, err = s.Begin(ctx, "u1:orders:abc")
	require.NoError(t, err)
	assert.False(t, started)
	require.NotNil(t, rec)
	assert.Equal(t, StatePending, rec.State)

	require.NoError(t, s.Complete(ctx, "u1:orders:abc", Record{StatusCode: 201, ContentType: "application/json", Body: []byte(`{"orderId":1}`)}))

	rec, started, err = s.Begin(ctx, "u1:orders:abc")
	require.NoError(t, err)
	assert.False(t, started)
	assert.Equal(t, StateCompleted, rec.State)
	assert.Equal(t, 201, rec.StatusCode)
	assert.JSONEq(t, `{"orderId":1}`, string(rec.Body))
}

func TestReleaseAllowsRetry(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, started, err := s.Begin(ctx, "k")
	require.NoError(t, err)
	require.True(t, started)
	require.NoError(t, s.Release(ctx, "k"))

	_, started, err = s.Begin(ctx, "k")
	require.NoError(t, err)
	assert.True(t, started)
}

func TestKeysExpire(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	_, _, err := s.Begin(ctx, "k")
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	_, started, err := s.Begin(ctx, "k")
	require.NoError(t, err)
	assert.True(t, started)
}

func TestBeginSurfacesRedisFailure(t *testing.T) {
	s, mr := newTestStore(t)
	mr.Close()
	_, _, err := s.Begin(context.Background(), "k")
	assert.Error(t, err)
}

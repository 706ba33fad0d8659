package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, mr
}

// pipelineRecorder captures the command names of every pipeline sent.
type pipelineRecorder struct {
	mu        sync.Mutex
	pipelines [][]string
}

func (h *pipelineRecorder) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *pipelineRecorder) ProcessHook(next redis.ProcessHook) redis.ProcessHook { return next }

func (h *pipelineRecorder) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		names := make([]string, 0, len(cmds))
		for _, c := range cmds {
			names = append(names, c.Name())
		}
		h.mu.Lock()
		h.pipelines = append(h.pipelines, names)
		h.mu.Unlock()
		return next(ctx, cmds)
	}
}

func TestRedisRepository_SaveWritesPairInOneTransaction(t *testing.T) {
	rdb, mr := newTestRedis(t)
	require.NoError(t, rdb.Ping(context.Background()).Err())
	rec := &pipelineRecorder{}
	rdb.AddHook(rec)
	r := NewRedisRepository(rdb, "", 0)

	require.NoError(t, r.Save(context.Background(), map[string][]byte{
		KeyAccessToken: []byte("T1"),
		KeyUserData:    []byte(`{"id":"u1"}`),
	}))

	require.Len(t, rec.pipelines, 1)
	assert.Equal(t, []string{"multi", "set", "set", "exec"}, rec.pipelines[0])

	mr.CheckGet(t, "cakeplanner:session:access_token", "T1")
	mr.CheckGet(t, "cakeplanner:session:user_data", `{"id":"u1"}`)
}

func TestRedisRepository_TTL(t *testing.T) {
	rdb, mr := newTestRedis(t)
	r := NewRedisRepository(rdb, "p", time.Minute)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, map[string][]byte{
		KeyAccessToken: []byte("T1"),
		KeyUserData:    []byte("{}"),
	}))
	assert.Equal(t, time.Minute, mr.TTL("p:access_token"))
	assert.Equal(t, time.Minute, mr.TTL("p:user_data"))

	mr.FastForward(61 * time.Second)

	for _, k := range []string{KeyAccessToken, KeyUserData} {
		v, err := r.Get(ctx, k)
		require.NoError(t, err)
		assert.Nil(t, v, k)
	}
}

func TestRedisRepository_NoTTLKeepsKeys(t *testing.T) {
	rdb, mr := newTestRedis(t)
	r := NewRedisRepository(rdb, "p", 0)

	require.NoError(t, r.Save(context.Background(), map[string][]byte{KeyAccessToken: []byte("T1")}))

	assert.Zero(t, mr.TTL("p:access_token"))
}

func TestRedisRepository_DeleteRemovesBothKeys(t *testing.T) {
	rdb, mr := newTestRedis(t)
	r := NewRedisRepository(rdb, "p", 0)
	ctx := context.Background()
	require.NoError(t, mr.Set("p:access_token", "T1"))
	require.NoError(t, mr.Set("p:user_data", "{}"))
	require.NoError(t, mr.Set("p:other", "keep"))

	require.NoError(t, r.Delete(ctx, KeyAccessToken, KeyUserData))

	assert.False(t, mr.Exists("p:access_token"))
	assert.False(t, mr.Exists("p:user_data"))
	assert.True(t, mr.Exists("p:other"))
	require.NoError(t, r.Delete(ctx))
}

func TestRedisRepository_ServerErrorsWrapped(t *testing.T) {
	rdb, mr := newTestRedis(t)
	r := NewRedisRepository(rdb, "p", 0)
	ctx := context.Background()
	mr.SetError("ERR injected failure")

	_, err := r.Get(ctx, KeyAccessToken)
	require.ErrorContains(t, err, "failed to get session[access_token]")

	err = r.Save(ctx, map[string][]byte{KeyAccessToken: []byte("T1")})
	require.ErrorContains(t, err, "failed to save session")

	err = r.Delete(ctx, KeyAccessToken)
	require.ErrorContains(t, err, "failed to delete session")

	mr.SetError("")
	assert.False(t, mr.Exists("p:access_token"))
}

func TestOpen_Redis(t *testing.T) {
	_, mr := newTestRedis(t)
	ctx := context.Background()

	repo, closer, err := Open(ctx, Options{Backend: BackendRedis, RedisAddr: mr.Addr()})
	require.NoError(t, err)
	require.IsType(t, &RedisRepository{}, repo)
	require.NoError(t, closer.Close())

	addr := mr.Addr()
	mr.Close()
	_, _, err = Open(ctx, Options{Backend: BackendRedis, RedisAddr: addr})
	require.ErrorContains(t, err, "redis ping")
}

package session

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend   string
	SQLiteDSN string
	RedisAddr string
	RedisKey  string
	TTL       time.Duration
}

// Open builds the repository named by opts.Backend. The returned closer
// releases the underlying connection; it is a no-op for memory.
func Open(ctx context.Context, opts Options) (Repository, io.Closer, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemoryRepository(), io.NopCloser(nil), nil

	case BackendSQLite:
		db, err := OpenSQLite(ctx, opts.SQLiteDSN)
		if err != nil {
			return nil, nil, err
		}
		return NewSQLiteRepository(db), db, nil

	case BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: opts.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("redis ping %s: %w", opts.RedisAddr, err)
		}
		return NewRedisRepository(rdb, opts.RedisKey, opts.TTL), rdb, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

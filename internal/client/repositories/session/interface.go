package session

import (
	"context"
	"errors"
)

// Keys of the persisted session. They must be written and cleared together.
const (
	KeyAccessToken = "access_token"
	KeyUserData    = "user_data"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown session store backend")

// Repository is the key/value store the session manager persists into.
//
// Contract:
//   - Get returns (nil, nil) when the key is absent.
//   - Save writes all given entries atomically: readers observe either none
//     or all of them.
//   - Delete removes all given keys atomically and is idempotent.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
}

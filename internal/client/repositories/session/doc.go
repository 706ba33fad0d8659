// Package session contains the persistence backends for the client session:
// the access token and the serialized user record.
//
// # Backends
//
//   - MemoryRepository: process-scoped, the default. The session lives as long
//     as the CLI process, like a browser tab's session storage.
//   - SQLiteRepository: survives restarts. Schema is managed by goose
//     migrations embedded in internal/client/migrations.
//   - RedisRepository: shared between processes, optional TTL.
//
// Every backend writes and deletes the token/user pair atomically so a reader
// never sees one without the other.
package session

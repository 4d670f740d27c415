// Package sqlstore provides SQL implementations of the seller, inventory,
// request log and demand stores.
//
// Two drivers are supported through github.com/jmoiron/sqlx:
//
//   - sqlite: modernc.org/sqlite, a pure Go SQLite build that needs no CGO
//   - postgres: github.com/lib/pq
//
// Queries are written with ? placeholders and rebound per driver.
//
// # Schema
//
// The schema is managed through versioned migrations in the migrations/
// directory. Each migration is a pair of .up.sql and .down.sql files using
// types both databases accept.
//
// # Data Location
//
// By default, the SQLite database is stored at ~/.vendee/data/vendee.db
//
// # Concurrency
//
// Read-modify-write operations are guarded by a version column. A write
// that loses a race is retried with fresh state, up to maxAttempts times,
// before failing with domain.ErrConflict.
package sqlstore

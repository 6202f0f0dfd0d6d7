// Package repositories implements SQLite persistence for local state.
//
// The only persisted entity is the sign-in [models.Session]: tasks live on the remote service and
// are never cached locally.
//
//   - [SessionRepository] : sign-in sessions with provider and token, soft deleted on sign-out
//
// Sequence numbers provide stable ordering independent of UUIDs and timestamps.
// [NextSequence] atomically increments per-table counters kept in dedicated sequence tables.
package repositories

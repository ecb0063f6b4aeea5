// Package checkpoint provides durable per-session workflow snapshots.
//
// A Checkpoint records where a session stands in its workflow: the node
// to execute next, whether the session is paused waiting for external
// input, and the serialized workflow state. Stores map a session ID to
// its latest checkpoint.
//
// Backends:
//   - MemoryStore: in-process map, for tests and single-process use
//   - SQLiteStore: durable single-file store (modernc.org/sqlite)
//   - RedisStore: shared store with optional TTL-based retention
//
// All stores guarantee that Save is atomic for a single session and that
// a Load after a successful Save returns the saved value. There are no
// cross-session transactions.
package checkpoint

// Package store provides SQLite-backed durable storage for conversions.
//
// The store is an append-only log of lowering results. Each row records
// the pattern's content hash, the target, the rendered artifact and any
// audit warnings. The log doubles as a cache: a pattern whose hash and
// target were already lowered by the same engine version is served from
// the latest row instead of being lowered again.
//
// # Identity and Ordering
//
//   - Conversion ids are content-addressed: pattern.ConversionID(hash, target, seq)
//   - All ordering uses seq INTEGER (logical clock), never timestamps
//   - All list queries order by seq ASC, id COLLATE BINARY ASC
//   - A run id (UUIDv7) groups the rows written by one invocation of the CLI
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store

// Package store provides SQLite-backed durable storage for filter snapshots.
//
// A snapshot is the full clause list of a filters.Store saved under a name.
// Snapshots of one name form an append-only log:
//   - Each snapshot gets a per-name seq (logical clock), never a timestamp
//   - Identical content under one name is stored once: UNIQUE(name, content_hash)
//   - Reads order by seq ASC, id ASC COLLATE BINARY
//
// Content hashes are computed with ir.SnapshotHash over the canonical
// JSON of the clause list, so equal filter sets always hash equally.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store

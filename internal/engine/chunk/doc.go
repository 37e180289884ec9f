// Package chunk splits an integer index range into fixed-size chunks and
// processes them sequentially or with bounded concurrency.
//
// It is used by the sieve to shard one batch buffer across workers: every
// chunk is a disjoint [lo, hi) window, so callbacks may write their window
// without synchronisation. Key features:
//   - Chunk size derived from a worker count
//   - Bounded concurrency through errgroup
//   - Context-aware cancellation between chunks
//   - Progress tracking with immutable snapshots
package chunk

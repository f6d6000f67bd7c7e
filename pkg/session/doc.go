// Package session coordinates interactive investigations.
//
// An [Investigation] owns one versioned graph value. Every mutation (root
// search, expansion merge, annotation, re-layout) publishes a new graph and
// bumps the generation counter; published graphs are never modified, so
// readers may hold them without locking.
//
// Long-running work (registry fetches, layout) runs without the lock. Before
// merging, the operation checks that the generation it started from is still
// current:
//
//   - a root search bumps the epoch, so any expansion still in flight
//     against the previous graph is rejected with STALE_GENERATION
//   - two overlapping expansions: the later merge is rejected
//   - annotations and re-layouts made during an expansion are carried over
//     into the expanded graph
//
// [MemoryStore] keeps investigations in memory keyed by uuid, evicting idle
// ones after a TTL. Nothing is persisted.
package session

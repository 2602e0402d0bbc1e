// Package cache implements the read-through metadata cache that sits in front
// of repository engines.
//
// # Keys
//
// Entries are keyed "<kind>:<identifier>" where kind is one of KindSize,
// KindBranchNames or KindTagNames and identifier is the repository's stable
// namespace path:
//
//	cache.Key(cache.KindBranchNames, "group/project") // "branch_names:group/project"
//
// # Providers
//
// A Provider is a plain byte store supporting get, set and delete by exact key.
// Three providers are included:
//
//   - NewMemory: a process-local LRU
//   - NewFile: one file per key on a billy filesystem, written atomically
//   - NewPostgres: a cache_entries table, shared by every process pointing at
//     the same database (run Migrate first)
//
// # Read-through and invalidation
//
// ReadThrough returns the cached value for a key or computes, stores and
// returns it on a miss. Concurrent misses are not deduplicated and the last
// writer wins. Invalidate always deletes all three kinds for a repository.
//
// The provider is treated as an optimization: read and write failures are
// logged and the computed value is returned, so a broken cache degrades to
// direct engine reads.
package cache

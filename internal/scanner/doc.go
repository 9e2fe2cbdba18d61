// Package scanner discovers projects below one or more root directories.
//
// A scan lists the immediate subdirectories of a root and classifies each one
// concurrently with a per-directory deadline. Directories that are not
// projects, cannot be probed, or do not classify in time are left out of the
// result. Only an unreadable root is an error ([ScanError]).
//
// # Caching
//
// With [Options.UseCache] set, results are stored in the injected
// [cache.Cache] and reused until they expire. [Options.ForceRefresh] skips the
// lookup but still stores the fresh result.
//
// # Progress
//
// When [Options.Progress] is set, every discovered project is sent on that
// channel as soon as its classification completes. Sends block, so the caller
// must drain the channel from its own goroutine while the scan runs and close
// it after the scan returns. Cache hits produce no progress events.
//
// # Ordering
//
// Results are in completion order, not directory listing order. Use
// [SortByName] when a stable order is needed.
package scanner

// Package cache holds recent scan results in memory, keyed by root path.
//
// Each entry stores the projects found under one root and the time they were
// stored. An entry is live while it is younger than the cache TTL; a lookup
// that finds a stale entry deletes it and counts as a miss. [Cache.Cleanup]
// removes stale entries proactively.
//
// # Eviction
//
// The cache holds at most MaxSize roots. Inserting a new root into a full
// cache evicts exactly one entry: the one written longest ago. Recency is
// tracked on writes only; [Cache.Get] never reorders entries. Re-setting an
// existing root moves it to the newest position.
//
// # Concurrency
//
// A single mutex guards entries and statistics, so one Cache can be shared by
// concurrent scans and explicit invalidations. Cached slices are copied on
// both Set and Get.
package cache

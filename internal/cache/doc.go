// Package cache provides a response cache for FRED requests.
// Bodies are kept in an LRU index bounded by a byte budget and, optionally,
// in a sharded on-disk store guarded by file locks, so several processes
// can share one cache directory.
package cache

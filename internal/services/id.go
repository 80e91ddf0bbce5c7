package services

import "time"

// newID returns a fresh identifier derived from the creation instant.
// Millisecond timestamps are monotonic-ish and unique enough for this
// single-writer store; two creations within the same millisecond would
// collide, matching the store's documented lack of write isolation.
func newID() int64 {
	return time.Now().UnixMilli()
}

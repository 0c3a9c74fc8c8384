package models

// RateLimitRecord is one row of the persisted fixed-window counter table.
// At most one record exists per key; expired windows are reset in place,
// never deleted.
type RateLimitRecord struct {
	Key         string
	Count       int
	WindowStart int64 // epoch seconds when the current window began
}

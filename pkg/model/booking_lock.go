package model

import "time"

// BookingLock is an advisory lock document keyed by room and date.
// Inserting it succeeds for exactly one of any set of concurrent
// creation requests touching that room-day, which serializes the
// overlap-check-then-insert sequence for every pair of intervals that
// could conflict.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

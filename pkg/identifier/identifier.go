// Package identifier generates the string IDs stored in the Room and
// Booking collections. Both entities use random UUIDv4 identifiers.
package identifier

import "github.com/google/uuid"

func NewRoomID() string {
	return uuid.New().String()
}

func NewBookingID() string {
	return uuid.New().String()
}

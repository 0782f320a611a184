package identifier

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewRoomID_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := NewRoomID()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate room ID generated: %s", id)
		}
		seen[id] = struct{}{}
	}
}

func TestNewBookingID_ValidUUID(t *testing.T) {
	id := NewBookingID()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("NewBookingID() = %q, not a valid UUID: %v", id, err)
	}
}

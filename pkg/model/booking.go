package model

import "time"

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Booking reserves the half-open interval [StartTime, EndTime) on a room
// for a calendar date. Date and times are stored in their canonical wire
// form; HH:MM sorts lexically in chronological order, which the overlap
// check relies on.
type Booking struct {
	ID           string    `json:"id" bson:"_id" validate:"omitempty,uuid4"`
	CustomerName string    `json:"customerName" bson:"customer_name" validate:"required,min=1,max=100"`
	Date         string    `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	StartTime    string    `json:"startTime" bson:"start_time" validate:"required,datetime=15:04"`
	EndTime      string    `json:"endTime" bson:"end_time" validate:"required,datetime=15:04"`
	RoomID       string    `json:"roomId" bson:"room_id" validate:"required"`
	Status       string    `json:"bookingStatus" bson:"status" validate:"required,oneof=confirmed cancelled"`
	CreatedAt    time.Time `json:"bookingDate" bson:"created_at" validate:"omitempty"`
}

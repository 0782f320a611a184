package model

import "time"

type Room struct {
	ID        string    `json:"id" bson:"_id" validate:"omitempty,uuid4"`
	Seats     int       `json:"seats" bson:"seats" validate:"required,min=1,max=1000"`
	Amenities []string  `json:"amenities" bson:"amenities" validate:"required,min=1,dive,min=1,max=100"`
	Price     float64   `json:"price" bson:"price" validate:"required,gt=0"`
	CreatedAt time.Time `json:"createdAt,omitempty" bson:"created_at" validate:"omitempty"`
}

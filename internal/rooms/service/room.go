package service

import (
	"context"

	"github.com/SachinChauhan402/Roombooking-backend/internal/rooms/repository"
	"github.com/SachinChauhan402/Roombooking-backend/internal/rooms/validator"
	"github.com/SachinChauhan402/Roombooking-backend/pkg/config"
	apperrors "github.com/SachinChauhan402/Roombooking-backend/pkg/errors"
	"github.com/SachinChauhan402/Roombooking-backend/pkg/identifier"
	"github.com/SachinChauhan402/Roombooking-backend/pkg/kafka"
	"github.com/SachinChauhan402/Roombooking-backend/pkg/model"
	"github.com/SachinChauhan402/Roombooking-backend/pkg/sanitizer"
)

// BookingSource supplies the bookings attached to a room; implemented by
// the bookings repository.
type BookingSource interface {
	FindByRoom(ctx context.Context, roomID string) ([]*model.Booking, error)
}

// EventPublisher publishes domain events; nil disables publishing.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// BookingSlot is the per-booking view returned by the room listing.
type BookingSlot struct {
	CustomerName string `json:"customerName"`
	Date         string `json:"date"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
}

// RoomOverview is one entry of the room listing: the room's display
// name, whether anything is booked on it, and its bookings.
type RoomOverview struct {
	RoomName     string        `json:"roomName"`
	BookedStatus bool          `json:"bookedStatus"`
	Bookings     []BookingSlot `json:"bookings"`
}

type RoomService interface {
	Create(ctx context.Context, room *model.Room) error
	ListWithBookings(ctx context.Context) ([]RoomOverview, error)
}

type roomService struct {
	repo      repository.RoomRepository
	bookings  BookingSource
	validator *validator.RoomValidator
	events    EventPublisher
	cfg       *config.Config
}

func NewRoomService(
	repo repository.RoomRepository,
	bookings BookingSource,
	validator *validator.RoomValidator,
	events EventPublisher,
	cfg *config.Config,
) RoomService {
	return &roomService{
		repo:      repo,
		bookings:  bookings,
		validator: validator,
		events:    events,
		cfg:       cfg,
	}
}

func (s *roomService) Create(ctx context.Context, room *model.Room) error {
	room.Amenities = sanitizer.NormalizeAmenities(room.Amenities)

	if err := s.validator.Validate(room); err != nil {
		s.cfg.Log.Warn("Room validation failed", "error", err)
		return apperrors.Validation("Missing required fields", map[string]any{"error": err.Error()})
	}

	room.ID = identifier.NewRoomID()

	// The response depends on a confirmed insert; a failed write is an
	// error, never a silent success.
	if err := s.repo.Create(ctx, room); err != nil {
		s.cfg.Log.Error("Failed to create room", "error", err)
		return apperrors.Internal("Failed to save room", err)
	}

	s.publishCreated(ctx, room)

	s.cfg.Log.Info("Room created successfully",
		"id", room.ID,
		"seats", room.Seats,
		"price", room.Price,
	)
	return nil
}

func (s *roomService) ListWithBookings(ctx context.Context) ([]RoomOverview, error) {
	rooms, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list rooms", "error", err)
		return nil, apperrors.Internal("Failed to fetch rooms", err)
	}

	overviews := make([]RoomOverview, 0, len(rooms))
	for _, room := range rooms {
		bookings, err := s.bookings.FindByRoom(ctx, room.ID)
		if err != nil {
			s.cfg.Log.Error("Failed to fetch bookings for room", "room_id", room.ID, "error", err)
			return nil, apperrors.Internal("Failed to fetch bookings", err)
		}

		slots := make([]BookingSlot, 0, len(bookings))
		for _, b := range bookings {
			slots = append(slots, BookingSlot{
				CustomerName: b.CustomerName,
				Date:         b.Date,
				StartTime:    b.StartTime,
				EndTime:      b.EndTime,
			})
		}

		overviews = append(overviews, RoomOverview{
			RoomName:     room.ID,
			BookedStatus: len(slots) > 0,
			Bookings:     slots,
		})
	}

	return overviews, nil
}

// publishCreated emits a room.created event. Publishing is advisory:
// a failure is logged and never fails the request.
func (s *roomService) publishCreated(ctx context.Context, room *model.Room) {
	if s.events == nil {
		return
	}

	msg := kafka.NewMessage().
		WithKey(room.ID).
		WithValue(room).
		WithEventType(kafka.EventRoomCreated).
		WithSource("roombooking-api").
		Build()

	if err := s.events.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish room.created event", "room_id", room.ID, "error", err)
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "github.com/SachinChauhan402/Roombooking-backend/internal/bookings/errors"
	"github.com/SachinChauhan402/Roombooking-backend/internal/bookings/repository"
	"github.com/SachinChauhan402/Roombooking-backend/internal/bookings/validator"
	roomserrors "github.com/SachinChauhan402/Roombooking-backend/internal/rooms/errors"
	"github.com/SachinChauhan402/Roombooking-backend/pkg/config"
	apperrors "github.com/SachinChauhan402/Roombooking-backend/pkg/errors"
	"github.com/SachinChauhan402/Roombooking-backend/pkg/identifier"
	"github.com/SachinChauhan402/Roombooking-backend/pkg/kafka"
	"github.com/SachinChauhan402/Roombooking-backend/pkg/model"
	"github.com/SachinChauhan402/Roombooking-backend/pkg/sanitizer"
)

// RoomSource resolves room existence; implemented by the rooms
// repository.
type RoomSource interface {
	FindByID(ctx context.Context, id string) (*model.Room, error)
}

// EventPublisher publishes domain events; nil disables publishing.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// CustomerBooking is one entry of the customer listing: a customer name
// paired with one of that customer's bookings.
type CustomerBooking struct {
	CustomerName string `json:"customerName"`
	RoomName     string `json:"roomName"`
	Date         string `json:"date"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
}

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	ListCustomers(ctx context.Context) ([]CustomerBooking, error)
	GetByCustomerAndRoom(ctx context.Context, customerName, roomID string) ([]*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	rooms     RoomSource
	validator *validator.BookingValidator
	events    EventPublisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	rooms RoomSource,
	validator *validator.BookingValidator,
	events EventPublisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		rooms:     rooms,
		validator: validator,
		events:    events,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.applyDefaults(booking)
	s.sanitize(booking)
	if err := s.validate(booking); err != nil {
		return err
	}

	if _, err := s.rooms.FindByID(ctx, booking.RoomID); err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Room", booking.RoomID)
		}
		return apperrors.Internal("Failed to check room existence", err)
	}

	// The overlap check and the insert are two store operations. The
	// advisory lock serializes creations per room and date; any two
	// overlapping candidates share that key, so at most one holds the
	// lock while it checks and inserts.
	lockID, err := s.acquireSlotLock(ctx, booking.RoomID, booking.Date)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	booking.ID = identifier.NewBookingID()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoConflict(sessCtx, booking); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to save booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return err
	}

	s.publishCreated(ctx, booking)

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"room_id", booking.RoomID,
		"date", booking.Date,
		"start_time", booking.StartTime,
		"end_time", booking.EndTime,
	)
	return nil
}

func (s *bookingService) ListCustomers(ctx context.Context) ([]CustomerBooking, error) {
	bookings, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "error", err)
		return nil, apperrors.Internal("Failed to fetch bookings", err)
	}

	// Distinct customers in first-seen order, each followed by all of
	// their bookings in list order.
	var order []string
	byCustomer := make(map[string][]*model.Booking)
	for _, b := range bookings {
		if _, seen := byCustomer[b.CustomerName]; !seen {
			order = append(order, b.CustomerName)
		}
		byCustomer[b.CustomerName] = append(byCustomer[b.CustomerName], b)
	}

	entries := make([]CustomerBooking, 0, len(bookings))
	for _, name := range order {
		for _, b := range byCustomer[name] {
			entries = append(entries, CustomerBooking{
				CustomerName: name,
				RoomName:     b.RoomID,
				Date:         b.Date,
				StartTime:    b.StartTime,
				EndTime:      b.EndTime,
			})
		}
	}

	return entries, nil
}

func (s *bookingService) GetByCustomerAndRoom(ctx context.Context, customerName, roomID string) ([]*model.Booking, error) {
	if customerName == "" || roomID == "" {
		return nil, apperrors.InvalidInput("Customer and room identifiers are required")
	}

	bookings, err := s.repo.FindByCustomerAndRoom(ctx, customerName, roomID)
	if err != nil {
		s.cfg.Log.Error("Failed to fetch bookings by customer and room",
			"customer", customerName,
			"room_id", roomID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to fetch bookings", err)
	}

	if bookings == nil {
		bookings = []*model.Booking{}
	}
	return bookings, nil
}

// --- Helpers ---

func (s *bookingService) applyDefaults(b *model.Booking) {
	if b.Status == "" {
		b.Status = model.StatusConfirmed
	}
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.CustomerName = sanitizer.NormalizeCustomerName(b.CustomerName)
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Missing or invalid required fields", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *bookingService) verifyNoConflict(ctx context.Context, booking *model.Booking) error {
	existing, err := s.repo.FindOverlapping(ctx, booking.RoomID, booking.Date, booking.StartTime, booking.EndTime)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, b := range existing {
		if b.ID == booking.ID {
			continue
		}
		if overlaps(b.StartTime, b.EndTime, booking.StartTime, booking.EndTime) {
			return apperrors.Wrap(
				bookingserrors.ErrTimeConflict,
				apperrors.CodeConflict,
				"Room already booked for the specified date and time",
				http.StatusConflict,
			).WithDetails(map[string]any{
				"conflictsWith": fmt.Sprintf("%s - %s", b.StartTime, b.EndTime),
			})
		}
	}
	return nil
}

// overlaps reports whether the half-open intervals [start1, end1) and
// [start2, end2) intersect. Back-to-back intervals do not overlap.
func overlaps(start1, end1, start2, end2 string) bool {
	return start1 < end2 && end1 > start2
}

// acquireSlotLock creates an advisory lock to prevent concurrent booking creation
// Returns the lock ID if successful, or conflict error if lock already exists.
// The key omits the start time: overlapping candidates can carry different
// start times, and a per-start-time key would let them lock independently
// and both pass the overlap check.
func (s *bookingService) acquireSlotLock(ctx context.Context, roomID, date string) (string, error) {
	lockID := fmt.Sprintf("booking_lock_%s_%s", roomID, date)

	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(config.DefaultLockTTL),
	}

	if _, err := s.lockRepo.Create(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This time slot is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}

	return lockID, nil
}

// releaseSlotLock removes the advisory lock
func (s *bookingService) releaseSlotLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

// publishCreated emits a booking.created event. Publishing is advisory:
// a failure is logged and never fails the request.
func (s *bookingService) publishCreated(ctx context.Context, booking *model.Booking) {
	if s.events == nil {
		return
	}

	msg := kafka.NewMessage().
		WithKey(booking.RoomID).
		WithValue(booking).
		WithEventType(kafka.EventBookingCreated).
		WithSource("roombooking-api").
		Build()

	if err := s.events.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish booking.created event", "booking_id", booking.ID, "error", err)
	}
}

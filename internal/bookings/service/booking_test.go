package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "github.com/SachinChauhan402/Roombooking-backend/internal/bookings/errors"
	bookingvalidator "github.com/SachinChauhan402/Roombooking-backend/internal/bookings/validator"
	roomserrors "github.com/SachinChauhan402/Roombooking-backend/internal/rooms/errors"
	"github.com/SachinChauhan402/Roombooking-backend/pkg/config"
	mongotx "github.com/SachinChauhan402/Roombooking-backend/pkg/db/mongo"
	apperrors "github.com/SachinChauhan402/Roombooking-backend/pkg/errors"
	"github.com/SachinChauhan402/Roombooking-backend/pkg/logger"
	"github.com/SachinChauhan402/Roombooking-backend/pkg/model"
)

// Mock repositories for testing
type mockBookingRepository struct {
	createFunc                func(ctx context.Context, booking *model.Booking) error
	findAllFunc               func(ctx context.Context) ([]*model.Booking, error)
	findOverlappingFunc       func(ctx context.Context, roomID, date, startTime, endTime string) ([]*model.Booking, error)
	findByRoomFunc            func(ctx context.Context, roomID string) ([]*model.Booking, error)
	findByCustomerAndRoomFunc func(ctx context.Context, customerName, roomID string) ([]*model.Booking, error)
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	return nil
}

func (m *mockBookingRepository) FindAll(ctx context.Context) ([]*model.Booking, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) FindOverlapping(ctx context.Context, roomID, date, startTime, endTime string) ([]*model.Booking, error) {
	if m.findOverlappingFunc != nil {
		return m.findOverlappingFunc(ctx, roomID, date, startTime, endTime)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) FindByRoom(ctx context.Context, roomID string) ([]*model.Booking, error) {
	if m.findByRoomFunc != nil {
		return m.findByRoomFunc(ctx, roomID)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) FindByCustomerAndRoom(ctx context.Context, customerName, roomID string) ([]*model.Booking, error) {
	if m.findByCustomerAndRoomFunc != nil {
		return m.findByCustomerAndRoomFunc(ctx, customerName, roomID)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockLockRepository struct {
	createFunc func(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error)
	deleteFunc func(ctx context.Context, lockID string) error
}

func (m *mockLockRepository) Create(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, lock)
	}
	return lock, nil
}

func (m *mockLockRepository) Delete(ctx context.Context, lockID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, lockID)
	}
	return nil
}

type mockRoomSource struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Room, error)
}

func (m *mockRoomSource) FindByID(ctx context.Context, id string) (*model.Room, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Room{ID: id}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:     "error",
			Format:    logger.JSON,
			AddSource: false,
			Service:   "test",
		}),
	}
}

func newTestService(repo *mockBookingRepository, locks *mockLockRepository, rooms *mockRoomSource) BookingService {
	cfg := testConfig()
	return NewBookingService(repo, locks, rooms, bookingvalidator.NewBookingValidator(cfg.Log), nil, cfg)
}

func validBooking() *model.Booking {
	return &model.Booking{
		CustomerName: "Alice",
		Date:         "2026-09-01",
		StartTime:    "09:00",
		EndTime:      "10:00",
		RoomID:       "7f9c24e5-2c3a-4b8e-9d2f-1a6b3c4d5e6f",
	}
}

func assertStatus(t *testing.T, err error, want int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d, got nil", want)
	}
	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode() != want {
		t.Errorf("expected status %d, got %d (%v)", want, appErr.StatusCode(), err)
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		start1, end1, start2, end2 string
		want                       bool
	}{
		{"disjoint before", "08:00", "09:00", "10:00", "11:00", false},
		{"back-to-back, existing ends at new start", "09:00", "10:00", "10:00", "11:00", false},
		{"back-to-back, new ends at existing start", "10:00", "11:00", "09:00", "10:00", false},
		{"partial overlap at start", "09:00", "10:00", "09:30", "10:30", true},
		{"partial overlap at end", "09:30", "10:30", "09:00", "10:00", true},
		{"new contained in existing", "09:00", "12:00", "10:00", "11:00", true},
		{"existing contained in new", "10:00", "11:00", "09:00", "12:00", true},
		{"identical intervals", "09:00", "10:00", "09:00", "10:00", true},
		{"one minute overlap", "09:00", "10:01", "10:00", "11:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := overlaps(tt.start1, tt.end1, tt.start2, tt.end2); got != tt.want {
				t.Errorf("overlaps(%s-%s, %s-%s) = %v, want %v",
					tt.start1, tt.end1, tt.start2, tt.end2, got, tt.want)
			}
		})
	}
}

func TestCreate_MissingFields(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, &mockLockRepository{}, &mockRoomSource{})

	booking := validBooking()
	booking.CustomerName = ""

	err := svc.Create(context.Background(), booking)
	assertStatus(t, err, http.StatusBadRequest)
}

func TestCreate_InvertedTimeRange(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, &mockLockRepository{}, &mockRoomSource{})

	booking := validBooking()
	booking.StartTime = "11:00"
	booking.EndTime = "10:00"

	err := svc.Create(context.Background(), booking)
	assertStatus(t, err, http.StatusBadRequest)
}

func TestCreate_EmptyTimeRange(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, &mockLockRepository{}, &mockRoomSource{})

	booking := validBooking()
	booking.StartTime = "10:00"
	booking.EndTime = "10:00"

	err := svc.Create(context.Background(), booking)
	assertStatus(t, err, http.StatusBadRequest)
}

func TestCreate_UnknownRoom(t *testing.T) {
	rooms := &mockRoomSource{
		findByIDFunc: func(ctx context.Context, id string) (*model.Room, error) {
			return nil, roomserrors.ErrNotFound
		},
	}
	svc := newTestService(&mockBookingRepository{}, &mockLockRepository{}, rooms)

	err := svc.Create(context.Background(), validBooking())
	assertStatus(t, err, http.StatusNotFound)
}

func TestCreate_Conflict(t *testing.T) {
	repo := &mockBookingRepository{
		findOverlappingFunc: func(ctx context.Context, roomID, date, startTime, endTime string) ([]*model.Booking, error) {
			return []*model.Booking{
				{ID: "existing", StartTime: "09:30", EndTime: "10:30"},
			}, nil
		},
	}
	svc := newTestService(repo, &mockLockRepository{}, &mockRoomSource{})

	err := svc.Create(context.Background(), validBooking())
	assertStatus(t, err, http.StatusConflict)

	appErr := apperrors.AsAppError(err)
	if appErr.Message != "Room already booked for the specified date and time" {
		t.Errorf("unexpected conflict message: %q", appErr.Message)
	}
	if !errors.Is(err, bookingserrors.ErrTimeConflict) {
		t.Error("expected conflict error to wrap ErrTimeConflict")
	}
}

func TestCreate_BackToBackAllowed(t *testing.T) {
	var created *model.Booking
	repo := &mockBookingRepository{
		findOverlappingFunc: func(ctx context.Context, roomID, date, startTime, endTime string) ([]*model.Booking, error) {
			// The store filter already excludes back-to-back bookings;
			// an adjacent one must not reach the in-memory check.
			return []*model.Booking{}, nil
		},
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			created = booking
			return nil
		},
	}
	svc := newTestService(repo, &mockLockRepository{}, &mockRoomSource{})

	booking := validBooking()
	booking.StartTime = "10:00"
	booking.EndTime = "11:00"

	if err := svc.Create(context.Background(), booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil {
		t.Fatal("expected booking to be persisted")
	}
}

func TestCreate_Success(t *testing.T) {
	var created *model.Booking
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			created = booking
			return nil
		},
	}
	locks := &mockLockRepository{}
	svc := newTestService(repo, locks, &mockRoomSource{})

	booking := validBooking()
	booking.CustomerName = "  Alice   Smith "

	if err := svc.Create(context.Background(), booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created == nil {
		t.Fatal("expected booking to be persisted")
	}
	if booking.ID == "" {
		t.Error("expected server-assigned booking ID")
	}
	if booking.Status != model.StatusConfirmed {
		t.Errorf("expected status %q, got %q", model.StatusConfirmed, booking.Status)
	}
	if booking.CustomerName != "Alice Smith" {
		t.Errorf("expected normalized customer name, got %q", booking.CustomerName)
	}
}

func TestCreate_LockKeyCoversWholeRoomDay(t *testing.T) {
	var lockIDs []string
	locks := &mockLockRepository{
		createFunc: func(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
			lockIDs = append(lockIDs, lock.ID)
			return lock, nil
		},
	}
	svc := newTestService(&mockBookingRepository{}, locks, &mockRoomSource{})

	first := validBooking()
	first.StartTime, first.EndTime = "09:00", "10:00"
	if err := svc.Create(context.Background(), first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Overlapping interval with a different start time must contend on
	// the same lock, or two concurrent creations could both pass the
	// overlap check.
	second := validBooking()
	second.StartTime, second.EndTime = "09:30", "10:30"
	if err := svc.Create(context.Background(), second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(lockIDs) != 2 {
		t.Fatalf("expected 2 lock acquisitions, got %d", len(lockIDs))
	}
	if lockIDs[0] != lockIDs[1] {
		t.Errorf("overlapping intervals locked different keys: %q vs %q", lockIDs[0], lockIDs[1])
	}
}

func TestCreate_OverlappingStartTimesContend(t *testing.T) {
	duplicateKey := mongo.WriteException{
		WriteErrors: []mongo.WriteError{{Code: 11000}},
	}
	held := make(map[string]bool)
	locks := &mockLockRepository{
		createFunc: func(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
			if held[lock.ID] {
				return nil, duplicateKey
			}
			held[lock.ID] = true
			return lock, nil
		},
		deleteFunc: func(ctx context.Context, lockID string) error {
			// Hold every lock until the test ends, as if the first
			// request were still mid-transaction.
			return nil
		},
	}
	svc := newTestService(&mockBookingRepository{}, locks, &mockRoomSource{})

	first := validBooking()
	first.StartTime, first.EndTime = "09:00", "10:00"
	if err := svc.Create(context.Background(), first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := validBooking()
	second.StartTime, second.EndTime = "09:30", "10:30"
	err := svc.Create(context.Background(), second)
	assertStatus(t, err, http.StatusConflict)
}

func TestCreate_LockContention(t *testing.T) {
	duplicateKey := mongo.WriteException{
		WriteErrors: []mongo.WriteError{{Code: 11000}},
	}
	locks := &mockLockRepository{
		createFunc: func(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
			return nil, duplicateKey
		},
	}
	svc := newTestService(&mockBookingRepository{}, locks, &mockRoomSource{})

	err := svc.Create(context.Background(), validBooking())
	assertStatus(t, err, http.StatusConflict)
}

func TestCreate_ReleasesLockOnConflict(t *testing.T) {
	var released string
	locks := &mockLockRepository{
		deleteFunc: func(ctx context.Context, lockID string) error {
			released = lockID
			return nil
		},
	}
	repo := &mockBookingRepository{
		findOverlappingFunc: func(ctx context.Context, roomID, date, startTime, endTime string) ([]*model.Booking, error) {
			return []*model.Booking{
				{ID: "existing", StartTime: "09:00", EndTime: "10:00"},
			}, nil
		},
	}
	svc := newTestService(repo, locks, &mockRoomSource{})

	_ = svc.Create(context.Background(), validBooking())

	if released == "" {
		t.Error("expected advisory lock to be released after conflict")
	}
}

func TestCreate_PersistenceFailure(t *testing.T) {
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			return errors.New("write concern error")
		},
	}
	svc := newTestService(repo, &mockLockRepository{}, &mockRoomSource{})

	err := svc.Create(context.Background(), validBooking())
	assertStatus(t, err, http.StatusInternalServerError)
}

func TestListCustomers_FirstSeenOrder(t *testing.T) {
	repo := &mockBookingRepository{
		findAllFunc: func(ctx context.Context) ([]*model.Booking, error) {
			return []*model.Booking{
				{CustomerName: "Alice", RoomID: "room-1", Date: "2026-09-01", StartTime: "09:00", EndTime: "10:00"},
				{CustomerName: "Bob", RoomID: "room-2", Date: "2026-09-01", StartTime: "10:00", EndTime: "11:00"},
				{CustomerName: "Alice", RoomID: "room-3", Date: "2026-09-02", StartTime: "14:00", EndTime: "15:00"},
			}, nil
		},
	}
	svc := newTestService(repo, &mockLockRepository{}, &mockRoomSource{})

	entries, err := svc.ListCustomers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantNames := []string{"Alice", "Alice", "Bob"}
	if len(entries) != len(wantNames) {
		t.Fatalf("expected %d entries, got %d", len(wantNames), len(entries))
	}
	for i, want := range wantNames {
		if entries[i].CustomerName != want {
			t.Errorf("entry %d: expected customer %q, got %q", i, want, entries[i].CustomerName)
		}
	}
	if entries[1].RoomName != "room-3" {
		t.Errorf("expected Alice's second booking in room-3, got %q", entries[1].RoomName)
	}
}

func TestGetByCustomerAndRoom_EmptyResult(t *testing.T) {
	repo := &mockBookingRepository{
		findByCustomerAndRoomFunc: func(ctx context.Context, customerName, roomID string) ([]*model.Booking, error) {
			return nil, nil
		},
	}
	svc := newTestService(repo, &mockLockRepository{}, &mockRoomSource{})

	bookings, err := svc.GetByCustomerAndRoom(context.Background(), "Alice", "room-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bookings == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(bookings) != 0 {
		t.Errorf("expected no bookings, got %d", len(bookings))
	}
}

func TestGetByCustomerAndRoom_MissingIdentifiers(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, &mockLockRepository{}, &mockRoomSource{})

	_, err := svc.GetByCustomerAndRoom(context.Background(), "", "room-1")
	assertStatus(t, err, http.StatusBadRequest)
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"

	"github.com/SachinChauhan402/Roombooking-backend/internal/rooms/service"
	apperrors "github.com/SachinChauhan402/Roombooking-backend/pkg/errors"
	"github.com/SachinChauhan402/Roombooking-backend/pkg/logger"
	"github.com/SachinChauhan402/Roombooking-backend/pkg/model"
)

// Mock service for testing
type mockRoomService struct {
	createFunc           func(ctx context.Context, room *model.Room) error
	listWithBookingsFunc func(ctx context.Context) ([]service.RoomOverview, error)
}

func (m *mockRoomService) Create(ctx context.Context, room *model.Room) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, room)
	}
	return nil
}

func (m *mockRoomService) ListWithBookings(ctx context.Context) ([]service.RoomOverview, error) {
	if m.listWithBookingsFunc != nil {
		return m.listWithBookingsFunc(ctx)
	}
	return []service.RoomOverview{}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

func newTestRouter(svc service.RoomService) *httprouter.Router {
	router := httprouter.New()
	NewRoomHandler(svc, testLogger()).RegisterRoutes(router)
	return router
}

func TestCreate_InvalidBody(t *testing.T) {
	router := newTestRouter(&mockRoomService{})

	req := httptest.NewRequest(http.MethodPost, "/rooms", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body["error"] != "Invalid request body" {
		t.Errorf("unexpected error message: %v", body["error"])
	}
}

func TestCreate_Success(t *testing.T) {
	svc := &mockRoomService{
		createFunc: func(ctx context.Context, room *model.Room) error {
			room.ID = "server-assigned"
			return nil
		},
	}
	router := newTestRouter(svc)

	payload := `{"seats":10,"amenities":["wifi"],"price":25.5}`
	req := httptest.NewRequest(http.MethodPost, "/rooms", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Room model.Room `json:"room"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body.Room.ID != "server-assigned" {
		t.Errorf("expected server-assigned ID in response, got %q", body.Room.ID)
	}
	if body.Room.Seats != 10 {
		t.Errorf("expected 10 seats, got %d", body.Room.Seats)
	}
}

func TestCreate_ValidationErrorMapsTo400(t *testing.T) {
	svc := &mockRoomService{
		createFunc: func(ctx context.Context, room *model.Room) error {
			return apperrors.Validation("Missing required fields", nil)
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/rooms", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestList_ResponseShape(t *testing.T) {
	svc := &mockRoomService{
		listWithBookingsFunc: func(ctx context.Context) ([]service.RoomOverview, error) {
			return []service.RoomOverview{
				{
					RoomName:     "room-1",
					BookedStatus: true,
					Bookings: []service.BookingSlot{
						{CustomerName: "Alice", Date: "2026-09-01", StartTime: "09:00", EndTime: "10:00"},
					},
				},
				{
					RoomName:     "room-2",
					BookedStatus: false,
					Bookings:     []service.BookingSlot{},
				},
			}, nil
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Rooms []struct {
			RoomName     string `json:"roomName"`
			BookedStatus bool   `json:"bookedStatus"`
			Bookings     []struct {
				CustomerName string `json:"customerName"`
			} `json:"bookings"`
		} `json:"rooms"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}

	if len(body.Rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(body.Rooms))
	}
	if body.Rooms[0].RoomName != "room-1" || !body.Rooms[0].BookedStatus {
		t.Errorf("unexpected first room: %+v", body.Rooms[0])
	}
	if len(body.Rooms[0].Bookings) != 1 || body.Rooms[0].Bookings[0].CustomerName != "Alice" {
		t.Errorf("unexpected bookings for first room: %+v", body.Rooms[0].Bookings)
	}
	if body.Rooms[1].BookedStatus {
		t.Error("expected second room to be unbooked")
	}
}

func TestList_ServiceFailureMapsTo500(t *testing.T) {
	svc := &mockRoomService{
		listWithBookingsFunc: func(ctx context.Context) ([]service.RoomOverview, error) {
			return nil, apperrors.Internal("Failed to fetch rooms", nil)
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

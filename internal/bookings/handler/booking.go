package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/SachinChauhan402/Roombooking-backend/internal/bookings/service"
	httputil "github.com/SachinChauhan402/Roombooking-backend/pkg/http"
	"github.com/SachinChauhan402/Roombooking-backend/pkg/logger"
	"github.com/SachinChauhan402/Roombooking-backend/pkg/model"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

type createBookingResponse struct {
	Booking *model.Booking `json:"booking"`
}

type listCustomersResponse struct {
	Customers []service.CustomerBooking `json:"customers"`
}

// customerBookingDetail is the booking shape of the per-customer lookup,
// flattened with the room reference and lifecycle fields.
type customerBookingDetail struct {
	CustomerName string    `json:"customerName"`
	RoomName     string    `json:"roomName"`
	Date         string    `json:"date"`
	StartTime    string    `json:"startTime"`
	EndTime      string    `json:"endTime"`
	BookingID    string    `json:"bookingId"`
	BookingDate  time.Time `json:"bookingDate"`
	Status       string    `json:"bookingStatus"`
}

type customerRoomResponse struct {
	CustomerID   string                  `json:"customerId"`
	RoomID       string                  `json:"roomId"`
	BookingCount int                     `json:"bookingCount"`
	Bookings     []customerBookingDetail `json:"bookings"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	// The identifier is server-assigned.
	booking.ID = ""

	if err := h.service.Create(r.Context(), &booking); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, createBookingResponse{Booking: &booking}); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) ListCustomers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	customers, err := h.service.ListCustomers(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListCustomers", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if customers == nil {
		customers = []service.CustomerBooking{}
	}

	if err := httputil.WriteSuccess(w, listCustomersResponse{Customers: customers}); err != nil {
		h.log.Error("failed to write success response", "handler", "ListCustomers", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetByCustomerAndRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	customerID := ps.ByName("customerId")
	roomID := ps.ByName("roomId")

	bookings, err := h.service.GetByCustomerAndRoom(r.Context(), customerID, roomID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByCustomerAndRoom", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	details := make([]customerBookingDetail, 0, len(bookings))
	for _, b := range bookings {
		details = append(details, customerBookingDetail{
			CustomerName: b.CustomerName,
			RoomName:     b.RoomID,
			Date:         b.Date,
			StartTime:    b.StartTime,
			EndTime:      b.EndTime,
			BookingID:    b.ID,
			BookingDate:  b.CreatedAt,
			Status:       b.Status,
		})
	}

	resp := customerRoomResponse{
		CustomerID:   customerID,
		RoomID:       roomID,
		BookingCount: len(details),
		Bookings:     details,
	}

	if err := httputil.WriteSuccess(w, resp); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByCustomerAndRoom", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/bookings", h.Create)
	router.GET("/customers", h.ListCustomers)
	router.GET("/bookings/:customerId/:roomId", h.GetByCustomerAndRoom)
}

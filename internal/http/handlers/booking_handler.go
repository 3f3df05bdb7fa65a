package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/diagnosis/taipei-trip/internal/domain"
	"github.com/diagnosis/taipei-trip/internal/http/middleware"
	"github.com/diagnosis/taipei-trip/internal/http/response"
	"github.com/diagnosis/taipei-trip/internal/repo/postgres"
	"github.com/diagnosis/taipei-trip/pkg/events"
	"github.com/diagnosis/taipei-trip/pkg/logger"
)

type BookingHandler struct {
	Bookings postgres.BookingsRepo
	Bus      events.Publisher
}

func NewBookingHandler(bookings postgres.BookingsRepo, bus events.Publisher) *BookingHandler {
	return &BookingHandler{Bookings: bookings, Bus: bus}
}

func (h *BookingHandler) get(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Identity(r)

	detail, err := h.Bookings.GetByUser(r.Context(), claims.ID)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	// No staged booking is a valid state, not an error.
	response.Data(w, detail)
}

func (h *BookingHandler) create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Identity(r)

	var in domain.BookingReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Fail(w, http.StatusBadRequest, "invalid json")
		return
	}
	if in.AttractionID <= 0 {
		response.Fail(w, http.StatusBadRequest, "attractionId is required")
		return
	}
	if _, err := time.Parse("2006-01-02", in.Date); err != nil {
		response.Fail(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	if in.Time == "" {
		response.Fail(w, http.StatusBadRequest, "time is required")
		return
	}
	if in.Price <= 0 {
		response.Fail(w, http.StatusBadRequest, "price must be positive")
		return
	}

	b := &domain.Booking{
		UserID:       claims.ID,
		AttractionID: in.AttractionID,
		Date:         in.Date,
		Time:         in.Time,
		Price:        in.Price,
	}
	if err := h.Bookings.Upsert(r.Context(), b); err != nil {
		response.Err(w, r, err)
		return
	}

	if h.Bus != nil {
		err := h.Bus.Publish(r.Context(), events.BookingStaged, events.BookingStagedEvent{
			UserID:       b.UserID,
			AttractionID: b.AttractionID,
			Date:         b.Date,
			Time:         b.Time,
			Price:        b.Price,
		})
		if err != nil {
			logger.WarnContext(r.Context(), "booking event publish failed", "error", err)
		}
	}
	response.OK(w)
}

func (h *BookingHandler) clear(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Identity(r)

	if err := h.Bookings.Clear(r.Context(), claims.ID); err != nil {
		response.Err(w, r, err)
		return
	}

	if h.Bus != nil {
		err := h.Bus.Publish(r.Context(), events.BookingCleared, events.BookingClearedEvent{
			UserID:    claims.ID,
			ClearedAt: time.Now(),
		})
		if err != nil {
			logger.WarnContext(r.Context(), "booking event publish failed", "error", err)
		}
	}
	response.OK(w)
}

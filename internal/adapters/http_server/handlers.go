// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_booking/internal/adapters/auth"
	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

type Handlers struct {
	Q      *app.QueryService
	C      *app.BookingService
	Auth   Authenticator
	Health func(ctx context.Context) error
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type bookingBody struct {
	RoomID *int64 `json:"roomId"`
}

type idResponse struct {
	ID int64 `json:"id"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", h.healthz)
	s.mux.Group(func(r chi.Router) {
		r.Use(RequireAuth(h.Auth))
		r.Get("/bookings", h.getBooking)
		r.Post("/bookings", h.createBooking)
		r.Put("/bookings/{bookingId}", h.updateBooking)
		r.Get("/hotels/{hotelId}/rooms", h.listRooms)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("marshal response failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("write response body failed")
	}
}

// outcome labels a service error for the booking operations counter.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	default:
		return "error"
	}
}

func internalError(w http.ResponseWriter, op string, err error) {
	log.Error().Err(err).Str("op", op).Msg("booking operation failed")
	writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
}

func (h *Handlers) healthz(w http.ResponseWriter, r *http.Request) {
	if h.Health != nil {
		if err := h.Health(r.Context()); err != nil {
			log.Warn().Err(err).Msg("health check failed")
			writeProblem(w, http.StatusServiceUnavailable, "Service Unavailable", "dependency check failed")
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// decodeRoomID reads {"roomId": n}; a missing or non-numeric roomId is a bad request.
func decodeRoomID(r *http.Request) (int64, bool) {
	var body bookingBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RoomID == nil {
		return 0, false
	}
	return *body.RoomID, true
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserID(r.Context())
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "missing user")
		return
	}
	bv, err := h.Q.GetBooking(r.Context(), uid)
	observability.ObserveBooking("get", outcome(err))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, bv)
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "no booking found")
	default:
		internalError(w, "get", err)
	}
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserID(r.Context())
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "missing user")
		return
	}
	roomID, ok := decodeRoomID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "roomId must be a number")
		return
	}

	b, err := h.C.CreateBooking(r.Context(), uid, roomID)
	observability.ObserveBooking("create", outcome(err))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, idResponse{ID: b.ID})
	case errors.Is(err, domain.ErrConflict):
		writeProblem(w, http.StatusConflict, "Conflict", "user already has a booking")
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrForbidden):
		writeProblem(w, http.StatusForbidden, "Forbidden", forbiddenDetail(err))
	default:
		internalError(w, "create", err)
	}
}

func (h *Handlers) updateBooking(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserID(r.Context())
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "missing user")
		return
	}
	bookingID, err := strconv.ParseInt(chi.URLParam(r, "bookingId"), 10, 64)
	if err != nil || bookingID <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "bookingId must be a positive number")
		return
	}
	roomID, ok := decodeRoomID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "roomId must be a number")
		return
	}

	b, err := h.C.UpdateBooking(r.Context(), bookingID, roomID, uid)
	observability.ObserveBooking("update", outcome(err))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, idResponse{ID: b.ID})
	case errors.Is(err, domain.ErrBookingNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "booking not found")
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "booking cannot be changed by this user")
	case errors.Is(err, domain.ErrForbidden):
		writeProblem(w, http.StatusForbidden, "Forbidden", forbiddenDetail(err))
	default:
		internalError(w, "update", err)
	}
}

func forbiddenDetail(err error) string {
	switch {
	case errors.Is(err, domain.ErrRoomFull):
		return "room is full"
	case errors.Is(err, domain.ErrRoomNotFound), errors.Is(err, domain.ErrInvalidRoom):
		return "room not available"
	default:
		return "ticket does not include a hotel booking"
	}
}

func (h *Handlers) listRooms(w http.ResponseWriter, r *http.Request) {
	hotelID, err := strconv.ParseInt(chi.URLParam(r, "hotelId"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "hotelId must be a number")
		return
	}
	rooms, err := h.Q.ListRooms(r.Context(), hotelID)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, rooms)
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "hotel not found")
	default:
		internalError(w, "list_rooms", err)
	}
}

package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/robertarktes/ticketing-platform/internal/domain"
	"github.com/robertarktes/ticketing-platform/internal/service"
)

func (h *Handlers) ListTickets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := service.ListFilter{Status: q.Get("status")}
	if v := q.Get("eventId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, h.logger, errors.Wrap(domain.ErrInvalidInput, "invalid eventId"))
			return
		}
		filter.EventID = id
	}
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))

	tickets, err := h.tickets.List(r.Context(), filter)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tickets": tickets})
}

func (h *Handlers) CreateTicket(w http.ResponseWriter, r *http.Request) {
	identity, _ := CallerIdentity(r.Context())

	var req struct {
		EventID   uuid.UUID `json:"eventId"`
		SeatLabel string    `json:"seatLabel"`
		Price     float64   `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, errors.Wrap(domain.ErrInvalidInput, "malformed request body"))
		return
	}

	ticket, err := h.tickets.Create(r.Context(), identity.UserID, req.EventID, req.SeatLabel, req.Price)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"ticketId": ticket.ID})
}

func (h *Handlers) UpdateTicket(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, errors.Wrap(domain.ErrInvalidInput, "invalid ticket id"))
		return
	}

	var req struct {
		Price  *float64 `json:"price,omitempty"`
		Status *string  `json:"status,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, errors.Wrap(domain.ErrInvalidInput, "malformed request body"))
		return
	}

	if err := h.tickets.Update(r.Context(), id, req.Price, req.Status); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "ticket updated"})
}

func (h *Handlers) DeleteTicket(w http.ResponseWriter, r *http.Request) {
	identity, _ := CallerIdentity(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, errors.Wrap(domain.ErrInvalidInput, "invalid ticket id"))
		return
	}

	if err := h.tickets.Delete(r.Context(), identity.UserID, id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "ticket deleted"})
}

func (h *Handlers) AvailableSeats(w http.ResponseWriter, r *http.Request) {
	identity, _ := CallerIdentity(r.Context())

	eventID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, errors.Wrap(domain.ErrInvalidInput, "invalid event id"))
		return
	}

	seats, err := h.tickets.AvailableSeats(r.Context(), identity.UserID, eventID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	out := make([]map[string]interface{}, 0, len(seats))
	for _, s := range seats {
		out = append(out, map[string]interface{}{
			"id":   s.ID,
			"row":  s.RowLabel,
			"seat": s.SeatNumber,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"seats": out})
}

package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/robertarktes/ticketing-platform/internal/adapters/crdb"
	"github.com/robertarktes/ticketing-platform/internal/domain"
	"github.com/robertarktes/ticketing-platform/internal/service"
)

func (h *Handlers) ListUpcomingEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.ListUpcoming(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}

func (h *Handlers) ListOrganizerEvents(w http.ResponseWriter, r *http.Request) {
	identity, _ := CallerIdentity(r.Context())

	events, err := h.events.ListByOrganizer(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}

func (h *Handlers) GetOrganizerEvent(w http.ResponseWriter, r *http.Request) {
	identity, _ := CallerIdentity(r.Context())

	eventID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, errors.Wrap(domain.ErrInvalidInput, "invalid event id"))
		return
	}

	event, err := h.events.Get(r.Context(), identity.UserID, eventID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"event": event})
}

func (h *Handlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	identity, _ := CallerIdentity(r.Context())

	var req struct {
		VenueID       uuid.UUID `json:"venueId"`
		Title         string    `json:"title"`
		Description   string    `json:"description,omitempty"`
		StartTime     time.Time `json:"startTime"`
		EndTime       time.Time `json:"endTime"`
		StandardPrice float64   `json:"standardPrice"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, errors.Wrap(domain.ErrInvalidInput, "malformed request body"))
		return
	}

	event, err := h.events.Create(r.Context(), identity.UserID, service.CreateEventInput{
		VenueID:       req.VenueID,
		Title:         req.Title,
		Description:   req.Description,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		StandardPrice: req.StandardPrice,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "event created",
		"eventId": event.ID,
	})
}

// UpdateEvent decodes only the allow-listed fields; unknown keys in the body
// are ignored rather than forwarded to the store.
func (h *Handlers) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	identity, _ := CallerIdentity(r.Context())

	eventID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, errors.Wrap(domain.ErrInvalidInput, "invalid event id"))
		return
	}

	var req struct {
		Title         *string    `json:"title,omitempty"`
		Description   *string    `json:"description,omitempty"`
		StartTime     *time.Time `json:"startTime,omitempty"`
		EndTime       *time.Time `json:"endTime,omitempty"`
		StandardPrice *float64   `json:"standardPrice,omitempty"`
		Status        *string    `json:"status,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, errors.Wrap(domain.ErrInvalidInput, "malformed request body"))
		return
	}

	update := crdb.EventUpdate{
		Title:         req.Title,
		Description:   req.Description,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		StandardPrice: req.StandardPrice,
	}
	if req.Status != nil {
		status := domain.EventStatus(*req.Status)
		update.Status = &status
	}

	if err := h.events.Update(r.Context(), identity.UserID, eventID, update); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "event updated"})
}

func (h *Handlers) CancelEvent(w http.ResponseWriter, r *http.Request) {
	identity, _ := CallerIdentity(r.Context())

	eventID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, errors.Wrap(domain.ErrInvalidInput, "invalid event id"))
		return
	}

	if err := h.events.Cancel(r.Context(), identity.UserID, eventID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "event cancelled"})
}

func (h *Handlers) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	identity, _ := CallerIdentity(r.Context())

	eventID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, errors.Wrap(domain.ErrInvalidInput, "invalid event id"))
		return
	}

	if err := h.events.Delete(r.Context(), identity.UserID, eventID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "event deleted"})
}

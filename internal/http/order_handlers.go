package http

import (
	"encoding/json"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/robertarktes/ticketing-platform/internal/domain"
	"github.com/robertarktes/ticketing-platform/internal/idempotency"
)

func (h *Handlers) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	identity, _ := CallerIdentity(r.Context())

	key := r.Header.Get("Idempotency-Key")
	if existing, err := h.idemp.Get(r.Context(), key); err == nil && existing != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(existing.Status)
		w.Write(existing.Result)
		return
	}

	var req struct {
		Tickets   []uuid.UUID `json:"tickets"`
		PayMethod string      `json:"payMethod,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, errors.Wrap(domain.ErrInvalidInput, "malformed request body"))
		return
	}

	receipt, err := h.orders.PlaceOrder(r.Context(), identity.UserID, req.Tickets, req.PayMethod)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	body := map[string]interface{}{
		"message": "order completed",
		"orderId": receipt.OrderID,
		"amount":  receipt.Amount,
	}
	data, _ := json.Marshal(body)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	w.Write(data)

	h.idemp.Set(r.Context(), key, idempotency.Response{Status: http.StatusCreated, Result: data})
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	identity, _ := CallerIdentity(r.Context())

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, errors.Wrap(domain.ErrInvalidInput, "invalid order id"))
		return
	}

	details, err := h.orders.GetOrder(r.Context(), identity.UserID, orderID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	tickets := make([]map[string]interface{}, 0, len(details.Tickets))
	for _, t := range details.Tickets {
		tickets = append(tickets, map[string]interface{}{
			"id":         t.ID,
			"eventId":    t.EventID,
			"eventTitle": t.EventTitle,
			"row":        t.RowLabel,
			"seat":       t.SeatNumber,
			"price":      t.Price,
			"status":     t.Status,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"order": map[string]interface{}{
			"id":        details.Order.ID,
			"amount":    details.Order.Amount,
			"status":    details.Order.Status,
			"createdAt": details.Order.CreatedAt,
		},
		"tickets": tickets,
		"payment": map[string]interface{}{
			"id":     details.Payment.ID,
			"method": details.Payment.Method,
			"amount": details.Payment.Amount,
			"status": details.Payment.Status,
		},
	})
}

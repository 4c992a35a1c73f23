package http

import (
	"net/http"

	"github.com/robertarktes/ticketing-platform/internal/config"
	"github.com/robertarktes/ticketing-platform/internal/idempotency"
	"github.com/robertarktes/ticketing-platform/internal/observability"
	"github.com/robertarktes/ticketing-platform/internal/service"
	"github.com/robertarktes/ticketing-platform/internal/session"
)

type Handlers struct {
	cfg      *config.Config
	auth     *service.AuthService
	events   *service.EventService
	tickets  *service.TicketService
	orders   *service.OrderService
	sessions *session.Store
	idemp    *idempotency.Idempotency
	logger   observability.Logger
}

func NewHandlers(
	cfg *config.Config,
	auth *service.AuthService,
	events *service.EventService,
	tickets *service.TicketService,
	orders *service.OrderService,
	sessions *session.Store,
	idemp *idempotency.Idempotency,
	logger observability.Logger,
) *Handlers {
	return &Handlers{
		cfg:      cfg,
		auth:     auth,
		events:   events,
		tickets:  tickets,
		orders:   orders,
		sessions: sessions,
		idemp:    idemp,
		logger:   logger,
	}
}

func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handlers) Readyz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}

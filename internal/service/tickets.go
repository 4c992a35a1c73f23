package service

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/robertarktes/ticketing-platform/internal/adapters/crdb"
	"github.com/robertarktes/ticketing-platform/internal/domain"
	"github.com/robertarktes/ticketing-platform/internal/observability"
)

const (
	defaultTicketLimit = 20
	maxTicketLimit     = 200
)

type ticketStore interface {
	GetEventOwned(ctx context.Context, organizerID, eventID uuid.UUID) (*domain.Event, error)
	FindSeats(ctx context.Context, venueID uuid.UUID, row string, number int) ([]domain.Seat, error)
	InsertTicket(ctx context.Context, ticket domain.Ticket) error
	GetTicket(ctx context.Context, id uuid.UUID) (*domain.Ticket, error)
	ListTickets(ctx context.Context, filter crdb.TicketFilter) ([]domain.Ticket, error)
	UpdateTicket(ctx context.Context, id uuid.UUID, price *float64, status *domain.TicketStatus) error
	DeleteTicketOwned(ctx context.Context, organizerID, id uuid.UUID) error
	AvailableSeats(ctx context.Context, eventID uuid.UUID) ([]domain.Seat, error)
}

type ticketAuditor interface {
	LogTicketCreated(ctx context.Context, organizerID uuid.UUID, ticket domain.Ticket) error
}

// TicketService is the sellable-ticket catalog.
type TicketService struct {
	store       ticketStore
	provisioner *Provisioner
	audit       ticketAuditor
	logger      observability.Logger
}

func NewTicketService(store ticketStore, provisioner *Provisioner, audit ticketAuditor, logger observability.Logger) *TicketService {
	return &TicketService{store: store, provisioner: provisioner, audit: audit, logger: logger}
}

// Create lists a seat for sale. The event must belong to the organizer; a
// miss reads as not-found so callers cannot probe for other organizers'
// events. Provisioning runs first so the seat lookup has a grid to hit.
func (s *TicketService) Create(ctx context.Context, organizerID, eventID uuid.UUID, seatLabel string, price float64) (*domain.Ticket, error) {
	event, err := s.store.GetEventOwned(ctx, organizerID, eventID)
	if err != nil {
		return nil, err
	}
	if !domain.ValidPrice(price) {
		return nil, errors.Wrap(domain.ErrInvalidInput, "price must be a finite non-negative number")
	}

	label, err := domain.ParseSeatLabel(seatLabel)
	if err != nil {
		return nil, err
	}

	if err := s.provisioner.EnsureSeats(ctx, event.VenueID); err != nil {
		return nil, err
	}

	seats, err := s.store.FindSeats(ctx, event.VenueID, label.Row, label.Number)
	if err != nil {
		return nil, err
	}
	switch {
	case len(seats) == 0:
		return nil, errors.Wrapf(domain.ErrNotFound, "seat %q not found", seatLabel)
	case len(seats) > 1:
		return nil, errors.Wrapf(domain.ErrInvalidInput, "seat %q is ambiguous, specify a row", seatLabel)
	}

	ticket := domain.Ticket{
		ID:      uuid.New(),
		EventID: eventID,
		SeatID:  seats[0].ID,
		Price:   price,
		Status:  domain.TicketAvailable,
	}
	if err := s.store.InsertTicket(ctx, ticket); err != nil {
		return nil, err
	}

	if s.audit != nil {
		if err := s.audit.LogTicketCreated(context.WithoutCancel(ctx), organizerID, ticket); err != nil {
			s.logger.Warn("audit write failed for ticket ", ticket.ID)
		}
	}
	return &ticket, nil
}

// ListFilter is the client-facing query; limits are clamped here so the
// store never sees a non-positive page.
type ListFilter struct {
	EventID uuid.UUID
	Status  string
	Limit   int
	Offset  int
}

func (s *TicketService) List(ctx context.Context, filter ListFilter) ([]domain.Ticket, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultTicketLimit
	}
	if filter.Limit > maxTicketLimit {
		filter.Limit = maxTicketLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	var status domain.TicketStatus
	if filter.Status != "" {
		status = domain.TicketStatus(filter.Status)
		if status != domain.TicketAvailable && status != domain.TicketSold {
			return nil, errors.Wrapf(domain.ErrInvalidInput, "unknown ticket status %q", filter.Status)
		}
	}

	return s.store.ListTickets(ctx, crdb.TicketFilter{
		EventID: filter.EventID,
		Status:  status,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	})
}

func (s *TicketService) Get(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	return s.store.GetTicket(ctx, id)
}

// Update applies a partial update over the allow-listed fields only.
func (s *TicketService) Update(ctx context.Context, id uuid.UUID, price *float64, status *string) error {
	if price == nil && status == nil {
		return errors.Wrap(domain.ErrInvalidInput, "nothing to update")
	}
	if price != nil && !domain.ValidPrice(*price) {
		return errors.Wrap(domain.ErrInvalidInput, "price must be a finite non-negative number")
	}

	var ts *domain.TicketStatus
	if status != nil {
		v := domain.TicketStatus(*status)
		if v != domain.TicketAvailable && v != domain.TicketSold {
			return errors.Wrapf(domain.ErrInvalidInput, "unknown ticket status %q", *status)
		}
		ts = &v
	}
	return s.store.UpdateTicket(ctx, id, price, ts)
}

// Delete requires the caller to organize the ticket's event.
func (s *TicketService) Delete(ctx context.Context, organizerID, id uuid.UUID) error {
	return s.store.DeleteTicketOwned(ctx, organizerID, id)
}

// AvailableSeats lists the event venue's seats not yet ticketed for that
// event, after making sure the grid exists.
func (s *TicketService) AvailableSeats(ctx context.Context, organizerID, eventID uuid.UUID) ([]domain.Seat, error) {
	event, err := s.store.GetEventOwned(ctx, organizerID, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.provisioner.EnsureSeats(ctx, event.VenueID); err != nil {
		return nil, err
	}
	return s.store.AvailableSeats(ctx, eventID)
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/robertarktes/ticketing-platform/internal/adapters/crdb"
	"github.com/robertarktes/ticketing-platform/internal/domain"
)

type eventStore interface {
	GetVenue(ctx context.Context, id uuid.UUID) (*domain.Venue, error)
	InsertEvent(ctx context.Context, event domain.Event) error
	GetEventOwned(ctx context.Context, organizerID, eventID uuid.UUID) (*domain.Event, error)
	ListEventsByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]domain.Event, error)
	ListUpcomingEvents(ctx context.Context, now time.Time) ([]domain.Event, error)
	UpdateEventOwned(ctx context.Context, organizerID, eventID uuid.UUID, update crdb.EventUpdate) error
	DeleteEventOwned(ctx context.Context, organizerID, eventID uuid.UUID) error
}

type EventService struct {
	store eventStore
	now   func() time.Time
}

func NewEventService(store eventStore) *EventService {
	return &EventService{store: store, now: time.Now}
}

type CreateEventInput struct {
	VenueID       uuid.UUID
	Title         string
	Description   string
	StartTime     time.Time
	EndTime       time.Time
	StandardPrice float64
}

func (s *EventService) Create(ctx context.Context, organizerID uuid.UUID, in CreateEventInput) (*domain.Event, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, errors.Wrap(domain.ErrInvalidInput, "title is required")
	}
	if in.StartTime.IsZero() || in.EndTime.IsZero() || !in.EndTime.After(in.StartTime) {
		return nil, errors.Wrap(domain.ErrInvalidInput, "end time must follow start time")
	}
	if !domain.ValidPrice(in.StandardPrice) {
		return nil, errors.Wrap(domain.ErrInvalidInput, "standard price must be a finite non-negative number")
	}
	if _, err := s.store.GetVenue(ctx, in.VenueID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errors.Wrap(domain.ErrInvalidInput, "venue does not exist")
		}
		return nil, err
	}

	event := domain.Event{
		ID:            uuid.New(),
		OrganizerID:   organizerID,
		VenueID:       in.VenueID,
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		StandardPrice: in.StandardPrice,
		Status:        domain.EventScheduled,
	}
	if err := s.store.InsertEvent(ctx, event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *EventService) Get(ctx context.Context, organizerID, eventID uuid.UUID) (*domain.Event, error) {
	return s.store.GetEventOwned(ctx, organizerID, eventID)
}

func (s *EventService) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]domain.Event, error) {
	return s.store.ListEventsByOrganizer(ctx, organizerID)
}

func (s *EventService) ListUpcoming(ctx context.Context) ([]domain.Event, error) {
	return s.store.ListUpcomingEvents(ctx, s.now())
}

// Update validates the allow-listed fields; arbitrary request keys never
// reach the store.
func (s *EventService) Update(ctx context.Context, organizerID, eventID uuid.UUID, update crdb.EventUpdate) error {
	if update.Empty() {
		return errors.Wrap(domain.ErrInvalidInput, "nothing to update")
	}
	if update.StandardPrice != nil && !domain.ValidPrice(*update.StandardPrice) {
		return errors.Wrap(domain.ErrInvalidInput, "standard price must be a finite non-negative number")
	}
	if update.Status != nil {
		switch *update.Status {
		case domain.EventScheduled, domain.EventCancelled, domain.EventCompleted:
		default:
			return errors.Wrapf(domain.ErrInvalidInput, "unknown event status %q", *update.Status)
		}
	}
	if update.StartTime != nil && update.EndTime != nil && !update.EndTime.After(*update.StartTime) {
		return errors.Wrap(domain.ErrInvalidInput, "end time must follow start time")
	}
	return s.store.UpdateEventOwned(ctx, organizerID, eventID, update)
}

func (s *EventService) Cancel(ctx context.Context, organizerID, eventID uuid.UUID) error {
	status := domain.EventCancelled
	return s.store.UpdateEventOwned(ctx, organizerID, eventID, crdb.EventUpdate{Status: &status})
}

func (s *EventService) Delete(ctx context.Context, organizerID, eventID uuid.UUID) error {
	return s.store.DeleteEventOwned(ctx, organizerID, eventID)
}

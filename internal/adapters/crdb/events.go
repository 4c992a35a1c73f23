package crdb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/robertarktes/ticketing-platform/internal/domain"
)

// EventUpdate is the allow-list of organizer-mutable event fields. Anything
// not represented here cannot be changed through the API.
type EventUpdate struct {
	Title         *string
	Description   *string
	StartTime     *time.Time
	EndTime       *time.Time
	StandardPrice *float64
	Status        *domain.EventStatus
}

func (u EventUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.StartTime == nil &&
		u.EndTime == nil && u.StandardPrice == nil && u.Status == nil
}

func (r *Repository) InsertEvent(ctx context.Context, event domain.Event) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO events (id, organizer_id, venue_id, title, description,
		                    start_time, end_time, standard_price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, event.ID, event.OrganizerID, event.VenueID, event.Title, event.Description,
		event.StartTime, event.EndTime, event.StandardPrice, event.Status)
	return err
}

// GetEventOwned hides events the caller does not organize behind ErrNotFound.
func (r *Repository) GetEventOwned(ctx context.Context, organizerID, eventID uuid.UUID) (*domain.Event, error) {
	var e domain.Event
	err := r.pool.QueryRow(ctx, `
		SELECT id, organizer_id, venue_id, title, description,
		       start_time, end_time, standard_price, status
		FROM events WHERE id = $1 AND organizer_id = $2
	`, eventID, organizerID).Scan(&e.ID, &e.OrganizerID, &e.VenueID, &e.Title, &e.Description,
		&e.StartTime, &e.EndTime, &e.StandardPrice, &e.Status)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repository) ListEventsByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]domain.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, organizer_id, venue_id, title, description,
		       start_time, end_time, standard_price, status
		FROM events WHERE organizer_id = $1 ORDER BY start_time
	`, organizerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *Repository) ListUpcomingEvents(ctx context.Context, now time.Time) ([]domain.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, organizer_id, venue_id, title, description,
		       start_time, end_time, standard_price, status
		FROM events WHERE status = $1 AND end_time > $2 ORDER BY start_time
	`, domain.EventScheduled, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows pgx.Rows) ([]domain.Event, error) {
	events := []domain.Event{}
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.OrganizerID, &e.VenueID, &e.Title, &e.Description,
			&e.StartTime, &e.EndTime, &e.StandardPrice, &e.Status); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *Repository) UpdateEventOwned(ctx context.Context, organizerID, eventID uuid.UUID, update EventUpdate) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE events
		SET title          = COALESCE($3, title),
		    description    = COALESCE($4, description),
		    start_time     = COALESCE($5, start_time),
		    end_time       = COALESCE($6, end_time),
		    standard_price = COALESCE($7, standard_price),
		    status         = COALESCE($8, status)
		WHERE id = $1 AND organizer_id = $2
	`, eventID, organizerID, update.Title, update.Description, update.StartTime,
		update.EndTime, update.StandardPrice, update.Status)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteEventOwned(ctx context.Context, organizerID, eventID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM events WHERE id = $1 AND organizer_id = $2
	`, eventID, organizerID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CompletePastEvents flips Scheduled events whose end time has passed and
// returns the ids it touched, for downstream publishing.
func (r *Repository) CompletePastEvents(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		UPDATE events SET status = $1
		WHERE status = $2 AND end_time <= $3
		RETURNING id
	`, domain.EventCompleted, domain.EventScheduled, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

package crdb

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/robertarktes/ticketing-platform/internal/domain"
)

// TicketFilter narrows List; zero values mean "no filter". Limit and Offset
// are clamped by the service layer.
type TicketFilter struct {
	EventID uuid.UUID
	Status  domain.TicketStatus
	Limit   int
	Offset  int
}

// InsertTicket relies on UNIQUE (event_id, seat_id): a second listing of the
// same seat surfaces as ErrConflict rather than a generic storage failure.
func (r *Repository) InsertTicket(ctx context.Context, ticket domain.Ticket) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO tickets (id, event_id, seat_id, price, status)
		VALUES ($1, $2, $3, $4, $5)
	`, ticket.ID, ticket.EventID, ticket.SeatID, ticket.Price, ticket.Status)
	if isUniqueViolation(err) {
		return errors.Wrap(domain.ErrConflict, "seat already listed")
	}
	return err
}

func (r *Repository) GetTicket(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	var t domain.Ticket
	err := r.pool.QueryRow(ctx, `
		SELECT id, event_id, seat_id, price, status, order_id
		FROM tickets WHERE id = $1
	`, id).Scan(&t.ID, &t.EventID, &t.SeatID, &t.Price, &t.Status, &t.OrderID)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repository) ListTickets(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	query := `
		SELECT id, event_id, seat_id, price, status, order_id
		FROM tickets WHERE 1=1
	`
	args := []interface{}{}
	if filter.EventID != uuid.Nil {
		args = append(args, filter.EventID)
		query += ` AND event_id = $1`
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		if len(args) == 1 {
			query += ` AND status = $1`
		} else {
			query += ` AND status = $2`
		}
	}
	switch len(args) {
	case 0:
		query += ` ORDER BY id ASC LIMIT $1 OFFSET $2`
	case 1:
		query += ` ORDER BY id ASC LIMIT $2 OFFSET $3`
	case 2:
		query += ` ORDER BY id ASC LIMIT $3 OFFSET $4`
	}
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := []domain.Ticket{}
	for rows.Next() {
		var t domain.Ticket
		if err := rows.Scan(&t.ID, &t.EventID, &t.SeatID, &t.Price, &t.Status, &t.OrderID); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// UpdateTicket applies the allow-listed partial update. Nil pointers leave
// the column untouched.
func (r *Repository) UpdateTicket(ctx context.Context, id uuid.UUID, price *float64, status *domain.TicketStatus) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE tickets
		SET price  = COALESCE($2, price),
		    status = COALESCE($3, status)
		WHERE id = $1
	`, id, price, status)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteTicketOwned removes a ticket only when the caller organizes its
// event. A miss reads the same as a missing ticket.
func (r *Repository) DeleteTicketOwned(ctx context.Context, organizerID, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM tickets t
		USING events e
		WHERE t.id = $1 AND t.event_id = e.id AND e.organizer_id = $2
	`, id, organizerID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

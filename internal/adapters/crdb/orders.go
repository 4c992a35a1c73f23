package crdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/robertarktes/ticketing-platform/internal/domain"
)

// LockTickets reads the requested tickets under FOR UPDATE. The lock scope is
// exactly the requested id set; competing purchases for any shared id block
// here until the holding transaction ends.
func (r *Repository) LockTickets(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) ([]domain.Ticket, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, event_id, seat_id, price, status, order_id
		FROM tickets WHERE id = ANY($1) FOR UPDATE
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []domain.Ticket
	for rows.Next() {
		var t domain.Ticket
		if err := rows.Scan(&t.ID, &t.EventID, &t.SeatID, &t.Price, &t.Status, &t.OrderID); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func (r *Repository) InsertOrder(ctx context.Context, tx pgx.Tx, order domain.Order) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO orders (id, user_id, amount, status)
		VALUES ($1, $2, $3, $4)
	`, order.ID, order.UserID, order.Amount, order.Status)
	return err
}

func (r *Repository) InsertPayment(ctx context.Context, tx pgx.Tx, payment domain.Payment) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO payments (id, order_id, method, amount, status)
		VALUES ($1, $2, $3, $4, $5)
	`, payment.ID, payment.OrderID, payment.Method, payment.Amount, payment.Status)
	return err
}

// MarkTicketsSold flips the locked tickets to Sold and back-references the
// order. Only called on rows already locked by LockTickets in the same
// transaction.
func (r *Repository) MarkTicketsSold(ctx context.Context, tx pgx.Tx, ids []uuid.UUID, orderID uuid.UUID) error {
	result, err := tx.Exec(ctx, `
		UPDATE tickets SET status = $2, order_id = $3 WHERE id = ANY($1)
	`, ids, domain.TicketSold, orderID)
	if err != nil {
		return err
	}
	if int(result.RowsAffected()) != len(ids) {
		return domain.ErrNotFound
	}
	return nil
}

// GetOrderDetails fetches an order scoped to its owner, together with its
// tickets (joined with seat and event info) and its payment record.
func (r *Repository) GetOrderDetails(ctx context.Context, userID, orderID uuid.UUID) (*domain.OrderDetails, error) {
	var details domain.OrderDetails
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, amount, status, created_at
		FROM orders WHERE id = $1 AND user_id = $2
	`, orderID, userID).Scan(
		&details.Order.ID, &details.Order.UserID, &details.Order.Amount,
		&details.Order.Status, &details.Order.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT t.id, t.event_id, t.seat_id, t.price, t.status, t.order_id,
		       s.row_label, s.seat_number, e.title
		FROM tickets t
		JOIN seats s ON t.seat_id = s.id
		JOIN events e ON t.event_id = e.id
		WHERE t.order_id = $1
		ORDER BY s.row_label, s.seat_number
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ot domain.OrderTicket
		if err := rows.Scan(&ot.ID, &ot.EventID, &ot.SeatID, &ot.Price, &ot.Status, &ot.OrderID,
			&ot.RowLabel, &ot.SeatNumber, &ot.EventTitle); err != nil {
			return nil, err
		}
		details.Tickets = append(details.Tickets, ot)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = r.pool.QueryRow(ctx, `
		SELECT id, order_id, method, amount, status
		FROM payments WHERE order_id = $1
	`, orderID).Scan(
		&details.Payment.ID, &details.Payment.OrderID, &details.Payment.Method,
		&details.Payment.Amount, &details.Payment.Status,
	)
	if err != nil && err != pgx.ErrNoRows {
		return nil, err
	}
	return &details, nil
}

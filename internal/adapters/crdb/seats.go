package crdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/robertarktes/ticketing-platform/internal/domain"
	"golang.org/x/sync/errgroup"
)

func (r *Repository) CountSeats(ctx context.Context, venueID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM seats s
		JOIN sections sec ON s.section_id = sec.id
		WHERE sec.venue_id = $1
	`, venueID).Scan(&n)
	return n, err
}

// EnsureSection upserts the named section for a venue and returns its id.
// UNIQUE (venue_id, name) makes concurrent callers converge on one row:
// the insert is a no-op for the loser and the re-select sees the winner's row.
func (r *Repository) EnsureSection(ctx context.Context, venueID uuid.UUID, name string, capacity int) (uuid.UUID, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sections (id, venue_id, name, capacity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (venue_id, name) DO NOTHING
	`, uuid.New(), venueID, name, capacity)
	if err != nil {
		return uuid.Nil, err
	}

	var id uuid.UUID
	err = r.pool.QueryRow(ctx, `
		SELECT id FROM sections WHERE venue_id = $1 AND name = $2
	`, venueID, name).Scan(&id)
	if err == pgx.ErrNoRows {
		return uuid.Nil, domain.ErrNotFound
	}
	return id, err
}

// BulkInsertSeats writes the seat grid in parallel per-row batches. The seats
// table's UNIQUE (section_id, row_label, seat_number) plus DO NOTHING keeps a
// racing provisioner from duplicating any seat.
func (r *Repository) BulkInsertSeats(ctx context.Context, seats []domain.Seat) error {
	byRow := make(map[string][]domain.Seat)
	for _, s := range seats {
		byRow[s.RowLabel] = append(byRow[s.RowLabel], s)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, batch := range byRow {
		batch := batch
		g.Go(func() error {
			b := &pgx.Batch{}
			for _, s := range batch {
				b.Queue(`
					INSERT INTO seats (id, section_id, row_label, seat_number)
					VALUES ($1, $2, $3, $4)
					ON CONFLICT (section_id, row_label, seat_number) DO NOTHING
				`, s.ID, s.SectionID, s.RowLabel, s.SeatNumber)
			}
			return r.pool.SendBatch(gctx, b).Close()
		})
	}
	return g.Wait()
}

// FindSeats resolves a parsed seat label within a venue. Row is optional;
// bare-number labels may match several rows, which the caller rejects.
func (r *Repository) FindSeats(ctx context.Context, venueID uuid.UUID, row string, number int) ([]domain.Seat, error) {
	query := `
		SELECT s.id, s.section_id, s.row_label, s.seat_number
		FROM seats s
		JOIN sections sec ON s.section_id = sec.id
		WHERE sec.venue_id = $1 AND s.seat_number = $2
	`
	args := []interface{}{venueID, number}
	if row != "" {
		query += ` AND s.row_label = $3`
		args = append(args, row)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []domain.Seat
	for rows.Next() {
		var s domain.Seat
		if err := rows.Scan(&s.ID, &s.SectionID, &s.RowLabel, &s.SeatNumber); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

// AvailableSeats lists seats of the event's venue with no ticket yet for that
// event.
func (r *Repository) AvailableSeats(ctx context.Context, eventID uuid.UUID) ([]domain.Seat, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.id, s.section_id, s.row_label, s.seat_number
		FROM seats s
		JOIN sections sec ON s.section_id = sec.id
		JOIN events e ON e.venue_id = sec.venue_id
		WHERE e.id = $1
		  AND NOT EXISTS (
			SELECT 1 FROM tickets t WHERE t.event_id = e.id AND t.seat_id = s.id
		  )
		ORDER BY s.row_label, s.seat_number
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []domain.Seat
	for rows.Next() {
		var s domain.Seat
		if err := rows.Scan(&s.ID, &s.SectionID, &s.RowLabel, &s.SeatNumber); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

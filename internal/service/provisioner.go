package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/robertarktes/ticketing-platform/internal/domain"
	"github.com/robertarktes/ticketing-platform/internal/observability"
)

const (
	autoSectionName = "Auto Generated"
	gridRows        = 26 // A..Z
	gridSeatsPerRow = 10
	autoCapacity    = gridRows * gridSeatsPerRow
)

type seatStore interface {
	CountSeats(ctx context.Context, venueID uuid.UUID) (int, error)
	EnsureSection(ctx context.Context, venueID uuid.UUID, name string, capacity int) (uuid.UUID, error)
	BulkInsertSeats(ctx context.Context, seats []domain.Seat) error
}

// Provisioner lazily generates a venue's default seat grid the first time a
// ticket references it.
type Provisioner struct {
	store  seatStore
	logger observability.Logger
}

func NewProvisioner(store seatStore, logger observability.Logger) *Provisioner {
	return &Provisioner{store: store, logger: logger}
}

// EnsureSeats is idempotent: a venue with any seats is left untouched.
// Concurrent callers are safe; the section upsert and the seats' unique
// constraint converge on a single grid rather than relying on check-then-act
// ordering.
func (p *Provisioner) EnsureSeats(ctx context.Context, venueID uuid.UUID) error {
	n, err := p.store.CountSeats(ctx, venueID)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	sectionID, err := p.store.EnsureSection(ctx, venueID, autoSectionName, autoCapacity)
	if err != nil {
		return err
	}

	seats := make([]domain.Seat, 0, autoCapacity)
	for row := 0; row < gridRows; row++ {
		label := string(rune('A' + row))
		for num := 1; num <= gridSeatsPerRow; num++ {
			seats = append(seats, domain.Seat{
				ID:         uuid.New(),
				SectionID:  sectionID,
				RowLabel:   label,
				SeatNumber: num,
			})
		}
	}
	if err := p.store.BulkInsertSeats(ctx, seats); err != nil {
		return err
	}

	observability.SeatsProvisioned.Add(float64(len(seats)))
	p.logger.WithField("venue_id", venueID).Info("provisioned default seat grid")
	return nil
}

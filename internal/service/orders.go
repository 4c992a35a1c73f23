package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/robertarktes/ticketing-platform/internal/adapters/crdb"
	"github.com/robertarktes/ticketing-platform/internal/domain"
	"github.com/robertarktes/ticketing-platform/internal/observability"
)

type orderStore interface {
	WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error
	LockTickets(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) ([]domain.Ticket, error)
	InsertOrder(ctx context.Context, tx pgx.Tx, order domain.Order) error
	InsertPayment(ctx context.Context, tx pgx.Tx, payment domain.Payment) error
	MarkTicketsSold(ctx context.Context, tx pgx.Tx, ids []uuid.UUID, orderID uuid.UUID) error
	InsertOutbox(ctx context.Context, tx pgx.Tx, record crdb.OutboxRecord) error
	GetOrderDetails(ctx context.Context, userID, orderID uuid.UUID) (*domain.OrderDetails, error)
}

type orderAuditor interface {
	LogOrderPlaced(ctx context.Context, order domain.Order, ticketIDs []uuid.UUID) error
}

// Receipt is what a successful purchase returns to the client.
type Receipt struct {
	OrderID uuid.UUID
	Amount  float64
}

// OrderService is the purchase transaction engine. Correctness under
// concurrent purchases relies entirely on the store's row locks: two requests
// sharing a ticket id serialize on LockTickets, and the loser sees the ticket
// as Sold.
type OrderService struct {
	store   orderStore
	audit   orderAuditor
	logger  observability.Logger
	timeout time.Duration
}

func NewOrderService(store orderStore, audit orderAuditor, logger observability.Logger, timeout time.Duration) *OrderService {
	return &OrderService{store: store, audit: audit, logger: logger, timeout: timeout}
}

// PlaceOrder converts a set of ticket ids into a paid order, all or nothing.
// Input validation happens before any transaction opens; from the lock read
// onward every failure rolls back with no partial effect.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uuid.UUID, ticketIDs []uuid.UUID, payMethod string) (*Receipt, error) {
	if len(ticketIDs) == 0 {
		return nil, errors.Wrap(domain.ErrInvalidInput, "no tickets provided")
	}
	ids := dedupe(ticketIDs)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var order domain.Order
	err := s.store.WithTx(ctx, func(tx pgx.Tx) error {
		locked, err := s.store.LockTickets(ctx, tx, ids)
		if err != nil {
			return err
		}
		if len(locked) != len(ids) {
			return errors.Wrap(domain.ErrNotFound, "some tickets not found")
		}
		for _, t := range locked {
			if t.Status != domain.TicketAvailable {
				return errors.Wrapf(domain.ErrConflict, "ticket %s unavailable (%s)", t.ID, t.Status)
			}
		}

		order = domain.NewOrder(userID, locked)
		if err := s.store.InsertOrder(ctx, tx, order); err != nil {
			return err
		}
		payment := domain.NewPayment(order.ID, payMethod, order.Amount)
		if err := s.store.InsertPayment(ctx, tx, payment); err != nil {
			return err
		}
		if err := s.store.MarkTicketsSold(ctx, tx, ids, order.ID); err != nil {
			return err
		}

		payload, _ := json.Marshal(map[string]interface{}{
			"order_id": order.ID,
			"user_id":  userID,
			"amount":   order.Amount,
			"tickets":  ids,
		})
		return s.store.InsertOutbox(ctx, tx, crdb.OutboxRecord{
			ID:            uuid.New(),
			AggregateType: "order",
			AggregateID:   order.ID,
			EventType:     "order.placed",
			Payload:       payload,
			DedupeKey:     order.ID.String(),
		})
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			observability.PurchaseConflicts.Inc()
		}
		return nil, err
	}

	observability.OrdersPlaced.Inc()
	if s.audit != nil {
		if err := s.audit.LogOrderPlaced(context.WithoutCancel(ctx), order, ids); err != nil {
			s.logger.Warn("audit write failed for order ", order.ID)
		}
	}
	return &Receipt{OrderID: order.ID, Amount: order.Amount}, nil
}

// GetOrder returns an order with its tickets and payment, scoped to the
// requesting user.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*domain.OrderDetails, error) {
	return s.store.GetOrderDetails(ctx, userID, orderID)
}

// dedupe collapses repeated ids so a doubled id cannot masquerade as a
// missing ticket in the lock-count check.
func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robertarktes/ticketing-platform/internal/domain"
	"github.com/robertarktes/ticketing-platform/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AuditLogger appends an immutable trail of platform actions to Mongo. Audit
// writes are best effort and never fail the calling request.
type AuditLogger struct {
	coll   *mongo.Collection
	logger observability.Logger
}

func NewAuditLogger(db *mongo.Database, logger observability.Logger) *AuditLogger {
	return &AuditLogger{
		coll:   db.Collection("audit_logs"),
		logger: logger,
	}
}

type AuditLog struct {
	ID        uuid.UUID `bson:"_id"`
	Action    string    `bson:"action"`
	UserID    uuid.UUID `bson:"user_id"`
	Timestamp time.Time `bson:"timestamp"`
	Data      bson.M    `bson:"data"`
}

func (a *AuditLogger) LogAction(ctx context.Context, action string, userID uuid.UUID, data map[string]interface{}) error {
	log := AuditLog{
		ID:        uuid.New(),
		Action:    action,
		UserID:    userID,
		Timestamp: time.Now(),
		Data:      bson.M(data),
	}
	_, err := a.coll.InsertOne(ctx, log)
	if err != nil {
		a.logger.Error("failed to insert audit log", err)
		return err
	}
	return nil
}

func (a *AuditLogger) LogOrderPlaced(ctx context.Context, order domain.Order, ticketIDs []uuid.UUID) error {
	data := map[string]interface{}{
		"order_id": order.ID,
		"amount":   order.Amount,
		"tickets":  ticketIDs,
	}
	return a.LogAction(ctx, "order.placed", order.UserID, data)
}

func (a *AuditLogger) LogTicketCreated(ctx context.Context, organizerID uuid.UUID, ticket domain.Ticket) error {
	data := map[string]interface{}{
		"ticket_id": ticket.ID,
		"event_id":  ticket.EventID,
		"seat_id":   ticket.SeatID,
		"price":     ticket.Price,
	}
	return a.LogAction(ctx, "ticket.created", organizerID, data)
}

func (a *AuditLogger) LogUserRegistered(ctx context.Context, user domain.User) error {
	data := map[string]interface{}{
		"email": user.Email,
		"role":  user.Role,
	}
	return a.LogAction(ctx, "user.registered", user.ID, data)
}

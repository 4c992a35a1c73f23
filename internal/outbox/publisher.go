package outbox

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robertarktes/ticketing-platform/internal/adapters/crdb"
	"github.com/robertarktes/ticketing-platform/internal/adapters/rabbit"
	"github.com/robertarktes/ticketing-platform/internal/observability"
)

// Publisher drains NEW outbox rows to RabbitMQ. Rows are claimed with SKIP
// LOCKED so several publishers can run without double-sending.
type Publisher struct {
	repo      *crdb.Repository
	rabbitPub *rabbit.Publisher
	logger    observability.Logger
}

func NewPublisher(repo *crdb.Repository, rabbitPub *rabbit.Publisher, logger observability.Logger) *Publisher {
	return &Publisher{repo: repo, rabbitPub: rabbitPub, logger: logger}
}

func (p *Publisher) Run(ctx context.Context, interval time.Duration, batchSize int) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if lag, err := p.repo.OldestUnpublishedAge(ctx, now); err == nil {
				observability.OutboxLag.Set(lag.Seconds())
			}

			records, err := p.repo.GetUnpublishedOutbox(ctx, batchSize)
			if err != nil {
				p.logger.Error("failed to read outbox", err)
				continue
			}
			for _, rec := range records {
				msg := amqp.Publishing{
					MessageId:   rec.DedupeKey,
					ContentType: "application/json",
					Body:        rec.Payload,
				}
				if err := p.rabbitPub.Publish(ctx, rec.EventType, msg); err != nil {
					p.logger.Error("failed to publish outbox record ", rec.ID, err)
					continue
				}
				if err := p.repo.MarkPublished(ctx, rec.ID, time.Now()); err != nil {
					p.logger.Error("failed to mark outbox record published ", rec.ID, err)
				}
			}
		}
	}
}

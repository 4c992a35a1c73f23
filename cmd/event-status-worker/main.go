package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robertarktes/ticketing-platform/internal/adapters/crdb"
	"github.com/robertarktes/ticketing-platform/internal/adapters/rabbit"
	"github.com/robertarktes/ticketing-platform/internal/config"
	"github.com/robertarktes/ticketing-platform/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	shutdownOtel, err := observability.SetupOTel(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to setup otel: %v", err)
	}
	defer shutdownOtel()

	logger := observability.NewLogger()

	pool, err := pgxpool.New(context.Background(), cfg.CRDBDSN)
	if err != nil {
		log.Fatalf("failed to connect to crdb: %v", err)
	}
	defer pool.Close()
	repo := crdb.NewRepository(pool)

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer conn.Close()
	rabbitPub, err := rabbit.NewPublisher(conn)
	if err != nil {
		log.Fatalf("failed to create publisher: %v", err)
	}

	worker := NewStatusWorker(repo, rabbitPub, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go worker.Run(ctx, time.Minute)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("Shutdown event status worker")
}

// StatusWorker flips Scheduled events past their end time to Completed and
// announces each transition.
type StatusWorker struct {
	repo      *crdb.Repository
	rabbitPub *rabbit.Publisher
	logger    observability.Logger
}

func NewStatusWorker(repo *crdb.Repository, rabbitPub *rabbit.Publisher, logger observability.Logger) *StatusWorker {
	return &StatusWorker{repo: repo, rabbitPub: rabbitPub, logger: logger}
}

func (w *StatusWorker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			ids, err := w.repo.CompletePastEvents(ctx, now)
			if err != nil {
				w.logger.Error("failed to complete past events", err)
				continue
			}
			for _, id := range ids {
				if err := w.publishWithRetry(ctx, id); err != nil {
					w.logger.Error("failed to publish event completion after retries", err)
				}
			}
		}
	}
}

func (w *StatusWorker) publishWithRetry(ctx context.Context, eventID uuid.UUID) error {
	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		payload, _ := json.Marshal(map[string]interface{}{"event_id": eventID})
		msg := amqp.Publishing{
			MessageId:   uuid.New().String(),
			ContentType: "application/json",
			Body:        payload,
		}
		err := w.rabbitPub.Publish(ctx, "event.completed", msg)
		if err == nil {
			return nil
		}

		backoff := time.Duration(1<<i) * time.Second
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("failed after %d retries", maxRetries)
}

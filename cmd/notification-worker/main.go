package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robertarktes/ticketing-platform/internal/adapters/rabbit"
	"github.com/robertarktes/ticketing-platform/internal/config"
	"github.com/robertarktes/ticketing-platform/internal/observability"
)

// Consumes order.placed events and emits purchase confirmations. Delivery of
// the actual message (email, push) is left to the channel integrations; this
// worker owns the queue and the ack discipline.
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

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer conn.Close()

	consumer, err := rabbit.NewConsumer(conn, "order-confirmations", "order.placed")
	if err != nil {
		log.Fatalf("failed to create consumer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deliveries, err := consumer.Consume(ctx)
	if err != nil {
		log.Fatalf("failed to start consuming: %v", err)
	}

	go func() {
		for d := range deliveries {
			var evt struct {
				OrderID string  `json:"order_id"`
				UserID  string  `json:"user_id"`
				Amount  float64 `json:"amount"`
			}
			if err := json.Unmarshal(d.Body, &evt); err != nil {
				logger.Error("malformed order.placed payload: ", err)
				d.Nack(false, false)
				continue
			}
			logger.WithField("order_id", evt.OrderID).Info("confirmation queued for user ", evt.UserID)
			d.Ack(false)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("Shutdown notification worker")
}

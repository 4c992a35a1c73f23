package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redisclient "github.com/redis/go-redis/v9"
	"github.com/robertarktes/ticketing-platform/internal/adapters/crdb"
	mongoadapter "github.com/robertarktes/ticketing-platform/internal/adapters/mongo"
	redisadapter "github.com/robertarktes/ticketing-platform/internal/adapters/redis"
	"github.com/robertarktes/ticketing-platform/internal/config"
	httphandler "github.com/robertarktes/ticketing-platform/internal/http"
	"github.com/robertarktes/ticketing-platform/internal/idempotency"
	"github.com/robertarktes/ticketing-platform/internal/observability"
	"github.com/robertarktes/ticketing-platform/internal/rateLimit"
	"github.com/robertarktes/ticketing-platform/internal/service"
	"github.com/robertarktes/ticketing-platform/internal/session"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	shutdown, err := observability.SetupOTel(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to setup otel: %v", err)
	}
	defer shutdown()

	logger := observability.NewLogger()

	pool, err := pgxpool.New(context.Background(), cfg.CRDBDSN)
	if err != nil {
		log.Fatalf("failed to connect to crdb: %v", err)
	}
	defer pool.Close()
	repo := crdb.NewRepository(pool)

	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("failed to connect to mongo: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())
	audit := mongoadapter.NewAuditLogger(mongoClient.Database("ticketing"), logger)

	redisClient := redisclient.NewClient(&redisclient.Options{Addr: cfg.RedisAddr})
	redisCache := redisadapter.NewCache(redisClient)
	sessions := session.NewStore(redisadapter.NewSessions(redisClient), cfg.SessionTTL)
	idemp := idempotency.NewIdempotency(redisadapter.NewIdempotency(redisClient), cfg.IdempotencyTTL)
	rl := rateLimit.NewRateLimiter(redisCache)

	provisioner := service.NewProvisioner(repo, logger)
	authSvc := service.NewAuthService(repo, audit, logger)
	eventSvc := service.NewEventService(repo)
	ticketSvc := service.NewTicketService(repo, provisioner, audit, logger)
	orderSvc := service.NewOrderService(repo, audit, logger, cfg.PurchaseTimeout)

	handlers := httphandler.NewHandlers(cfg, authSvc, eventSvc, ticketSvc, orderSvc, sessions, idemp, logger)
	r := httphandler.SetupRouter(handlers, logger, rl, sessions)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()
	logger.Info("API listening on ", cfg.HTTPAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}
	logger.Info("Server exiting")
}

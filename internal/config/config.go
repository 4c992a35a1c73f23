package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	CRDBDSN         string
	MongoURI        string
	RedisAddr       string
	RabbitURL       string
	HTTPAddr        string
	SessionTTL      time.Duration
	PurchaseTimeout time.Duration
	IdempotencyTTL  time.Duration
	UserRatePerMin  int
	IPRatePerMin    int
	OTLPEndpoint    string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		CRDBDSN:         os.Getenv("CRDB_DSN"),
		MongoURI:        os.Getenv("MONGO_URI"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RabbitURL:       os.Getenv("RABBIT_URL"),
		HTTPAddr:        envString("HTTP_ADDR", ":8080"),
		SessionTTL:      envDuration("SESSION_TTL", 24*time.Hour),
		PurchaseTimeout: envDuration("PURCHASE_TIMEOUT", 5*time.Second),
		IdempotencyTTL:  envDuration("IDEMPOTENCY_TTL", time.Hour),
		UserRatePerMin:  envInt("USER_RATE_PER_MIN", 60),
		IPRatePerMin:    envInt("IP_RATE_PER_MIN", 300),
		OTLPEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}, nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	d, _ := time.ParseDuration(os.Getenv(key))
	if d == 0 {
		return def
	}
	return d
}

func envInt(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

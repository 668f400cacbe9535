package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr     string
	ServiceName  string
	LogLevel     string
	PostgresDSN  string // empty: no catalog storage
	RedisAddr    string // empty: no cache / idempotency
	KafkaBrokers []string
	SeedFile     string

	LoyaltyPriorityThreshold int64
	ReverseLoyaltyOnCancel   bool

	CompletionGroup    string
	FulfillmentGroup   string
	FulfillmentWorkers int
	FulfillmentDelay   time.Duration
}

func Load() Config {
	return Config{
		HTTPAddr:     getenv("HTTP_ADDR", ":8081"),
		ServiceName:  getenv("SERVICE_NAME", "order-api"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		KafkaBrokers: splitCSV(os.Getenv("KAFKA_BROKERS")),
		SeedFile:     os.Getenv("SEED_FILE"),

		LoyaltyPriorityThreshold: getint64("LOYALTY_PRIORITY_THRESHOLD", 100),
		ReverseLoyaltyOnCancel:   getbool("REVERSE_LOYALTY_ON_CANCEL", false),

		CompletionGroup:    getenv("COMPLETION_GROUP", "order-api-completion"),
		FulfillmentGroup:   getenv("FULFILLMENT_GROUP", "fulfillment-svc"),
		FulfillmentWorkers: int(getint64("FULFILLMENT_WORKERS", 8)),
		FulfillmentDelay:   getduration("FULFILLMENT_DELAY", 2*time.Second),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint64(k string, def int64) int64 {
	n, err := strconv.ParseInt(os.Getenv(k), 10, 64)
	if err != nil {
		return def
	}
	return n
}

func getbool(k string, def bool) bool {
	b, err := strconv.ParseBool(os.Getenv(k))
	if err != nil {
		return def
	}
	return b
}

func getduration(k string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(k))
	if err != nil {
		return def
	}
	return d
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

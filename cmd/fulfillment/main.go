package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/ariefcatur/go-store-orders/internal/config"
	"github.com/ariefcatur/go-store-orders/internal/fulfillment"
	kafkax "github.com/ariefcatur/go-store-orders/internal/kafka"
	"github.com/ariefcatur/go-store-orders/internal/logx"
	"github.com/ariefcatur/go-store-orders/internal/orders"
	"github.com/ariefcatur/go-store-orders/internal/redisx"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logx.Setup(cfg.LogLevel)

	if len(cfg.KafkaBrokers) == 0 {
		log.Fatal().Msg("KAFKA_BROKERS is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Producer: completion signals back to the api
	prod := kafkax.NewProducer(cfg.KafkaBrokers, "", 1024)
	prod.Start(context.Background())

	svc := &fulfillment.Service{
		Sink:        prod,
		Delay:       cfg.FulfillmentDelay,
		ServiceName: cfg.ServiceName + "-fulfillment",
	}

	// Redis dedup is optional
	if cfg.RedisAddr != "" {
		rdb, err := redisx.New(ctx, cfg.RedisAddr)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis connect")
		}
		defer rdb.Close()
		svc.Dedup = &redisx.Dedup{RDB: rdb, Service: "fulfillment"}
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.FulfillmentGroup, orders.TopicOrderDispatched, cfg.FulfillmentWorkers)
	log.Info().
		Str("group", cfg.FulfillmentGroup).
		Str("topic", orders.TopicOrderDispatched).
		Int("workers", cfg.FulfillmentWorkers).
		Dur("delay", cfg.FulfillmentDelay).
		Msg("fulfillment consumer started")
	if err := cons.Start(ctx, svc.HandleOrderDispatched); err != nil {
		log.Error().Err(err).Msg("consumer exit")
	}

	log.Info().Msg("shutting down consumer...")
	prod.Close()
	prod.WaitClosed()
}

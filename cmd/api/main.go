package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-store-orders/internal/config"
	"github.com/ariefcatur/go-store-orders/internal/customers"
	"github.com/ariefcatur/go-store-orders/internal/engine"
	"github.com/ariefcatur/go-store-orders/internal/fulfillment"
	"github.com/ariefcatur/go-store-orders/internal/httpx"
	"github.com/ariefcatur/go-store-orders/internal/inventory"
	kafkax "github.com/ariefcatur/go-store-orders/internal/kafka"
	"github.com/ariefcatur/go-store-orders/internal/logx"
	"github.com/ariefcatur/go-store-orders/internal/metrics"
	"github.com/ariefcatur/go-store-orders/internal/orders"
	"github.com/ariefcatur/go-store-orders/internal/postgres"
	"github.com/ariefcatur/go-store-orders/internal/redisx"
	"github.com/ariefcatur/go-store-orders/internal/seed"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logx.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Catalog
	ledger := inventory.NewLedger()
	accounts := customers.NewStore(cfg.LoyaltyPriorityThreshold)
	if err := loadCatalog(ctx, cfg, ledger, accounts); err != nil {
		log.Fatal().Err(err).Msg("load catalog")
	}

	m := metrics.New("store")
	notifiers := []engine.Notifier{m}

	// Redis
	var (
		cache *redisx.StatusCache
		idem  *redisx.Idempotency
	)
	if cfg.RedisAddr != "" {
		rdb, err := redisx.New(ctx, cfg.RedisAddr)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis connect")
		}
		defer rdb.Close()
		cache = &redisx.StatusCache{RDB: rdb}
		idem = &redisx.Idempotency{RDB: rdb}
		notifiers = append(notifiers, cache)
	}

	// Kafka producer; lives past the signal so in-flight requests can publish
	var prod *kafkax.Producer
	if len(cfg.KafkaBrokers) > 0 {
		prod = kafkax.NewProducer(cfg.KafkaBrokers, "", 1024)
		prod.Start(context.Background())
		notifiers = append(notifiers, &kafkax.EventPublisher{Sink: prod, Service: cfg.ServiceName})
	}

	eng := engine.New(ledger, accounts,
		engine.WithNotifier(notifiers...),
		engine.WithPolicy(engine.Policy{ReverseLoyaltyOnCancel: cfg.ReverseLoyaltyOnCancel}),
	)
	m.WatchBacklog(eng)

	// Router & handlers
	router := httpx.NewRouter()
	router.Handle("/metrics", m.Handler())
	oh := &httpx.OrdersHandler{Engine: eng, Cache: cache, Idem: idem, Observer: m}
	oh.Register(router)
	ch := &httpx.CatalogHandler{Ledger: ledger, Accounts: accounts}
	ch.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down...")
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	// Completion signals from fulfillment
	if len(cfg.KafkaBrokers) > 0 {
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.CompletionGroup, orders.TopicOrderCompletion, 4)
		handler := &fulfillment.CompletionHandler{Engine: eng, OnReject: m.ObserveRejection}
		g.Go(func() error {
			log.Info().Str("group", cfg.CompletionGroup).Str("topic", orders.TopicOrderCompletion).Msg("completion consumer started")
			return cons.Start(gctx, handler.Handle)
		})
	}

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("exit")
	}
	if prod != nil {
		prod.Close()      // close inbox -> flush & close writer
		prod.WaitClosed() // drain
	}
}

func loadCatalog(ctx context.Context, cfg config.Config, ledger *inventory.Ledger, accounts *customers.Store) error {
	var cat seed.Catalog
	if cfg.SeedFile != "" {
		c, err := seed.LoadFile(cfg.SeedFile)
		if err != nil {
			return err
		}
		cat = cat.Merge(c)
	}
	if cfg.PostgresDSN != "" {
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		repo := &postgres.CatalogRepo{DB: db}
		ps, err := repo.ListProducts(ctx)
		if err != nil {
			return err
		}
		cs, err := repo.ListCustomers(ctx)
		if err != nil {
			return err
		}
		cat = cat.Merge(seed.Catalog{Products: ps, Customers: cs})
	}
	log.Info().Int("products", len(cat.Products)).Int("customers", len(cat.Customers)).Msg("catalog loaded")
	return cat.Apply(ledger, accounts)
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/ariefcatur/go-food-orders/internal/catalog"
	"github.com/ariefcatur/go-food-orders/internal/config"
	"github.com/ariefcatur/go-food-orders/internal/httpx"
	kafkax "github.com/ariefcatur/go-food-orders/internal/kafka"
	"github.com/ariefcatur/go-food-orders/internal/logging"
	"github.com/ariefcatur/go-food-orders/internal/metrics"
	"github.com/ariefcatur/go-food-orders/internal/orders"
	"github.com/ariefcatur/go-food-orders/internal/payments"
	"github.com/ariefcatur/go-food-orders/internal/postgres"
	"github.com/ariefcatur/go-food-orders/internal/redisx"
	"github.com/ariefcatur/go-food-orders/internal/tracing"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	tracing.Setup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Store
	var repo orders.Repository
	switch cfg.OrderStore {
	case config.StoreMemory:
		log.Warn("using in-memory order store; orders are lost on restart")
		repo = orders.NewMemoryRepo()
	default:
		db, err := postgres.Connect(ctx, cfg.PostgresDSN, cfg.ServiceName)
		if err != nil {
			log.Error("db connect", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.Error("db schema", "err", err)
			os.Exit(1)
		}
		repo = &orders.Repo{DB: db}
	}

	// Redis payment stream
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()
	if err := redisx.Ping(ctx, rdb); err != nil {
		log.Error("redis ping", "err", err)
		os.Exit(1)
	}
	queue := redisx.NewStreamQueue(rdb, cfg.Payment.Stream, cfg.Payment.Group, cfg.Payment.Consumer, cfg.Payment.VisibilityTimeout)
	if err := queue.EnsureGroup(ctx); err != nil {
		log.Error("payment consumer group", "err", err)
		os.Exit(1)
	}

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers)
	defer func() {
		if err := prod.Close(); err != nil {
			log.Warn("close kafka producer", "err", err)
		}
	}()

	products := catalog.NewClient(cfg.ProductsURL, cfg.CatalogTimeout, cfg.CatalogCacheSize)

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	serverMetrics := metrics.NewServerMetrics(reg, cfg.ServiceName)
	listenerMetrics := metrics.NewListenerMetrics(reg)

	// Handlers
	create := orders.NewCreateOrderHandler(repo, products, prod, cfg.OrderCreatedTopic, cfg.ServiceName)
	router := httpx.NewRouter(log, serverMetrics, reg)
	httpx.NewOrdersHandler(log, repo, create).Register(router)

	listener := payments.NewListener(log, queue, payments.NewEventHandler(repo), payments.ListenerConfig{
		Interval: cfg.Payment.PollInterval,
		Wait:     cfg.Payment.ReceiveWait,
		Batch:    cfg.Payment.ReceiveBatch,
	}, listenerMetrics)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("HTTP listening", "addr", cfg.HTTPAddr, "store", cfg.OrderStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return listener.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("order api stopped", "err", err)
		os.Exit(1)
	}
}

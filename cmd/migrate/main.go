package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-food-orders/internal/config"
	kafkax "github.com/ariefcatur/go-food-orders/internal/kafka"
	"github.com/ariefcatur/go-food-orders/internal/logging"
	"github.com/ariefcatur/go-food-orders/internal/orders"
	"github.com/ariefcatur/go-food-orders/internal/postgres"
	"github.com/ariefcatur/go-food-orders/internal/redisx"
)

// migrate prepares the orders table and the payment stream consumer group.
// With -seed-payment ORDER_ID:STATUS it also enqueues one checkout outcome,
// which is handy for exercising the listener locally.
func main() {
	seed := flag.String("seed-payment", "", "enqueue a checkout outcome, ORDER_ID:paid|refused")
	skipDB := flag.Bool("skip-db", false, "do not touch postgres")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	log := logging.New(cfg.LogLevel).With("service", "order-migrate")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if !*skipDB && cfg.OrderStore == config.StorePostgres {
		db, err := postgres.Connect(ctx, cfg.PostgresDSN, "order-migrate")
		if err != nil {
			log.Error("db connect", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.Error("db schema", "err", err)
			os.Exit(1)
		}
		log.Info("orders schema ready")
	}

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()
	queue := redisx.NewStreamQueue(rdb, cfg.Payment.Stream, cfg.Payment.Group, cfg.Payment.Consumer, cfg.Payment.VisibilityTimeout)
	if err := queue.EnsureGroup(ctx); err != nil {
		log.Error("payment consumer group", "err", err)
		os.Exit(1)
	}
	log.Info("payment stream ready", "stream", cfg.Payment.Stream, "group", cfg.Payment.Group)

	if *seed == "" {
		return
	}
	ev, err := parseSeed(*seed)
	if err != nil {
		log.Error("seed payment", "err", err)
		os.Exit(2)
	}
	id, err := queue.Send(ctx, kafkax.MustMarshal(ev))
	if err != nil {
		log.Error("seed payment", "err", err)
		os.Exit(1)
	}
	log.Info("checkout outcome enqueued", "message_id", id, "order_id", ev.OrderID, "status", ev.CheckoutStatus)
}

func parseSeed(s string) (orders.CheckoutOutcomeEvent, error) {
	id, status, ok := strings.Cut(s, ":")
	ev := orders.CheckoutOutcomeEvent{OrderID: strings.TrimSpace(id), CheckoutStatus: orders.CheckoutStatus(strings.TrimSpace(status))}
	if !ok || ev.OrderID == "" {
		return ev, fmt.Errorf("want ORDER_ID:STATUS, got %q", s)
	}
	if _, err := ev.Trigger(); err != nil {
		return ev, err
	}
	return ev, nil
}

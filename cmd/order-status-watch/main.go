package main

import (
	"context"
	"flag"
	stdlog "log"
	"os/signal"
	"syscall"
	"time"

	"dormeal/pkg/logger"
	"dormeal/pkg/logger/zap_adapter"
	"dormeal/pkg/orderclient"
)

func main() {
	var (
		baseURL   = flag.String("base-url", "http://localhost:8080", "dormeal service address")
		orderID   = flag.String("order", "", "order id to watch")
		carrierID = flag.String("carrier", "", "carrier id, empty for customer view")
		token     = flag.String("token", "", "bearer token")
		interval  = flag.Duration("interval", orderclient.DefaultPollInterval, "poll interval")
	)
	flag.Parse()

	zapLogger, err := zap_adapter.NewZapAdapter()
	if err != nil {
		stdlog.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := zapLogger.Sync(); err != nil {
			stdlog.Printf("failed to sync logger: %v", err)
		}
	}()

	var log logger.Logger = zapLogger

	if *orderID == "" {
		log.Error("order id is required (-order)")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	client, err := orderclient.New(*baseURL, orderclient.WithToken(*token))
	if err != nil {
		log.Error("create client", logger.ErrorField(err))
		return
	}

	watchLog := log.With(
		logger.NewField("order_id", *orderID),
		logger.NewField("carrier_id", *carrierID),
	)

	poller := orderclient.NewPoller(client, watchLog, orderclient.WithInterval(*interval))

	started := time.Now()
	err = poller.Watch(ctx, *orderID, *carrierID, func(s orderclient.Status) {
		fields := []logger.Field{
			logger.NewField("status", s.OrderStatus),
			logger.NewField("exchange_type", s.ExchangeType),
			logger.NewField("proceed_to_dropoff", s.ProceedToDropoff),
		}
		if s.ExchangeSecondsLeft != nil {
			fields = append(fields, logger.NewField("exchange_seconds_left", *s.ExchangeSecondsLeft))
		}
		watchLog.With(fields...).Info("order status")
	})
	if err != nil {
		watchLog.Warn("watch stopped", logger.ErrorField(err))
		return
	}

	watchLog.With(logger.NewField("elapsed", time.Since(started).String())).Info("order reached final status")
}

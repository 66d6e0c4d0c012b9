package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/tuanvumaihuynh/store-ledger/internal/config"
	"github.com/tuanvumaihuynh/store-ledger/internal/event"
	"github.com/tuanvumaihuynh/store-ledger/internal/http"
	"github.com/tuanvumaihuynh/store-ledger/internal/log"
	"github.com/tuanvumaihuynh/store-ledger/internal/metric"
	"github.com/tuanvumaihuynh/store-ledger/internal/relay"
	"github.com/tuanvumaihuynh/store-ledger/internal/repository"
	"github.com/tuanvumaihuynh/store-ledger/internal/service"
	"github.com/tuanvumaihuynh/store-ledger/internal/storage/mq"
	"github.com/tuanvumaihuynh/store-ledger/internal/telemetry"
	"github.com/tuanvumaihuynh/store-ledger/pkg/cmdutil"
	"github.com/tuanvumaihuynh/store-ledger/pkg/validator"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running standalone application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Storage  config.Storage
		Ledger   config.Ledger
		Postgres config.Postgres
		HTTP     config.HTTP
		Relay    config.Relay
		Kafka    config.Kafka
		Event    config.Event
		Otel     config.Otel
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	cleanupTracer, err := telemetry.InitTracer(ctx, cfg.Otel)
	if err != nil {
		return fmt.Errorf("error initializing tracer: %w", err)
	}
	defer func() {
		if err := cleanupTracer(ctx); err != nil {
			logger.ErrorContext(ctx, "error cleaning up tracer", slog.Any("error", err))
		}
	}()

	store, cleanupStore, err := repository.Open(ctx, cfg.Storage, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error opening store: %w", err)
	}
	defer cleanupStore()

	logger.InfoContext(ctx, "store opened", slog.String("backend", cfg.Storage.Backend.String()))

	metrics := metric.New()
	v, err := validator.NewDefaultValidator()
	if err != nil {
		return fmt.Errorf("error creating validator: %w", err)
	}

	productService := service.NewProductService(cfg.Ledger, store, v, metrics)
	saleService := service.NewSaleService(store, productService, v, metrics)

	interruptChan := cmdutil.InterruptChan()
	var wg sync.WaitGroup

	if cfg.Kafka.Enabled && store.OutboxMsgs() != nil {
		kafkaProducer, err := mq.NewKafkaProducer(ctx, cfg.Kafka)
		if err != nil {
			return fmt.Errorf("error creating kafka producer: %w", err)
		}
		defer kafkaProducer.Close()

		kafkaConsumer, err := mq.NewKafkaConsumer(ctx, cfg.Kafka, logger)
		if err != nil {
			return fmt.Errorf("error creating kafka consumer: %w", err)
		}
		defer kafkaConsumer.Close()

		relayService, err := relay.NewService(cfg.Relay, logger, store, kafkaProducer)
		if err != nil {
			return fmt.Errorf("error creating relay service: %w", err)
		}

		wg.Go(func() {
			svc := event.New(cfg.Event, logger, kafkaConsumer)
			cleanup, err := svc.Run(ctx)
			if err != nil {
				panic(fmt.Errorf("error running event service: %w", err))
			}
			logger.InfoContext(ctx, "event service started")

			<-interruptChan

			logger.InfoContext(ctx, "event service is shutting down")
			cleanup()

			logger.InfoContext(ctx, "event service is stopped")
		})

		wg.Go(func() {
			cleanup := relayService.Run(ctx)
			logger.InfoContext(ctx, "relay service started")

			<-interruptChan

			logger.InfoContext(ctx, "relay service is shutting down")
			cleanup()

			logger.InfoContext(ctx, "relay service is stopped")
		})
	} else {
		logger.InfoContext(ctx, "ledger events are not relayed",
			slog.Bool("kafka_enabled", cfg.Kafka.Enabled),
			slog.Bool("outbox", store.OutboxMsgs() != nil),
		)
	}

	wg.Go(func() {
		svc := http.New(cfg.HTTP, logger, metrics, productService, saleService, store)
		cleanup, err := svc.Run(ctx)
		if err != nil {
			panic(fmt.Errorf("error running http service: %w", err))
		}

		logger.InfoContext(ctx, "http service started", slog.String("address", fmt.Sprintf(":%d", cfg.HTTP.Port)))

		<-interruptChan

		logger.InfoContext(ctx, "http service is shutting down")
		if err := cleanup(ctx); err != nil {
			logger.ErrorContext(ctx, "error shutting down http service", slog.Any("error", err))
		}

		logger.InfoContext(ctx, "http service is stopped")
	})

	wg.Wait()

	return nil
}

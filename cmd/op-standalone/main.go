package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/tuanvumaihuynh/stockdesk/internal/config"
	"github.com/tuanvumaihuynh/stockdesk/internal/dashboard"
	"github.com/tuanvumaihuynh/stockdesk/internal/event"
	"github.com/tuanvumaihuynh/stockdesk/internal/http"
	"github.com/tuanvumaihuynh/stockdesk/internal/log"
	"github.com/tuanvumaihuynh/stockdesk/internal/relay"
	"github.com/tuanvumaihuynh/stockdesk/internal/remote"
	"github.com/tuanvumaihuynh/stockdesk/internal/repository"
	"github.com/tuanvumaihuynh/stockdesk/internal/service"
	"github.com/tuanvumaihuynh/stockdesk/internal/session"
	"github.com/tuanvumaihuynh/stockdesk/internal/storage/db"
	"github.com/tuanvumaihuynh/stockdesk/internal/storage/mq"
	"github.com/tuanvumaihuynh/stockdesk/internal/telemetry"
	"github.com/tuanvumaihuynh/stockdesk/pkg/cmdutil"
	"github.com/tuanvumaihuynh/stockdesk/pkg/correlationid"
	"github.com/tuanvumaihuynh/stockdesk/pkg/validator"
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
		Log       config.Log
		Postgres  config.Postgres
		HTTP      config.HTTP
		Remote    config.Remote
		Dashboard config.Dashboard
		Relay     config.Relay
		Kafka     config.Kafka
		Otel      config.Otel
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

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	dbClient := db.NewClient(pgxPool)

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

	v, err := validator.NewDefaultValidator()
	if err != nil {
		return fmt.Errorf("error creating validator: %w", err)
	}

	sess := session.Static(cfg.Remote.APIToken)
	if cfg.Dashboard.SessionFromDB {
		sessionRepository := repository.NewSessionRepository(dbClient)
		sess = session.New(session.Token{}, session.RefresherFunc(sessionRepository.GetActiveToken))
	}

	remoteClient, err := remote.NewClient(cfg.Remote, logger, sess, v)
	if err != nil {
		return fmt.Errorf("error creating remote client: %w", err)
	}

	outboxMsgRepository := repository.NewOutboxMsgRepository(dbClient)
	auditService := service.NewAuditService(dbClient, outboxMsgRepository)

	confirmations := dashboard.NewConfirmations()
	orderBoard := dashboard.NewOrderBoard(cfg.Dashboard, logger, remoteClient, auditService, confirmations)
	defer orderBoard.Close()
	stockBoard := dashboard.NewStockBoard(cfg.Dashboard, logger, remoteClient, auditService, confirmations)
	defer stockBoard.Close()

	// A failed initial load is shown as the list error until the next reload.
	loadCtx := correlationid.NewContext(ctx, correlationid.New())
	if err := orderBoard.Reload(loadCtx); err != nil {
		logger.WarnContext(loadCtx, "initial order load failed", slog.Any("error", err))
	}
	if err := stockBoard.Reload(loadCtx); err != nil {
		logger.WarnContext(loadCtx, "initial stock load failed", slog.Any("error", err))
	}

	interruptChan := cmdutil.InterruptChan()
	var wg sync.WaitGroup

	wg.Go(func() {
		svc := event.New(logger, kafkaConsumer)
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
		svc := http.New(cfg.HTTP, logger, v, orderBoard, stockBoard, confirmations, dbClient)
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

	wg.Go(func() {
		svc := relay.NewService(cfg.Relay, logger, dbClient, outboxMsgRepository, kafkaProducer)
		cleanup := svc.Run(ctx)
		logger.InfoContext(ctx, "relay service started")

		<-interruptChan

		logger.InfoContext(ctx, "relay service is shutting down")
		cleanup()

		logger.InfoContext(ctx, "relay service is stopped")
	})

	wg.Wait()

	return nil
}

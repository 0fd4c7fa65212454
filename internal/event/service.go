package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tuanvumaihuynh/stockdesk/internal/storage/mq"
)

// Service consumes the audit trail published by the relay.
type Service struct {
	logger     *slog.Logger
	mqConsumer mq.Consumer
}

// New creates a new event service.
func New(
	logger *slog.Logger,
	mqConsumer mq.Consumer,
) *Service {
	return &Service{
		logger:     logger.With(slog.String("service", "event")),
		mqConsumer: mqConsumer,
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	if err := s.registerHandlers(); err != nil {
		return nil, err
	}

	mqCleanup, err := s.mqConsumer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run mq consumer: %w", err)
	}

	cleanup := func() {
		mqCleanup()
	}

	return cleanup, nil
}

func (s *Service) registerHandlers() error {
	if err := s.mqConsumer.RegisterHandler(TopicOrderStatusUpdated, jsonHandler(s.handleOrderStatusUpdatedEvent)); err != nil {
		return fmt.Errorf("register order status updated event handler: %w", err)
	}
	if err := s.mqConsumer.RegisterHandler(TopicOrderDeleted, jsonHandler(s.handleOrderDeletedEvent)); err != nil {
		return fmt.Errorf("register order deleted event handler: %w", err)
	}
	if err := s.mqConsumer.RegisterHandler(TopicStockDeleted, jsonHandler(s.handleStockDeletedEvent)); err != nil {
		return fmt.Errorf("register stock deleted event handler: %w", err)
	}
	return nil
}

func jsonHandler[E any](handle func(context.Context, E) error) mq.HandlerFunc {
	return func(ctx context.Context, topic string, payload []byte) error {
		var ev E
		if err := json.Unmarshal(payload, &ev); err != nil {
			return fmt.Errorf("unmarshal %s event: %w", topic, err)
		}

		if err := handle(ctx, ev); err != nil {
			return fmt.Errorf("handle %s event: %w", topic, err)
		}

		return nil
	}
}

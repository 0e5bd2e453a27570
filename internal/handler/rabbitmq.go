package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MichalMitros/product-rater/internal/platform"
	"github.com/MichalMitros/product-rater/internal/platform/metrics"
	"github.com/MichalMitros/product-rater/internal/platform/rabbitmq"
	"github.com/MichalMitros/product-rater/pkg/v1/commander"
	"github.com/rs/zerolog"
)

//go:generate mockery --name Consumer --filename consumer.go

// Consumer consumes messages from queue.
type Consumer interface {
	Consume(ctx context.Context, queue string, handler rabbitmq.HandlerFunc) (<-chan error, error)
}

// RMQHandler handles ingest commands from RMQ.
type RMQHandler struct {
	consumer Consumer
	ingester Ingester
	metrics  *metrics.Metrics
	logger   *zerolog.Logger
}

// NewRMQHandler returns new RMQHandler. Metrics are optional.
func NewRMQHandler(consumer Consumer, ingester Ingester, m *metrics.Metrics, logger *zerolog.Logger) *RMQHandler {
	return &RMQHandler{
		consumer: consumer,
		ingester: ingester,
		metrics:  m,
		logger:   logger,
	}
}

// Start starts consuming and handling ingest commands from RMQ.
// Failed commands are dropped, the pipeline is not retried.
// Commands interrupted by closing the context are requeued by the consumer.
func (h *RMQHandler) Start(ctx context.Context, queue string) error {
	errorsChan, err := h.consumer.Consume(ctx, queue, h.handle)
	if err != nil {
		return err
	}

	go func() {
		for err := range errorsChan {
			event := h.logger.Error()
			if errors.Is(err, platform.ErrValidation) || errors.Is(err, platform.ErrNotFound) {
				event = h.logger.Warn()
			}
			event.Err(err).Msg("can't handle message")
		}
	}()

	return nil
}

func (h *RMQHandler) handle(ctx context.Context, message []byte) error {
	cmd, err := decodeMessage(message)
	if err != nil {
		return err
	}

	h.logger.Debug().
		Str("barcode", cmd.Barcode).
		Msg("ingestion started")

	start := time.Now()
	result, err := h.ingester.Ingest(ctx, cmd.Barcode)
	if err != nil && ctx.Err() != nil {
		// consumer is stopping, message goes back to the queue
		h.logger.Info().
			Str("barcode", cmd.Barcode).
			Msg("ingestion interrupted")
		return fmt.Errorf("ingestion of %q interrupted: %w", cmd.Barcode, ctx.Err())
	}
	if h.metrics != nil {
		h.metrics.RecordIngestion("rabbitmq", err, time.Since(start))
	}
	if err != nil {
		return fmt.Errorf("ingestion of %q failed: %w", cmd.Barcode, err)
	}

	h.logger.Debug().
		Str("barcode", cmd.Barcode).
		Int("holistic_rating", result.Ratings.HolisticRating).
		Msg("ingestion finished")

	return nil
}

func decodeMessage(msg []byte) (*commander.IngestCommand, error) {
	var cmd commander.IngestCommand
	if err := json.Unmarshal(msg, &cmd); err != nil {
		return nil, fmt.Errorf("%w: can't decode ingest command: %w", platform.ErrValidation, err)
	}

	return &cmd, nil
}

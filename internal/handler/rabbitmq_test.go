package handler_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MichalMitros/product-rater/internal/handler"
	"github.com/MichalMitros/product-rater/internal/handler/mocks"
	"github.com/MichalMitros/product-rater/internal/platform"
	"github.com/MichalMitros/product-rater/internal/platform/models"
	"github.com/MichalMitros/product-rater/internal/platform/models/modelstesting"
	"github.com/MichalMitros/product-rater/internal/platform/rabbitmq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUnitRMQHandlerStart(t *testing.T) {
	tests := map[string]struct {
		message   string
		ingestErr error
		ingest    bool
		wantErr   error
	}{
		"ingested": {
			message: `{"barcode":"0123456789"}`,
			ingest:  true,
		},
		"ingestion failed": {
			message:   `{"barcode":"0123456789"}`,
			ingest:    true,
			ingestErr: assert.AnError,
			wantErr:   assert.AnError,
		},
		"product not found": {
			message:   `{"barcode":"0123456789"}`,
			ingest:    true,
			ingestErr: platform.ErrNotFound,
			wantErr:   platform.ErrNotFound,
		},
		"invalid message": {
			message: `{"barcode":`,
			wantErr: platform.ErrValidation,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var handle rabbitmq.HandlerFunc
			errorsChan := make(chan error)
			t.Cleanup(func() { close(errorsChan) })

			consumer := mocks.NewConsumer(t)
			consumer.On("Consume", mock.Anything, "queue", mock.Anything).
				Run(func(args mock.Arguments) { handle = args.Get(2).(rabbitmq.HandlerFunc) }).
				Return((<-chan error)(errorsChan), nil).Once()

			ingester := mocks.NewIngester(t)
			if tt.ingest {
				var result *models.IngestResult
				if tt.ingestErr == nil {
					result = &models.IngestResult{Ratings: modelstesting.FakeRatings()}
				}
				ingester.On("Ingest", mock.Anything, "0123456789").Return(result, tt.ingestErr).Once()
			}

			logger := zerolog.Nop()
			han := handler.NewRMQHandler(consumer, ingester, nil, &logger)

			require.NoError(t, han.Start(context.Background(), "queue"))
			require.NotNil(t, handle, "should register message handler")

			err := handle(context.Background(), []byte(tt.message))
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUnitRMQHandlerInterrupted(t *testing.T) {
	var handle rabbitmq.HandlerFunc
	errorsChan := make(chan error)
	t.Cleanup(func() { close(errorsChan) })

	consumer := mocks.NewConsumer(t)
	consumer.On("Consume", mock.Anything, "queue", mock.Anything).
		Run(func(args mock.Arguments) { handle = args.Get(2).(rabbitmq.HandlerFunc) }).
		Return((<-chan error)(errorsChan), nil).Once()

	ctx, cancel := context.WithCancel(context.Background())

	ingester := mocks.NewIngester(t)
	ingester.On("Ingest", mock.Anything, "0123456789").
		Run(func(mock.Arguments) { cancel() }).
		Return(nil, fmt.Errorf("can't look up product: %w", context.Canceled)).Once()

	var buf lockedBuffer
	logger := zerolog.New(&buf)
	han := handler.NewRMQHandler(consumer, ingester, nil, &logger)

	require.NoError(t, han.Start(context.Background(), "queue"))
	require.NotNil(t, handle)

	err := handle(ctx, []byte(`{"barcode":"0123456789"}`))

	require.ErrorIs(t, err, context.Canceled, "should report interruption")
	assert.Contains(t, err.Error(), "interrupted")
	assert.Contains(t, buf.String(), "ingestion interrupted")
	assert.NotContains(t, buf.String(), "ingestion finished")
}

func TestUnitRMQHandlerStartConsumeError(t *testing.T) {
	consumer := mocks.NewConsumer(t)
	consumer.On("Consume", mock.Anything, "queue", mock.Anything).Return(nil, assert.AnError).Once()

	logger := zerolog.Nop()
	han := handler.NewRMQHandler(consumer, mocks.NewIngester(t), nil, &logger)

	err := han.Start(context.Background(), "queue")

	require.ErrorIs(t, err, assert.AnError, "should return consuming error")
}

func TestUnitRMQHandlerLogsErrors(t *testing.T) {
	errorsChan := make(chan error)

	consumer := mocks.NewConsumer(t)
	consumer.On("Consume", mock.Anything, "queue", mock.Anything).Return((<-chan error)(errorsChan), nil).Once()

	var buf lockedBuffer
	logger := zerolog.New(&buf)
	han := handler.NewRMQHandler(consumer, mocks.NewIngester(t), nil, &logger)

	require.NoError(t, han.Start(context.Background(), "queue"))

	errorsChan <- assert.AnError
	errorsChan <- platform.ErrNotFound
	close(errorsChan)

	assert.Eventually(t, func() bool {
		return strings.Count(buf.String(), "can't handle message") == 2
	}, time.Second, 10*time.Millisecond)
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

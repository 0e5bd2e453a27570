package helpers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MichalMitros/product-rater/internal/platform/models"
	"github.com/MichalMitros/product-rater/internal/platform/storage/storagetesting"
	"github.com/go-jet/jet/v2/qrm"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
)

const (
	contentType = "Content-Type"
)

// WaitForRatings is blocking helper function, waits until product has n ratings stored.
func WaitForRatings(t *testing.T, queryable qrm.Queryable, barcode string, n int) {
	t.Helper()

	timeout := time.After(30 * time.Second)
	for {
		select {
		case <-timeout:
			require.FailNow(t, "product wasn't rated in time", barcode)
		case <-time.After(250 * time.Millisecond):
		}

		if len(storagetesting.GetRatings(t, queryable, barcode)) >= n {
			return
		}
	}
}

// PrepareLookupServer is helper function for mocking upcdatabase provider.
// Products are returned by barcode, unknown barcodes get 404.
func PrepareLookupServer(t *testing.T, products map[string]models.ProductInfo) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
		barcode := strings.TrimPrefix(req.URL.Path, "/product/")
		info, ok := products[barcode]

		wrt.Header().Add(contentType, "application/json")
		if !ok {
			wrt.WriteHeader(http.StatusNotFound)
			_, _ = wrt.Write([]byte(`{"success":false,"error":{"code":"404","message":"No data found"}}`))
			return
		}

		_ = json.NewEncoder(wrt).Encode(map[string]any{
			"success":     "true",
			"barcode":     barcode,
			"title":       info.Title,
			"brand":       info.Brand,
			"description": info.Description,
			"category":    info.Category,
			"images":      info.Images,
		})
	}))

	t.Cleanup(func() {
		srv.Close()
	})

	return srv
}

// PrepareGenAIServer is helper function for mocking generation service.
// Every call replies with provided text. Returns server and counter of calls.
func PrepareGenAIServer(t *testing.T, reply string) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	calls := &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(wrt http.ResponseWriter, _ *http.Request) {
		calls.Add(1)

		wrt.Header().Add(contentType, "application/json")
		_ = json.NewEncoder(wrt).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]string{{"text": reply}},
				},
				"finishReason": "STOP",
			}},
		})
	}))

	t.Cleanup(func() {
		srv.Close()
	})

	return srv, calls
}

// DeclareRMQExchange is helper function for declaring RMQ exchange.
func DeclareRMQExchange(t *testing.T, ch *amqp.Channel, exchange string) {
	t.Helper()

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		require.FailNow(t, "can't declare exchange", exchange, err)
	}
}

// DeclareRMQQueue is helper function for declaring RMQ queue and binding and cleaning them after test is finished.
func DeclareRMQQueue(t *testing.T, channel *amqp.Channel, queueName, exchange, routingKey string) {
	t.Helper()

	_, err := channel.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		require.FailNow(t, "can't declare queue", queueName, err)
	}

	err = channel.QueueBind(queueName, routingKey, exchange, false, nil)
	if err != nil {
		require.FailNow(t, "can't bind queue", queueName, routingKey, err)
	}

	t.Cleanup(func() {
		_, err := channel.QueueDelete(queueName, false, false, true)
		if err != nil {
			require.FailNow(t, "can't delete queue", queueName, err)
		}
	})
}

// LockedBuffer is bytes.Buffer safe for concurrent writes and reads.
type LockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write appends p to the buffer.
func (b *LockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns buffer content.
func (b *LockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

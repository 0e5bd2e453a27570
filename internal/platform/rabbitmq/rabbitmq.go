package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ExchangeKind is kind of exchange declared by DeclareTopology.
const ExchangeKind = "topic"

// HandlerFunc is function which handles messages.
type HandlerFunc func(ctx context.Context, message []byte) error

// Option configures RabbitMQ.
type Option func(mq *RabbitMQ)

// WithPrefetch limits number of unacknowledged deliveries per consumer.
func WithPrefetch(prefetch int) Option {
	return func(mq *RabbitMQ) {
		mq.prefetch = prefetch
	}
}

// WithAppID sets application id of published messages.
func WithAppID(appID string) Option {
	return func(mq *RabbitMQ) {
		mq.appID = appID
	}
}

// RabbitMQ consumes and publishes amqp messages.
type RabbitMQ struct {
	channel   *amqp.Channel
	exchange  string
	prefetch  int
	appID     string
	isRunning chan struct{}
}

// NewRabbitMQ returns new RabbitMQ working on its own channel of provided connection.
func NewRabbitMQ(connection *amqp.Connection, exchange string, opts ...Option) (*RabbitMQ, error) {
	channel, err := connection.Channel()
	if err != nil {
		return nil, fmt.Errorf("can't open channel: %w", err)
	}

	mq := RabbitMQ{
		channel:   channel,
		exchange:  exchange,
		prefetch:  1,
		isRunning: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(&mq)
	}

	if mq.prefetch > 0 {
		if err := channel.Qos(mq.prefetch, 0, false); err != nil {
			_ = channel.Close()
			return nil, fmt.Errorf("can't set prefetch: %w", err)
		}
	}

	return &mq, nil
}

// DeclareTopology declares durable exchange and queue bound to it with routing key.
// Declarations are idempotent, so it's safe to call it on every start.
func (mq *RabbitMQ) DeclareTopology(queue, routingKey string) error {
	if err := mq.channel.ExchangeDeclare(mq.exchange, ExchangeKind, true, false, false, false, nil); err != nil {
		return fmt.Errorf("can't declare exchange %s: %w", mq.exchange, err)
	}

	if _, err := mq.channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("can't declare queue %s: %w", queue, err)
	}

	if err := mq.channel.QueueBind(queue, routingKey, mq.exchange, false, nil); err != nil {
		return fmt.Errorf("can't bind queue %s to %s: %w", queue, routingKey, err)
	}

	return nil
}

// Publish publishes persistent message to routing key.
func (mq *RabbitMQ) Publish(ctx context.Context, routingKey string, message []byte) error {
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		AppId:        mq.appID,
		Body:         message,
	}

	if err := mq.channel.PublishWithContext(ctx, mq.exchange, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("can't publish message: %w", err)
	}

	return nil
}

// Consume consumes messages from queue and passes deliveries to provided handler function.
// Deliveries are acked when handler succeeds and nacked without requeue otherwise.
// Deliveries interrupted by closing the context are requeued, so they're redelivered after restart.
// It returns channel with errors from handler function and consuming process.
// Function works asynchronously, it consumes messages in background as long as context is not closed.
func (mq *RabbitMQ) Consume(ctx context.Context, queue string, handler HandlerFunc) (<-chan error, error) {
	consumerID, err := uuid.NewUUID()
	if err != nil {
		return nil, fmt.Errorf("can't create consumer ID: %w", err)
	}

	deliveries, err := mq.channel.Consume(
		queue,
		consumerID.String(),
		false, // auto acknowledge
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("can't start consuming: %w", err)
	}

	cancel := func() {
		_ = mq.channel.Cancel(consumerID.String(), false)
	}

	return mq.run(ctx, deliveries, cancel, handler), nil
}

// run handles deliveries in background until deliveries channel is closed.
// cancel is called when context is closed and should stop deliveries.
func (mq *RabbitMQ) run(
	ctx context.Context,
	deliveries <-chan amqp.Delivery,
	cancel func(),
	handler HandlerFunc,
) <-chan error {
	isRunning := make(chan struct{})
	mq.isRunning = isRunning

	consumingErrors := make(chan error)
	go func() {
		defer close(isRunning)
		defer close(consumingErrors)

		stopped := make(chan struct{})
		defer close(stopped)

		go func() {
			select {
			case <-ctx.Done():
				cancel()
			case <-stopped:
			}
		}()

		mq.consumeMessages(ctx, deliveries, consumingErrors, handler)
	}()

	return consumingErrors
}

func (mq *RabbitMQ) consumeMessages(
	ctx context.Context,
	deliveries <-chan amqp.Delivery,
	consumingErrors chan error,
	handler HandlerFunc,
) {
	for delivery := range deliveries {
		// deliveries prefetched before cancellation are left for the next consumer
		if ctx.Err() != nil {
			if err := mq.nackMessage(ctx, &delivery, true, consumingErrors); err != nil {
				return
			}
			continue
		}

		err := handler(ctx, delivery.Body)
		if err != nil {
			interrupted := ctx.Err() != nil
			if !interrupted {
				_ = pushError(ctx, fmt.Errorf("message %s: %w", delivery.MessageId, err), consumingErrors)
			}
			if err := mq.nackMessage(ctx, &delivery, interrupted, consumingErrors); err != nil {
				return
			}
			continue
		}
		if err := mq.ackMessage(ctx, &delivery, consumingErrors); err != nil {
			return
		}
	}
}

func (mq *RabbitMQ) ackMessage(
	ctx context.Context,
	delivery *amqp.Delivery,
	consumingErrors chan error,
) error {
	if err := delivery.Ack(false); err != nil {
		if pushErr := pushError(ctx, fmt.Errorf("can't ack message: %w", err), consumingErrors); pushErr != nil {
			return pushErr
		}
	}
	return nil
}

func (mq *RabbitMQ) nackMessage(
	ctx context.Context,
	delivery *amqp.Delivery,
	requeue bool,
	consumingErrors chan error,
) error {
	if err := delivery.Nack(false, requeue); err != nil {
		if pushErr := pushError(ctx, fmt.Errorf("can't nack message: %w", err), consumingErrors); pushErr != nil {
			return pushErr
		}
	}
	return nil
}

// Done returns channel which will be closed when consuming will be finished.
func (mq *RabbitMQ) Done() <-chan struct{} {
	return mq.isRunning
}

// Close closes channel.
func (mq *RabbitMQ) Close() error {
	return mq.channel.Close()
}

func pushError(ctx context.Context, err error, errChan chan error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case errChan <- err:
	}
	return nil
}

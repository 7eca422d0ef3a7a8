package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Temutjin2k/delivery-fare/internal/domain/models"
	"github.com/Temutjin2k/delivery-fare/pkg/logger"
	wrap "github.com/Temutjin2k/delivery-fare/pkg/logger/wrapper"
	"github.com/Temutjin2k/delivery-fare/pkg/metrics"
	"github.com/Temutjin2k/delivery-fare/pkg/rabbit"
)

const (
	ExchangeFareTopic = "fare_topic"

	QueueTripCompleted = "fare_trip_completed"
	QueueSurgeUpdates  = "fare_surge_updates"

	KeyTripCompleted  = "trip.completed.*"
	KeySurgeUpdated   = "surge.updated.*"
	KeyFareCalculated = "fare.calculated.*"
	KeyConfigChanged  = "pricing.config.changed"

	prefetch = 16
)

// WorkerTopology is what a fare worker consumes. Trips and surge updates are
// shared work queues; configuration changes fan out to every instance.
func WorkerTopology(instance string) rabbit.Topology {
	return rabbit.Topology{
		Exchanges: map[string]string{ExchangeFareTopic: amqp.ExchangeTopic},
		Bindings: []rabbit.Binding{
			{Queue: QueueTripCompleted, Exchange: ExchangeFareTopic, RoutingKey: KeyTripCompleted},
			{Queue: QueueSurgeUpdates, Exchange: ExchangeFareTopic, RoutingKey: KeySurgeUpdated},
			{Queue: configQueue(instance), Exchange: ExchangeFareTopic, RoutingKey: KeyConfigChanged, Transient: true},
		},
		Prefetch: prefetch,
	}
}

// FeedTopology is what a pricing service instance consumes: every computed
// fare for its websocket subscribers and configuration changes made by other
// instances.
func FeedTopology(instance string) rabbit.Topology {
	return rabbit.Topology{
		Exchanges: map[string]string{ExchangeFareTopic: amqp.ExchangeTopic},
		Bindings: []rabbit.Binding{
			{Queue: feedQueue(instance), Exchange: ExchangeFareTopic, RoutingKey: KeyFareCalculated, Transient: true},
			{Queue: configQueue(instance), Exchange: ExchangeFareTopic, RoutingKey: KeyConfigChanged, Transient: true},
		},
		Prefetch: prefetch,
	}
}

func configQueue(instance string) string { return "fare_config_changed." + instance }
func feedQueue(instance string) string   { return "fare_feed." + instance }

func fareCalculatedKey(tripID string) string {
	return fmt.Sprintf("fare.calculated.%s", tripID)
}

type FareBroker struct {
	client   *rabbit.RabbitMQ
	service  string
	instance string
	l        logger.Logger
}

// NewFareBroker publishes and consumes on fare_topic. instance names the
// per-process fan-out queues and must match the declared topology.
func NewFareBroker(client *rabbit.RabbitMQ, service, instance string, l logger.Logger) *FareBroker {
	return &FareBroker{
		client:   client,
		service:  service,
		instance: instance,
		l:        l,
	}
}

func (r *FareBroker) publish(ctx context.Context, routingKey string, msg any) (err error) {
	defer func() { metrics.RecordRabbitMQPublish(r.service, routingKey, err) }()

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		Body:          body,
		Timestamp:     time.Now(),
		CorrelationId: wrap.GetRequestID(ctx),
	}

	if err := retry(ctx, 5, time.Second, func() error {
		if err := r.client.EnsureConnection(ctx); err != nil {
			return err
		}
		ch := r.client.Ch()
		if ch == nil {
			return amqp.ErrClosed
		}
		return ch.PublishWithContext(ctx, ExchangeFareTopic, routingKey, false, false, pub)
	}); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	return nil
}

func (r *FareBroker) PublishFareCalculated(ctx context.Context, msg models.FareCalculatedMessage) error {
	ctx = wrap.WithAction(ctx, "publish_fare_calculated")

	if err := r.publish(ctx, fareCalculatedKey(msg.TripID), msg); err != nil {
		return wrap.Error(ctx, err)
	}
	return nil
}

func (r *FareBroker) PublishConfigChanged(ctx context.Context, msg models.ConfigChangedMessage) error {
	ctx = wrap.WithAction(ctx, "publish_config_changed")

	if err := r.publish(ctx, KeyConfigChanged, msg); err != nil {
		return wrap.Error(ctx, err)
	}
	return nil
}

// -- Consumers

// ConsumeTripCompleted слушает trip.completed.* события и передаёт их в обработчик fn.
func (r *FareBroker) ConsumeTripCompleted(ctx context.Context, fn func(context.Context, models.TripCompletedMessage) error) error {
	return consume(ctx, r, QueueTripCompleted, func(ctx context.Context, m models.TripCompletedMessage) context.Context {
		return wrap.WithTripID(ctx, m.TripID)
	}, fn)
}

func (r *FareBroker) ConsumeSurgeUpdates(ctx context.Context, fn func(context.Context, models.SurgeUpdateMessage) error) error {
	return consume(ctx, r, QueueSurgeUpdates, nil, fn)
}

func (r *FareBroker) ConsumeConfigChanged(ctx context.Context, fn func(context.Context, models.ConfigChangedMessage) error) error {
	return consume(ctx, r, configQueue(r.instance), nil, fn)
}

func (r *FareBroker) ConsumeFareCalculated(ctx context.Context, fn func(context.Context, models.FareCalculatedMessage) error) error {
	return consume(ctx, r, feedQueue(r.instance), func(ctx context.Context, m models.FareCalculatedMessage) context.Context {
		return wrap.WithTripID(ctx, m.TripID)
	}, fn)
}

// consume is the reconnecting consume loop shared by every queue. Each
// delivery is handled in its own goroutine; the channel prefetch bounds how
// many run at once.
func consume[T any](ctx context.Context, r *FareBroker, queue string, decorate func(context.Context, T) context.Context, fn func(context.Context, T) error) error {
	op := "FareBroker.consume." + queue
	ctx = wrap.WithAction(ctx, "consume_"+queue)

	for {
		if ctx.Err() != nil {
			r.l.Debug(ctx, "consumer stopped by context", "queue", queue)
			return nil
		}

		// Проверяем и восстанавливаем соединение
		if err := r.client.EnsureConnection(ctx); err != nil {
			r.l.Error(ctx, "ensure connection failed", err, "op", op)
			sleep(ctx, 2*time.Second)
			continue
		}

		ch := r.client.Ch()
		if ch == nil {
			sleep(ctx, 2*time.Second)
			continue
		}

		msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
		if err != nil {
			r.l.Error(ctx, "consume failed", err, "op", op)
			sleep(ctx, 2*time.Second)
			continue
		}

		r.l.Info(ctx, "start consuming", "queue", queue)

	consumeLoop:
		for {
			select {
			case <-ctx.Done():
				r.l.Info(ctx, "consumer shutting down", "queue", queue)
				return nil

			case msg, ok := <-msgs:
				if !ok {
					r.l.Warn(ctx, "message channel closed, reconnecting...", "queue", queue)
					sleep(ctx, 2*time.Second)
					break consumeLoop
				}

				go handle(ctx, r, queue, msg, decorate, fn)
			}
		}
	}
}

func handle[T any](ctx context.Context, r *FareBroker, queue string, msg amqp.Delivery, decorate func(context.Context, T) context.Context, fn func(context.Context, T) error) {
	var payload T
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		r.l.Error(ctx, "decode failed", err, "queue", queue)
		metrics.RecordRabbitMQConsume(r.service, queue, err)
		_ = msg.Nack(false, false)
		return
	}

	hctx := wrap.WithRequestID(ctx, msg.CorrelationId)
	if decorate != nil {
		hctx = decorate(hctx, payload)
	}

	err := fn(hctx, payload)
	metrics.RecordRabbitMQConsume(r.service, queue, err)

	switch settle(err) {
	case ack:
		if err := msg.Ack(false); err != nil {
			r.l.Warn(hctx, "ack failed", "error", err.Error())
		}
	case requeue:
		r.l.Error(wrap.ErrorCtx(hctx, err), "handler failed, requeueing", err, "queue", queue)
		_ = msg.Nack(false, true)
	default:
		r.l.Error(wrap.ErrorCtx(hctx, err), "handler failed, dropping message", err, "queue", queue)
		_ = msg.Nack(false, false)
	}
}

func sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

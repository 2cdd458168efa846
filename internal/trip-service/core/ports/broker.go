package ports

import (
	"context"

	messagebrokerdto "bus-tracking/internal/trip-service/core/domain/message_broker_dto"

	"github.com/rabbitmq/amqp091-go"
)

type ITripsBroker interface {
	PushStatus(ctx context.Context, msg messagebrokerdto.TripStatus) error
	IsAlive() bool
	Close() error
}

type IBrokerConsumer interface {
	Consume(ctx context.Context, routingKey string) (<-chan amqp091.Delivery, error)
}

package consumer

import (
	"context"
	"encoding/json"
	"time"

	"bus-tracking/internal/metrics"
	"bus-tracking/internal/mylogger"
	"bus-tracking/internal/trip-service/core/domain/dto"
	"bus-tracking/internal/trip-service/core/ports"

	messagebrokerdto "bus-tracking/internal/trip-service/core/domain/message_broker_dto"
	websocketdto "bus-tracking/internal/trip-service/core/domain/websocket_dto"

	"github.com/rabbitmq/amqp091-go"
)

const locationReports = "trip.location.*"

// LocationConsumer feeds broker-delivered GPS reports through the same
// report path as the HTTP endpoint, then fans them out to websocket
// subscribers.
type LocationConsumer struct {
	ctx         context.Context
	mylog       mylogger.Logger
	consumer    ports.IBrokerConsumer
	tripService ports.ITripsService
	dispatcher  ports.INotifyWebsocket
	collector   *metrics.Collector
}

func New(
	ctx context.Context,
	mylog mylogger.Logger,
	consumer ports.IBrokerConsumer,
	tripService ports.ITripsService,
	dispatcher ports.INotifyWebsocket,
	collector *metrics.Collector,
) *LocationConsumer {
	return &LocationConsumer{
		ctx:         ctx,
		mylog:       mylog,
		consumer:    consumer,
		tripService: tripService,
		dispatcher:  dispatcher,
		collector:   collector,
	}
}

func (lc *LocationConsumer) Run() error {
	ch, err := lc.consumer.Consume(lc.ctx, locationReports)
	if err != nil {
		return err
	}

	go lc.work(lc.ctx, ch, lc.LocationReport)

	return nil
}

func (lc *LocationConsumer) work(
	ctx context.Context,
	ch <-chan amqp091.Delivery,
	Do func(msg amqp091.Delivery) error,
) {
	log := lc.mylog.Action("consumeLocationReports")

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}

			if err := Do(msg); err != nil {
				log.Warn("dropping location report", "reason", err.Error())
				continue
			}
		case <-ctx.Done():
			return
		}
	}
}

func (lc *LocationConsumer) LocationReport(msg amqp091.Delivery) error {
	m := messagebrokerdto.LocationUpdate{}

	if err := json.Unmarshal(msg.Body, &m); err != nil {
		return err
	}

	observedAt := time.Now()
	if m.ObservedAt != "" {
		if t, err := time.Parse(time.RFC3339, m.ObservedAt); err == nil {
			observedAt = t
		}
	}

	trip, err := lc.tripService.ReportLocation(m.TripID, dto.LocationReport{Lat: m.Lat, Lng: m.Lng}, observedAt)
	if err != nil {
		return err
	}
	lc.collector.LocationReports.WithLabelValues("broker").Inc()

	payload, err := json.Marshal(websocketdto.VehicleLocationUpdateDto{
		TripID:    trip.ID,
		VehicleID: trip.VehicleID,
		Lat:       trip.LastFix.Lat,
		Lng:       trip.LastFix.Lng,
	})
	if err != nil {
		return err
	}

	lc.dispatcher.Broadcast(trip.ID, websocketdto.Event{
		Type: websocketdto.VehicleLocationUpdate,
		Data: payload,
	})
	return nil
}

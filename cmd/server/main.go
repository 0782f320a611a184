package main

import (
	"context"

	bookinghandler "github.com/SachinChauhan402/Roombooking-backend/internal/bookings/handler"
	bookingrepo "github.com/SachinChauhan402/Roombooking-backend/internal/bookings/repository"
	bookingservice "github.com/SachinChauhan402/Roombooking-backend/internal/bookings/service"
	bookingvalidator "github.com/SachinChauhan402/Roombooking-backend/internal/bookings/validator"
	roomhandler "github.com/SachinChauhan402/Roombooking-backend/internal/rooms/handler"
	roomrepo "github.com/SachinChauhan402/Roombooking-backend/internal/rooms/repository"
	roomservice "github.com/SachinChauhan402/Roombooking-backend/internal/rooms/service"
	roomvalidator "github.com/SachinChauhan402/Roombooking-backend/internal/rooms/validator"
	"github.com/SachinChauhan402/Roombooking-backend/pkg/app"
	"github.com/SachinChauhan402/Roombooking-backend/pkg/config"
	mongotx "github.com/SachinChauhan402/Roombooking-backend/pkg/db/mongo"
	"github.com/SachinChauhan402/Roombooking-backend/pkg/kafka"
	kafkaconfig "github.com/SachinChauhan402/Roombooking-backend/pkg/kafka/config"
)

const (
	serviceName = "roombooking"

	eventsTopic    = "roombooking.events"
	eventsDLQTopic = "roombooking.events.dlq"
)

func main() {
	cfg := config.Load(serviceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
	defer cancel()
	if err := mongotx.EnsureIndexes(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName); err != nil {
		cfg.Log.Fatal("Failed to ensure MongoDB indexes", "error", err)
	}

	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		var err error
		producer, err = kafka.NewProducer(kafkaconfig.Default(cfg.KafkaBrokers), eventsTopic, eventsDLQTopic)
		if err != nil {
			cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
		}
		defer func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close Kafka producer", "error", err)
			}
		}()
		cfg.Log.Info("Event publishing enabled", "brokers", cfg.KafkaBrokers, "topic", eventsTopic)
	} else {
		cfg.Log.Info("Event publishing disabled (no brokers configured)")
	}

	roomRepo := roomrepo.NewMongoRoomRepository(cfg)
	bookingRepo := bookingrepo.NewMongoBookingRepository(cfg)
	lockRepo := bookingrepo.NewBookingLockRepository(cfg)

	// A nil interface must stay nil: wrapping a nil *Producer in the
	// interface would make the nil check in the services pass.
	var roomEvents roomservice.EventPublisher
	var bookingEvents bookingservice.EventPublisher
	if producer != nil {
		roomEvents = producer
		bookingEvents = producer
	}

	roomSvc := roomservice.NewRoomService(
		roomRepo,
		bookingRepo,
		roomvalidator.NewRoomValidator(cfg.Log),
		roomEvents,
		cfg,
	)
	bookingSvc := bookingservice.NewBookingService(
		bookingRepo,
		lockRepo,
		roomRepo,
		bookingvalidator.NewBookingValidator(cfg.Log),
		bookingEvents,
		cfg,
	)

	application := app.NewApplication(cfg)
	application.SetApp(
		roomhandler.NewRoomHandler(roomSvc, cfg.Log),
		bookinghandler.NewBookingHandler(bookingSvc, cfg.Log),
	)
	application.Run()
}

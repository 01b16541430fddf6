package main

import (
	"context"

	"staybook/internal/bookings/handler"
	"staybook/internal/bookings/notifier"
	"staybook/internal/bookings/repository"
	"staybook/internal/bookings/service"
	"staybook/internal/bookings/validator"
	couponsrepository "staybook/internal/coupons/repository"
	couponsservice "staybook/internal/coupons/service"
	couponsvalidator "staybook/internal/coupons/validator"
	listingsrepository "staybook/internal/listings/repository"
	"staybook/pkg/app"
	"staybook/pkg/config"
	"staybook/pkg/kafka"
	kafka_config "staybook/pkg/kafka/config"
	kafka_middleware "staybook/pkg/kafka/middleware"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetLedger()

	cfg.Log.Info("Starting Bookings service")
	serverApp := app.NewApplication()

	bookingNotifier := initNotifier(cfg, serverApp)
	bookingService := initServices(cfg, bookingNotifier)

	serverApp.SetApp(cfg, handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

func initNotifier(cfg *config.Config, serverApp *app.Application) notifier.Notifier {
	if !cfg.NotificationsEnabled {
		cfg.Log.Info("Booking notifications disabled")
		return notifier.Noop()
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.Log, kafkaCfg.BookingEventsTopic, kafkaCfg.BookingEventsDLQ)
	if err != nil {
		cfg.Log.Fatal("Failed to create kafka producer", "error", err)
	}
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
		producer.Use(kafka_middleware.MetricsProducerMiddleware(cfg.Metrics))
	}

	kafkaNotifier := notifier.NewKafkaNotifier(producer, cfg.Log, cfg.NotificationsTimeout, ServiceName)

	// Drain pending notifications before the producer goes away.
	serverApp.OnShutdown(kafkaNotifier.Wait)
	serverApp.OnShutdown(func(context.Context) error {
		return producer.Close()
	})
	return kafkaNotifier
}

func initServices(cfg *config.Config, bookingNotifier notifier.Notifier) service.BookingService {
	listingRepo := listingsrepository.NewMongoListingRepository(cfg)

	couponService := couponsservice.NewCouponService(
		couponsrepository.NewMongoCouponRepository(cfg),
		couponsvalidator.NewCouponValidator(cfg.Log),
		cfg,
	)

	bookingService := service.NewBookingService(
		repository.NewMongoBookingRepository(cfg),
		listingRepo,
		couponService,
		validator.NewBookingValidator(cfg.Log),
		cfg.Client.Ledger,
		bookingNotifier,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}

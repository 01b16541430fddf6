package main

import (
	"staybook/internal/coupons/handler"
	"staybook/internal/coupons/repository"
	"staybook/internal/coupons/service"
	"staybook/internal/coupons/validator"
	"staybook/pkg/app"
	"staybook/pkg/config"
)

const ServiceName = "coupons"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Coupons service")
	couponService := initServices(cfg)
	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewCouponHandler(couponService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.CouponService {
	couponValidator := validator.NewCouponValidator(cfg.Log)
	couponRepo := repository.NewMongoCouponRepository(cfg)
	couponService := service.NewCouponService(couponRepo, couponValidator, cfg)

	cfg.Log.Info("Coupon service initialized", "database", cfg.MongoDatabaseName)
	return couponService
}

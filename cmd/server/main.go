package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/ajjer/car-rental-api/internal/config"
	"github.com/ajjer/car-rental-api/internal/database"
	"github.com/ajjer/car-rental-api/internal/handler"
	"github.com/ajjer/car-rental-api/internal/middleware"
	"github.com/ajjer/car-rental-api/internal/queue"
	"github.com/ajjer/car-rental-api/internal/repository"
	"github.com/ajjer/car-rental-api/internal/router"
)

func main() {
	// .env is a convenience for local runs; in deployed environments
	// the variables come from the process environment.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	carRepo := repository.NewCarRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	messageRepo := repository.NewMessageRepo(db)
	ratingRepo := repository.NewRatingRepo(db)

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	hostHandler := handler.NewHostHandler(carRepo, bookingRepo)
	publicHandler := handler.NewPublicHandler(carRepo, bookingRepo, ratingRepo)
	bookingHandler := handler.NewBookingHandler(carRepo, bookingRepo, messageRepo, userRepo)
	messageHandler := handler.NewMessageHandler(messageRepo, userRepo)
	ratingHandler := handler.NewRatingHandler(ratingRepo, bookingRepo, carRepo)
	adminHandler := handler.NewAdminHandler(userRepo, carRepo, tokenRepo)

	// Redis backs both the token-bucket rate limiter and the read
	// cache. NewRedisClient returns nil when Redis is unreachable and
	// both middlewares degrade to pass-through.
	rdb := config.NewRedisClient()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	var cacheMW echo.MiddlewareFunc
	if cacheCfg := config.LoadCacheConfig(); cacheCfg.Enabled && rdb != nil {
		cacheMW = middleware.NewRedisCache(cacheCfg, rdb)
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret, userRepo)
	router.RegisterPublic(e, publicHandler, cacheMW)
	router.RegisterHost(e, hostHandler, cfg.JWTSecret, userRepo)
	router.RegisterBookings(e, bookingHandler, cfg.JWTSecret, userRepo)
	router.RegisterMessages(e, messageHandler, cfg.JWTSecret, userRepo)
	router.RegisterRatings(e, ratingHandler, cfg.JWTSecret, userRepo)
	router.RegisterAdmin(e, adminHandler, cfg.JWTSecret)

	// The consumer drains booking lifecycle events into the audit log.
	// It reconnects on its own; a missing broker never blocks the API.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

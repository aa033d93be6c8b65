package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gelataria/internal/config"
	"gelataria/internal/db"
	"gelataria/internal/events"
	"gelataria/internal/httpserver"
	cartrepo "gelataria/internal/repository/cart"
	categoryrepo "gelataria/internal/repository/category"
	favoriterepo "gelataria/internal/repository/favorite"
	orderrepo "gelataria/internal/repository/order"
	productrepo "gelataria/internal/repository/product"
	profilerepo "gelataria/internal/repository/profile"
	sessionrepo "gelataria/internal/repository/session"
	userrepo "gelataria/internal/repository/user"
	cartsvc "gelataria/internal/service/cart"
	categorysvc "gelataria/internal/service/category"
	checkoutsvc "gelataria/internal/service/checkout"
	favoritesvc "gelataria/internal/service/favorite"
	ordersvc "gelataria/internal/service/order"
	productsvc "gelataria/internal/service/product"
	profilesvc "gelataria/internal/service/profile"
	sessionsvc "gelataria/internal/service/session"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbpool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBOptions(logger))
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	bus := events.NewBus(logger)
	if len(cfg.KafkaBrokers) > 0 {
		sink := events.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer sink.Close()
		sink.Attach(bus, events.TopicOrderPlaced, events.TopicOrderStatusChanged)
		logger.Printf("publishing order events to kafka topic %s", cfg.KafkaTopic)
	}

	productRepo := productrepo.NewPostgres(dbpool, logger)
	categoryRepo := categoryrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	profileRepo := profilerepo.NewPostgres(dbpool, logger)

	sessionService := sessionsvc.New(
		userrepo.NewPostgres(dbpool, logger),
		sessionrepo.NewPostgres(dbpool),
		sessionsvc.Config{Secret: []byte(cfg.SessionSecret), TTL: cfg.SessionTTL},
		bus,
		logger,
	)
	cartService := cartsvc.New(cartrepo.NewPostgres(dbpool, logger), productRepo, bus, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		SessionSvc:  sessionService,
		ProductSvc:  productsvc.New(productRepo, categoryRepo),
		CategorySvc: categorysvc.New(categoryRepo),
		CartSvc:     cartService,
		CheckoutSvc: checkoutsvc.New(cartService, profileRepo, orderRepo, bus, logger),
		ProfileSvc:  profilesvc.New(profileRepo, orderRepo),
		FavoriteSvc: favoritesvc.New(favoriterepo.NewPostgres(dbpool, logger)),
		OrderSvc:    ordersvc.New(orderRepo, bus, logger),
	}, cfg.CORSAllowedOrigins)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	if err := srv.Run(ctx, cfg.ShutdownTimeout); err != nil {
		logger.Fatalf("http server: %v", err)
	}
	logger.Printf("server stopped")
}

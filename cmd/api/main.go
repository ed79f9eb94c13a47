package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stripe-checkout-demo/internal/client"
	"stripe-checkout-demo/internal/config"
	"stripe-checkout-demo/internal/handler"
	"stripe-checkout-demo/internal/logger"
	"stripe-checkout-demo/internal/model"
	"stripe-checkout-demo/internal/repository"
	"stripe-checkout-demo/internal/server"
	"stripe-checkout-demo/internal/service"
	"stripe-checkout-demo/web"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log)

	db, err := client.InitDBClient(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("init db")
	}
	stripeClient := client.NewStripeClient(&cfg.Stripe)

	itemRepo := repository.NewItemRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	discountRepo := repository.NewDiscountRepository(db)
	taxRepo := repository.NewTaxRepository(db)

	if err := seedItems(context.Background(), itemRepo, log); err != nil {
		log.WithError(err).Fatal("seed items")
	}

	goodsService := service.NewGoodsService(
		db, stripeClient, cfg.BaseURL, cfg.Checkout.Mode,
		itemRepo,
		orderRepo,
		discountRepo,
		taxRepo,
		log,
	)

	templates, err := web.Templates()
	if err != nil {
		log.WithError(err).Fatal("parse templates")
	}

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	goodsHandler := handler.NewGoodsHandler(goodsService, cfg.BaseURL, cfg.Stripe.PublicKey, cfg.Checkout.Mode)
	srv := server.NewServer(goodsHandler, templates, cfg.Admin.JWTSecret, log)

	log.WithField("addr", serverAddr).Info("Starting HTTP server")
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("Signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("HTTP server shutdown error")
	}
}

// seedItems puts a demo item into an empty catalogue so /item/1 works out of
// the box.
func seedItems(ctx context.Context, itemRepo repository.ItemRepository, log logrus.FieldLogger) error {
	count, err := itemRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	item := &model.Item{
		Name:        "Test Item",
		Description: "Test Description",
		Price:       decimal.RequireFromString("100"),
		Currency:    model.CurrencyRUB,
	}
	if err := itemRepo.Create(ctx, item); err != nil {
		return err
	}

	log.WithField("item_id", item.ID).Info("seeded demo item")
	return nil
}

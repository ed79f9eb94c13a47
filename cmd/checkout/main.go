package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"stripe-checkout-demo/internal/browser"
	"stripe-checkout-demo/internal/checkout"
	"stripe-checkout-demo/internal/config"
	"stripe-checkout-demo/internal/logger"

	"github.com/caarlos0/env/v10"
	"github.com/go-resty/resty/v2"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// checkout opens the item page in a browser and runs the configured payment
// flow against it until interrupted.
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := run(ctx, &cfg.Checkout, log); err != nil {
		log.WithError(err).Fatal("checkout")
	}
}

func run(ctx context.Context, cfg *config.Checkout, log *logrus.Logger) error {
	session, err := browser.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer session.Close()

	consts, err := browser.ReadConstants(session.Page)
	if err != nil {
		return err
	}
	itemURL := firstNonEmpty(cfg.ItemURL, consts.ItemURL)
	returnURL := firstNonEmpty(cfg.ReturnURL, consts.ReturnURL)

	view := browser.NewDOMView(session.Page, cfg.Headless, log)
	sdk := browser.NewStripeJS(session.Page)
	fetcher := checkout.NewFetcher(resty.New())

	switch cfg.Flow {
	case config.FlowHosted:
		flow := checkout.NewHostedFlow(checkout.HostedConfig{ItemURL: itemURL}, sdk, view, fetcher, log)
		unbind, err := browser.BindBuy(ctx, session.Page, flow.Buy, log)
		if err != nil {
			return err
		}
		defer unbind()

	default:
		flow := checkout.NewEmbeddedFlow(
			checkout.EmbeddedConfig{ItemURL: itemURL, ReturnURL: returnURL},
			sdk,
			view,
			fetcher,
			checkout.NewMessageBanner(view, clockwork.NewRealClock(), log),
			checkout.NewLabels(cfg.Locale),
			log,
		)
		form, err := flow.Initialize(ctx)
		if err != nil {
			return fmt.Errorf("initialize payment form: %w", err)
		}
		unbind, err := browser.BindSubmit(ctx, session.Page, form.Submit, log)
		if err != nil {
			return err
		}
		defer unbind()
	}

	log.WithFields(logrus.Fields{"flow": cfg.Flow, "page": cfg.PageURL}).Info("checkout page ready")
	<-ctx.Done()
	log.Println("Signal received, closing browser...")
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

type HostedConfig struct {
	ItemURL string
}

// HostedFlow sends the browser to the provider-hosted checkout page.
type HostedFlow struct {
	cfg     HostedConfig
	sdk     SDK
	alerter Alerter
	fetcher *Fetcher
	log     logrus.FieldLogger
}

func NewHostedFlow(cfg HostedConfig, sdk SDK, alerter Alerter, fetcher *Fetcher, log logrus.FieldLogger) *HostedFlow {
	return &HostedFlow{
		cfg:     cfg,
		sdk:     sdk,
		alerter: alerter,
		fetcher: fetcher,
		log:     log,
	}
}

// Buy handles a click on the buy button.
func (f *HostedFlow) Buy(ctx context.Context) error {
	sessionID, err := f.fetcher.FetchSessionID(ctx, f.cfg.ItemURL)
	if err != nil {
		return fmt.Errorf("fetch session id: %w", err)
	}

	err = f.sdk.RedirectToCheckout(ctx, RedirectParams{SessionID: sessionID})
	if err == nil {
		return nil
	}

	var sdkErr *SDKError
	if !errors.As(err, &sdkErr) {
		return fmt.Errorf("redirect to checkout: %w", err)
	}

	f.log.WithField("session_id", sessionID).WithError(err).Info("redirect to checkout refused")
	if err := f.alerter.Alert(ctx, sdkErr.Message); err != nil {
		return fmt.Errorf("alert: %w", err)
	}
	return nil
}

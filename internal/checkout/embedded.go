package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

const (
	ElementsTheme        = "stripe"
	PaymentElementKind   = "payment"
	PaymentElementLayout = "accordion"
)

type EmbeddedConfig struct {
	ItemURL   string
	ReturnURL string
}

// EmbeddedFlow renders the payment element on the page and confirms the
// payment when the form is submitted.
type EmbeddedFlow struct {
	cfg     EmbeddedConfig
	sdk     SDK
	view    View
	fetcher *Fetcher
	banner  *MessageBanner
	labels  *Labels
	log     logrus.FieldLogger
}

func NewEmbeddedFlow(
	cfg EmbeddedConfig,
	sdk SDK,
	view View,
	fetcher *Fetcher,
	banner *MessageBanner,
	labels *Labels,
	log logrus.FieldLogger,
) *EmbeddedFlow {
	return &EmbeddedFlow{
		cfg:     cfg,
		sdk:     sdk,
		view:    view,
		fetcher: fetcher,
		banner:  banner,
		labels:  labels,
		log:     log,
	}
}

// PaymentForm is the mounted payment element together with the elements
// handle the submit handler confirms against.
type PaymentForm struct {
	flow     *EmbeddedFlow
	elements Elements
}

// Initialize fetches the client secret, renders the amount and mounts the
// payment element. A failed intent lookup is logged and does not stop the
// widget from being mounted.
func (f *EmbeddedFlow) Initialize(ctx context.Context) (*PaymentForm, error) {
	clientSecret, err := f.fetcher.FetchClientSecret(ctx, f.cfg.ItemURL)
	if err != nil {
		return nil, fmt.Errorf("fetch client secret: %w", err)
	}

	intent, err := f.sdk.RetrievePaymentIntent(ctx, clientSecret)
	if err != nil {
		f.log.WithError(err).Error("retrieve payment intent")
	} else if err := f.renderAmount(ctx, intent.Amount); err != nil {
		return nil, fmt.Errorf("render amount: %w", err)
	}

	elements, err := f.sdk.Elements(ctx, ElementsOptions{
		Appearance:   Appearance{Theme: ElementsTheme},
		ClientSecret: clientSecret,
	})
	if err != nil {
		return nil, fmt.Errorf("create elements: %w", err)
	}

	widget, err := elements.Create(ctx, PaymentElementKind, PaymentElementOptions{
		Layout: PaymentElementLayout,
	})
	if err != nil {
		return nil, fmt.Errorf("create payment element: %w", err)
	}

	if err := f.view.MountPaymentWidget(ctx, widget); err != nil {
		return nil, fmt.Errorf("mount payment element: %w", err)
	}

	return &PaymentForm{flow: f, elements: elements}, nil
}

func (f *EmbeddedFlow) renderAmount(ctx context.Context, minorUnits int64) error {
	existing, err := f.view.AmountText(ctx)
	if err != nil {
		return err
	}
	return f.view.SetAmountText(ctx, f.labels.Amount(minorUnits)+existing)
}

// Submit confirms the payment. A nil error means the browser has been sent
// to the return URL and the page is no longer ours, so the loading state is
// left as is. Concurrent calls are not serialized.
func (p *PaymentForm) Submit(ctx context.Context) error {
	f := p.flow

	if err := f.view.SetLoading(ctx, true); err != nil {
		return fmt.Errorf("set loading: %w", err)
	}

	err := f.sdk.ConfirmPayment(ctx, ConfirmPaymentParams{
		Elements:      p.elements,
		ConfirmParams: ConfirmParams{ReturnURL: f.cfg.ReturnURL},
	})
	if err == nil {
		return nil
	}

	message := f.labels.UnexpectedError()
	var sdkErr *SDKError
	if errors.As(err, &sdkErr) && sdkErr.UserFacing() {
		message = sdkErr.Message
	} else {
		f.log.WithError(err).Warn("confirm payment")
	}

	// the form is usable again even when the message could not be shown
	showErr := f.banner.Show(ctx, message)
	if err := f.view.SetLoading(ctx, false); err != nil {
		return fmt.Errorf("set loading: %w", err)
	}
	if showErr != nil {
		return fmt.Errorf("show message: %w", showErr)
	}
	return nil
}

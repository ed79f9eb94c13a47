package checkout

import "context"

// View is the slice of the checkout page the flows touch.
type View interface {
	AmountText(ctx context.Context) (string, error)
	SetAmountText(ctx context.Context, text string) error
	// SetMessage fills the message container and shows or hides it.
	SetMessage(ctx context.Context, text string, visible bool) error
	// SetLoading disables the submit button, shows the spinner and hides the
	// button label, or reverts all three.
	SetLoading(ctx context.Context, loading bool) error
	MountPaymentWidget(ctx context.Context, widget PaymentElement) error
}

// Alerter shows a blocking alert. It returns once the alert is dismissed.
type Alerter interface {
	Alert(ctx context.Context, message string) error
}

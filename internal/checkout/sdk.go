// Package checkout runs the two client-side payment flows of the goods shop:
// the embedded payment element and the hosted checkout redirect. Both flows
// talk to the payment SDK and the page only through the SDK and View
// interfaces.
package checkout

import (
	"context"
	"fmt"
)

const (
	ErrorTypeCard       = "card_error"
	ErrorTypeValidation = "validation_error"
)

// SDK is the pre-initialized payment SDK client of the page.
type SDK interface {
	RetrievePaymentIntent(ctx context.Context, clientSecret string) (*PaymentIntent, error)
	Elements(ctx context.Context, opts ElementsOptions) (Elements, error)
	// ConfirmPayment returns nil once the browser has been sent to the
	// return URL. Immediate failures come back as *SDKError.
	ConfirmPayment(ctx context.Context, params ConfirmPaymentParams) error
	// RedirectToCheckout returns nil once the browser has left the page.
	RedirectToCheckout(ctx context.Context, params RedirectParams) error
}

type Elements interface {
	Create(ctx context.Context, kind string, opts PaymentElementOptions) (PaymentElement, error)
}

type PaymentElement interface {
	Mount(ctx context.Context, selector string) error
}

type PaymentIntent struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type Appearance struct {
	Theme string `json:"theme"`
}

type ElementsOptions struct {
	Appearance   Appearance `json:"appearance"`
	ClientSecret string     `json:"clientSecret"`
}

type PaymentElementOptions struct {
	Layout string `json:"layout"`
}

type ConfirmParams struct {
	ReturnURL string `json:"return_url"`
}

type ConfirmPaymentParams struct {
	Elements      Elements
	ConfirmParams ConfirmParams
}

type RedirectParams struct {
	SessionID string `json:"sessionId"`
}

// SDKError is an error object reported by the SDK itself, as opposed to a
// failure to reach it.
type SDKError struct {
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (e *SDKError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// UserFacing reports whether the message is meant to be shown to the buyer.
func (e *SDKError) UserFacing() bool {
	return e.Type == ErrorTypeCard || e.Type == ErrorTypeValidation
}

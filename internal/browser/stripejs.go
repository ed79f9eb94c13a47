package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"stripe-checkout-demo/internal/checkout"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// errorJS turns an SDK error object into plain JSON.
const errorJS = `(e) => e ? {type: e.type, code: e.code, message: e.message} : null`

// StripeJS implements checkout.SDK on the page's pre-initialized `stripe`
// client. Elements and widgets stay in the page; Go holds references to them.
type StripeJS struct {
	page *rod.Page
}

func NewStripeJS(page *rod.Page) *StripeJS {
	return &StripeJS{page: page}
}

type jsElements struct {
	page *rod.Page
	obj  *proto.RuntimeRemoteObject
}

type jsPaymentElement struct {
	page *rod.Page
	obj  *proto.RuntimeRemoteObject
}

type sdkResult struct {
	PaymentIntent *checkout.PaymentIntent `json:"paymentIntent"`
	Error         *checkout.SDKError      `json:"error"`
}

func decodeResult(raw string) (*sdkResult, error) {
	var res sdkResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return nil, fmt.Errorf("decode sdk result: %w", err)
	}
	return &res, nil
}

func (s *StripeJS) call(ctx context.Context, js string, args ...interface{}) (*sdkResult, error) {
	obj, err := s.page.Context(ctx).Evaluate(rod.Eval(js, args...).ByPromise())
	if err != nil {
		return nil, err
	}
	return decodeResult(obj.Value.JSON("", ""))
}

func (s *StripeJS) RetrievePaymentIntent(ctx context.Context, clientSecret string) (*checkout.PaymentIntent, error) {
	res, err := s.call(ctx, `(secret) => stripe.retrievePaymentIntent(secret).then((r) => ({
		paymentIntent: r.paymentIntent ? {
			id: r.paymentIntent.id,
			amount: r.paymentIntent.amount,
			currency: r.paymentIntent.currency,
			status: r.paymentIntent.status,
		} : null,
		error: (`+errorJS+`)(r.error),
	}))`, clientSecret)
	if err != nil {
		return nil, fmt.Errorf("retrieve payment intent: %w", err)
	}
	if res.Error != nil {
		return nil, res.Error
	}
	if res.PaymentIntent == nil {
		return nil, errors.New("retrieve payment intent: empty result")
	}
	return res.PaymentIntent, nil
}

func (s *StripeJS) Elements(ctx context.Context, opts checkout.ElementsOptions) (checkout.Elements, error) {
	obj, err := s.page.Context(ctx).Evaluate(rod.Eval(`(opts) => stripe.elements(opts)`, opts).ByObject())
	if err != nil {
		return nil, fmt.Errorf("stripe.elements: %w", err)
	}
	return &jsElements{page: s.page, obj: obj}, nil
}

func (e *jsElements) Create(ctx context.Context, kind string, opts checkout.PaymentElementOptions) (checkout.PaymentElement, error) {
	obj, err := e.page.Context(ctx).Evaluate(
		rod.Eval(`function (kind, opts) { return this.create(kind, opts) }`, kind, opts).
			This(e.obj).
			ByObject(),
	)
	if err != nil {
		return nil, fmt.Errorf("elements.create(%s): %w", kind, err)
	}
	return &jsPaymentElement{page: e.page, obj: obj}, nil
}

func (w *jsPaymentElement) Mount(ctx context.Context, selector string) error {
	_, err := w.page.Context(ctx).Evaluate(
		rod.Eval(`function (selector) { this.mount(selector) }`, selector).This(w.obj),
	)
	if err != nil {
		return fmt.Errorf("mount %s: %w", selector, err)
	}
	return nil
}

func (s *StripeJS) ConfirmPayment(ctx context.Context, params checkout.ConfirmPaymentParams) error {
	elements, ok := params.Elements.(*jsElements)
	if !ok {
		return fmt.Errorf("confirm payment: elements %T do not belong to this page", params.Elements)
	}

	return s.leavingPage(ctx, func() (*sdkResult, error) {
		return s.call(ctx, `(elements, returnURL) => stripe.confirmPayment({
			elements,
			confirmParams: {return_url: returnURL},
		}).then((r) => ({error: (`+errorJS+`)(r.error)}))`,
			elements.obj, params.ConfirmParams.ReturnURL)
	})
}

func (s *StripeJS) RedirectToCheckout(ctx context.Context, params checkout.RedirectParams) error {
	return s.leavingPage(ctx, func() (*sdkResult, error) {
		return s.call(ctx, `(sessionId) => stripe.redirectToCheckout({sessionId})
			.then((r) => ({error: (`+errorJS+`)(r.error)}))`, params.SessionID)
	})
}

// leavingPage runs an SDK call that navigates away on success. The
// evaluation dies together with the page in that case, which is reported
// as success when the page URL has changed.
func (s *StripeJS) leavingPage(ctx context.Context, call func() (*sdkResult, error)) error {
	before, err := s.page.Context(ctx).Info()
	if err != nil {
		return fmt.Errorf("page info: %w", err)
	}

	res, err := call()
	if err != nil {
		after, infoErr := s.page.Context(ctx).Info()
		if infoErr == nil && after.URL != before.URL {
			return nil
		}
		return err
	}

	if res.Error != nil {
		return res.Error
	}
	return nil
}

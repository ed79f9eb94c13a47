package browser

import (
	"context"
	"fmt"

	"stripe-checkout-demo/internal/checkout"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
)

// DOMView implements checkout.View and checkout.Alerter on the page.
type DOMView struct {
	page *rod.Page
	// acceptAlerts dismisses alerts on its own, for headless runs where
	// nobody can click them away.
	acceptAlerts bool
	log          logrus.FieldLogger
}

func NewDOMView(page *rod.Page, acceptAlerts bool, log logrus.FieldLogger) *DOMView {
	return &DOMView{page: page, acceptAlerts: acceptAlerts, log: log}
}

func (v *DOMView) element(ctx context.Context, selector string) (*rod.Element, error) {
	el, err := v.page.Context(ctx).Element(selector)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", selector, err)
	}
	return el, nil
}

func (v *DOMView) AmountText(ctx context.Context) (string, error) {
	el, err := v.element(ctx, SelectorAmount)
	if err != nil {
		return "", err
	}
	// textContent keeps the leading whitespace innerText drops
	res, err := el.Eval(`() => this.textContent`)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

func (v *DOMView) SetAmountText(ctx context.Context, text string) error {
	el, err := v.element(ctx, SelectorAmount)
	if err != nil {
		return err
	}
	_, err = el.Eval(`(text) => { this.textContent = text }`, text)
	return err
}

func (v *DOMView) SetMessage(ctx context.Context, text string, visible bool) error {
	el, err := v.element(ctx, SelectorMessage)
	if err != nil {
		return err
	}
	_, err = el.Eval(`(text, visible, hidden) => {
		this.classList.toggle(hidden, !visible)
		this.textContent = text
	}`, text, visible, hiddenClass)
	return err
}

func (v *DOMView) SetLoading(ctx context.Context, loading bool) error {
	_, err := v.page.Context(ctx).Eval(`(loading, submit, spinner, label, hidden) => {
		document.querySelector(submit).disabled = loading
		document.querySelector(spinner).classList.toggle(hidden, !loading)
		document.querySelector(label).classList.toggle(hidden, loading)
	}`, loading, SelectorSubmit, SelectorSpinner, SelectorButtonText, hiddenClass)
	return err
}

func (v *DOMView) MountPaymentWidget(ctx context.Context, widget checkout.PaymentElement) error {
	return widget.Mount(ctx, SelectorPaymentElement)
}

func (v *DOMView) Alert(ctx context.Context, message string) error {
	page := v.page.Context(ctx)

	if v.acceptAlerts {
		wait, handle := page.HandleDialog()
		go func() {
			dialog := wait()
			v.log.WithField("message", dialog.Message).Info("alert accepted")
			if err := handle(&proto.PageHandleJavaScriptDialog{Accept: true}); err != nil {
				v.log.WithError(err).Warn("accept alert")
			}
		}()
	}

	_, err := page.Eval(`(message) => alert(message)`, message)
	return err
}

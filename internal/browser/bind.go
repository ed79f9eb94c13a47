package browser

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/sirupsen/logrus"
	"github.com/ysmood/gson"
)

// Handler is a Go function run for a DOM event.
type Handler func(ctx context.Context) error

// BindSubmit runs handler whenever the payment form is submitted. The
// native submission is prevented in the page.
func BindSubmit(ctx context.Context, page *rod.Page, handler Handler, log logrus.FieldLogger) (func() error, error) {
	return bind(ctx, page, "checkoutSubmit", SelectorForm, "submit", handler, log)
}

// BindBuy runs handler whenever the buy button is clicked.
func BindBuy(ctx context.Context, page *rod.Page, handler Handler, log logrus.FieldLogger) (func() error, error) {
	return bind(ctx, page, "checkoutBuy", SelectorBuyButton, "click", handler, log)
}

// bind exposes handler on window under name and forwards the event to it.
// Every event gets its own goroutine, so a second event does not wait for
// the first one to finish.
func bind(
	ctx context.Context,
	page *rod.Page,
	name, selector, event string,
	handler Handler,
	log logrus.FieldLogger,
) (func() error, error) {
	entry := log.WithFields(logrus.Fields{"selector": selector, "event": event})

	stop, err := page.Expose(name, func(gson.JSON) (interface{}, error) {
		go func() {
			if err := handler(ctx); err != nil {
				entry.WithError(err).Error("checkout handler failed")
			}
		}()
		return nil, nil
	})
	if err != nil {
		return nil, fmt.Errorf("expose %s: %w", name, err)
	}

	_, err = page.Context(ctx).Eval(`(name, selector, event) => {
		document.querySelector(selector).addEventListener(event, (e) => {
			e.preventDefault()
			window[name]()
		})
	}`, name, selector, event)
	if err != nil {
		_ = stop()
		return nil, fmt.Errorf("listen %s %s: %w", selector, event, err)
	}

	return stop, nil
}

// Package browser binds the checkout flows to a real checkout page driven
// over the Chrome DevTools protocol.
package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"stripe-checkout-demo/internal/config"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DOM contract of the checkout page.
const (
	SelectorForm           = "#payment-form"
	SelectorSubmit         = "#submit"
	SelectorSpinner        = "#spinner"
	SelectorButtonText     = "#button-text"
	SelectorPaymentElement = "#payment-element"
	SelectorMessage        = "#payment-message"
	SelectorAmount         = "#pi-amount"
	SelectorBuyButton      = "#buy-btn"

	hiddenClass = "hidden"
)

type Session struct {
	Browser *rod.Browser
	Page    *rod.Page
}

// Open connects to cfg.BrowserURL, or launches a local browser when it is
// empty, and loads cfg.PageURL.
func Open(ctx context.Context, cfg *config.Checkout) (*Session, error) {
	controlURL := cfg.BrowserURL
	if controlURL == "" {
		u, err := launcher.New().Headless(cfg.Headless).Launch()
		if err != nil {
			return nil, fmt.Errorf("launch browser: %w", err)
		}
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: cfg.PageURL})
	if err != nil {
		_ = browser.Close()
		return nil, fmt.Errorf("open %s: %w", cfg.PageURL, err)
	}

	if err := page.WaitLoad(); err != nil {
		_ = browser.Close()
		return nil, fmt.Errorf("wait page load: %w", err)
	}

	return &Session{Browser: browser, Page: page}, nil
}

func (s *Session) Close() error {
	return s.Browser.Close()
}

// PageConstants are the values the page template defines before any
// checkout script runs.
type PageConstants struct {
	ItemURL   string `json:"itemURL"`
	ReturnURL string `json:"returnURL"`
}

func ReadConstants(page *rod.Page) (*PageConstants, error) {
	res, err := page.Eval(`() => ({
		itemURL: typeof item_url === "undefined" ? "" : item_url,
		returnURL: typeof complete_url === "undefined" ? "" : complete_url,
	})`)
	if err != nil {
		return nil, fmt.Errorf("read page constants: %w", err)
	}

	var consts PageConstants
	if err := json.Unmarshal([]byte(res.Value.JSON("", "")), &consts); err != nil {
		return nil, fmt.Errorf("decode page constants: %w", err)
	}
	return &consts, nil
}

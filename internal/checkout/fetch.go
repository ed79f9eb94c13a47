package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"stripe-checkout-demo/internal/dto"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
)

var ErrMalformedPayload = errors.New("malformed payload")

// Fetcher reads the small JSON payloads the shop backend hands to the page.
type Fetcher struct {
	client   *resty.Client
	validate *validator.Validate
}

func NewFetcher(client *resty.Client) *Fetcher {
	if client == nil {
		client = resty.New()
	}
	return &Fetcher{
		client:   client,
		validate: validator.New(),
	}
}

func (f *Fetcher) FetchClientSecret(ctx context.Context, url string) (string, error) {
	var payload dto.IntentPayload
	if err := f.get(ctx, url, &payload); err != nil {
		return "", err
	}
	return payload.ClientSecret, nil
}

func (f *Fetcher) FetchSessionID(ctx context.Context, url string) (string, error) {
	var payload dto.SessionPayload
	if err := f.get(ctx, url, &payload); err != nil {
		return "", err
	}
	return payload.SessionID, nil
}

func (f *Fetcher) get(ctx context.Context, url string, out any) error {
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		Get(url)
	if err != nil {
		return fmt.Errorf("get %s: %w", url, err)
	}

	if resp.IsError() {
		return fmt.Errorf("%w: %s answered %d", ErrMalformedPayload, url, resp.StatusCode())
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrMalformedPayload, url, err)
	}

	if err := f.validate.StructCtx(ctx, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	return nil
}

package checkout

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
)

type mockSDK struct {
	mock.Mock
}

func (m *mockSDK) RetrievePaymentIntent(ctx context.Context, clientSecret string) (*PaymentIntent, error) {
	args := m.Called(ctx, clientSecret)
	intent, _ := args.Get(0).(*PaymentIntent)
	return intent, args.Error(1)
}

func (m *mockSDK) Elements(ctx context.Context, opts ElementsOptions) (Elements, error) {
	args := m.Called(ctx, opts)
	elements, _ := args.Get(0).(Elements)
	return elements, args.Error(1)
}

func (m *mockSDK) ConfirmPayment(ctx context.Context, params ConfirmPaymentParams) error {
	return m.Called(ctx, params).Error(0)
}

func (m *mockSDK) RedirectToCheckout(ctx context.Context, params RedirectParams) error {
	return m.Called(ctx, params).Error(0)
}

type fakeElements struct {
	mu      sync.Mutex
	created []string
	options []PaymentElementOptions
	widget  *fakeWidget
}

func (e *fakeElements) Create(_ context.Context, kind string, opts PaymentElementOptions) (PaymentElement, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.created = append(e.created, kind)
	e.options = append(e.options, opts)
	return e.widget, nil
}

type fakeWidget struct {
	mu        sync.Mutex
	mountedAt []string
}

func (w *fakeWidget) Mount(_ context.Context, selector string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.mountedAt = append(w.mountedAt, selector)
	return nil
}

type fakeView struct {
	mu             sync.Mutex
	amount         string
	message        string
	messageVisible bool
	loading        []bool
	mounted        []PaymentElement
	messageErr     error
}

func (v *fakeView) AmountText(context.Context) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.amount, nil
}

func (v *fakeView) SetAmountText(_ context.Context, text string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.amount = text
	return nil
}

func (v *fakeView) SetMessage(_ context.Context, text string, visible bool) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.messageErr != nil {
		return v.messageErr
	}
	v.message = text
	v.messageVisible = visible
	return nil
}

func (v *fakeView) SetLoading(_ context.Context, loading bool) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = append(v.loading, loading)
	return nil
}

func (v *fakeView) MountPaymentWidget(ctx context.Context, widget PaymentElement) error {
	v.mu.Lock()
	v.mounted = append(v.mounted, widget)
	v.mu.Unlock()
	return widget.Mount(ctx, "#payment-element")
}

func (v *fakeView) Message() (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.message, v.messageVisible
}

func (v *fakeView) Amount() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.amount
}

func (v *fakeView) Loading() []bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]bool(nil), v.loading...)
}

type fakeAlerter struct {
	mu       sync.Mutex
	messages []string
}

func (a *fakeAlerter) Alert(_ context.Context, message string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.messages = append(a.messages, message)
	return nil
}

// serveJSON starts an endpoint answering every request with status and body.
func serveJSON(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"stripe-checkout-demo/internal/config"
	"stripe-checkout-demo/internal/dto"
	"stripe-checkout-demo/internal/handler"
	appmiddleware "stripe-checkout-demo/internal/middleware"
	"stripe-checkout-demo/internal/model"
	"stripe-checkout-demo/internal/service"
	"stripe-checkout-demo/web"

	"github.com/gavv/httpexpect/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGoodsService struct {
	mu          sync.Mutex
	item        *model.Item
	sessionKeys []string
}

func (s *fakeGoodsService) GetItem(_ context.Context, itemID uint) (*model.Item, error) {
	if itemID != s.item.ID {
		return nil, service.ErrItemNotFound
	}
	return s.item, nil
}

func (s *fakeGoodsService) Buy(ctx context.Context, sessionKey string, itemID uint) (*dto.BuyResponse, error) {
	if _, err := s.GetItem(ctx, itemID); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.sessionKeys = append(s.sessionKeys, sessionKey)
	s.mu.Unlock()
	return &dto.BuyResponse{ClientSecret: "pi_1_secret_abc"}, nil
}

func (s *fakeGoodsService) CreateDiscount(_ context.Context, name string, percentage uint) (*model.Discount, error) {
	return &model.Discount{ID: 1, Name: name, Percentage: percentage, StripeID: "co_1"}, nil
}

func (s *fakeGoodsService) CreateTax(_ context.Context, name string, percentage uint) (*model.Tax, error) {
	return &model.Tax{ID: 1, Name: name, Percentage: percentage, StripeID: "txr_1"}, nil
}

func (s *fakeGoodsService) HandleWebhook(_ context.Context, signature string, body []byte) error {
	if string(body) == `{"order_id":"9999"}` {
		return service.ErrOrderNotFound
	}
	if signature != "valid" {
		return errors.New("no signatures found matching the expected signature")
	}
	return nil
}

const testAdminSecret = "admin-secret"

func newTestServer(t *testing.T, mode string) (*httpexpect.Expect, *fakeGoodsService) {
	t.Helper()
	return newTestServerWithSecret(t, mode, testAdminSecret)
}

func newTestServerWithSecret(t *testing.T, mode, adminSecret string) (*httpexpect.Expect, *fakeGoodsService) {
	t.Helper()

	goods := &fakeGoodsService{item: &model.Item{
		ID:          1,
		Name:        "Test Item",
		Description: "Test Description",
		Price:       decimal.RequireFromString("100"),
		Currency:    model.CurrencyRUB,
	}}

	templates, err := web.Templates()
	require.NoError(t, err)
	log, _ := test.NewNullLogger()

	srv := NewServer(handler.NewGoodsHandler(goods, "http://shop.test", "pk_test_1", mode), templates, adminSecret, log)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return httpexpect.Default(t, ts.URL), goods
}

func TestHealth(t *testing.T) {
	e, _ := newTestServer(t, config.ModeIntent)
	e.GET("/api/health").Expect().Status(http.StatusOK).JSON().Object().Value("status").String().IsEqual("ok")
}

func TestItemPage(t *testing.T) {
	e, _ := newTestServer(t, config.ModeIntent)

	body := e.GET("/item/1").Expect().Status(http.StatusOK).Body()
	body.Contains("Test Item")
	body.Contains("Test Description")
	body.Contains("100.00")
	body.Contains("₽")
	body.Contains(`id="payment-form"`)
	body.Contains(`id="pi-amount"`)
	body.Contains("http://shop.test/buy/1")
	body.Contains("http://shop.test/complete/")
	body.NotContains(`id="buy-btn"`)

	e.GET("/item/214").Expect().Status(http.StatusNotFound)
	e.GET("/item/abc").Expect().Status(http.StatusNotFound)
}

func TestItemPageHostedMode(t *testing.T) {
	e, _ := newTestServer(t, config.ModeSession)

	body := e.GET("/item/1").Expect().Status(http.StatusOK).Body()
	body.Contains(`id="buy-btn"`)
	body.NotContains(`id="payment-form"`)
}

func TestBuyUsesSessionCookie(t *testing.T) {
	e, goods := newTestServer(t, config.ModeIntent)

	resp := e.GET("/buy/1").Expect().Status(http.StatusOK)
	secret := resp.JSON().Object().Value("clientSecret").String().Raw()
	assert.True(t, strings.HasPrefix(secret, "pi_"))

	cookie := resp.Cookie("sessionid").Value().NotEmpty().Raw()

	// the cookie jar of the expect client sends the key back
	e.GET("/buy/1").Expect().Status(http.StatusOK)

	require.Len(t, goods.sessionKeys, 2)
	assert.Equal(t, cookie, goods.sessionKeys[0])
	assert.Equal(t, cookie, goods.sessionKeys[1])

	e.GET("/buy/214").Expect().Status(http.StatusNotFound)
}

func TestCreateAdjustments(t *testing.T) {
	e, _ := newTestServer(t, config.ModeIntent)
	token, err := appmiddleware.NewAdminToken(testAdminSecret, "ops", time.Hour)
	require.NoError(t, err)
	admin := e.Builder(func(req *httpexpect.Request) {
		req.WithHeader("Authorization", "Bearer "+token)
	})

	admin.POST("/api/discounts").WithJSON(map[string]any{"name": "Spring", "percentage": 15}).
		Expect().Status(http.StatusCreated).
		JSON().Object().Value("StripeID").String().IsEqual("co_1")

	admin.POST("/api/taxes").WithJSON(map[string]any{"name": "VAT", "percentage": 20}).
		Expect().Status(http.StatusCreated)

	admin.POST("/api/discounts").WithJSON(map[string]any{"name": "Too much", "percentage": 150}).
		Expect().Status(http.StatusBadRequest)

	admin.POST("/api/taxes").WithJSON(map[string]any{"percentage": 5}).
		Expect().Status(http.StatusBadRequest)
}

func TestCreateAdjustmentsNeedAdminToken(t *testing.T) {
	e, _ := newTestServer(t, config.ModeIntent)

	e.POST("/api/discounts").WithJSON(map[string]any{"name": "Spring", "percentage": 15}).
		Expect().Status(http.StatusUnauthorized)
	e.POST("/api/taxes").WithJSON(map[string]any{"name": "VAT", "percentage": 20}).
		WithHeader("Authorization", "Bearer not-a-token").
		Expect().Status(http.StatusUnauthorized)
}

func TestCreateAdjustmentsDisabledWithoutSecret(t *testing.T) {
	e, _ := newTestServerWithSecret(t, config.ModeIntent, "")

	e.POST("/api/discounts").WithJSON(map[string]any{"name": "Spring", "percentage": 15}).
		Expect().Status(http.StatusNotFound)
}

func TestStripeWebhook(t *testing.T) {
	e, _ := newTestServer(t, config.ModeIntent)

	e.POST("/webhook/stripe").WithHeader("Stripe-Signature", "valid").WithBytes([]byte(`{}`)).
		Expect().Status(http.StatusOK)

	e.POST("/webhook/stripe").WithHeader("Stripe-Signature", "forged").WithBytes([]byte(`{}`)).
		Expect().Status(http.StatusBadRequest)

	e.POST("/webhook/stripe").WithHeader("Stripe-Signature", "valid").WithBytes([]byte(`{"order_id":"9999"}`)).
		Expect().Status(http.StatusNotFound).
		JSON().Object().Value("error").String().IsEqual("Order not found")
}

func TestShutdownStopsServer(t *testing.T) {
	templates, err := web.Templates()
	require.NoError(t, err)
	log, _ := test.NewNullLogger()
	srv := NewServer(handler.NewGoodsHandler(&fakeGoodsService{}, "http://shop.test", "pk_test_1", config.ModeIntent), templates, "", log)

	errc := make(chan error, 1)
	go func() { errc <- srv.Start("127.0.0.1:0") }()
	require.Eventually(t, func() bool { return srv.Handler().ListenerAddr() != nil }, 5*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	assert.ErrorIs(t, <-errc, http.ErrServerClosed)
}

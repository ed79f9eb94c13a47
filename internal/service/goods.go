package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"stripe-checkout-demo/internal/client"
	"stripe-checkout-demo/internal/config"
	"stripe-checkout-demo/internal/dto"
	"stripe-checkout-demo/internal/model"
	"stripe-checkout-demo/internal/repository"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v81"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	buyResponseTTL = 60 * time.Second

	// for demo purpose: every purchase gets the first discount and the
	// first tax when they exist
	defaultDiscountID = 1
	defaultTaxID      = 1

	metadataOrderID = "order_id"
)

var (
	ErrItemNotFound      = errors.New("item not found")
	ErrMixedCurrency     = errors.New("all items of an order must share one currency")
	ErrInvalidPercentage = errors.New("percentage must be between 0 and 100")
	ErrOrderNotFound     = errors.New("order not found")
)

type GoodsService interface {
	GetItem(ctx context.Context, itemID uint) (*model.Item, error)
	// Buy prepares a payment for one item and returns the client secret or
	// the checkout session id, depending on the checkout mode. Answers are
	// reused for the same session and item for a minute.
	Buy(ctx context.Context, sessionKey string, itemID uint) (*dto.BuyResponse, error)
	CreateDiscount(ctx context.Context, name string, percentage uint) (*model.Discount, error)
	CreateTax(ctx context.Context, name string, percentage uint) (*model.Tax, error)
	HandleWebhook(ctx context.Context, signature string, body []byte) error
}

type goodsServiceImpl struct {
	db             *gorm.DB
	stripeClient   client.StripeClient
	serviceBaseUrl string
	mode           string
	itemRepo       repository.ItemRepository
	orderRepo      repository.OrderRepository
	discountRepo   repository.DiscountRepository
	taxRepo        repository.TaxRepository
	responses      *cache.Cache
	log            logrus.FieldLogger
}

func NewGoodsService(
	db *gorm.DB,
	stripeClient client.StripeClient,
	serviceBaseUrl string,
	mode string,
	itemRepo repository.ItemRepository,
	orderRepo repository.OrderRepository,
	discountRepo repository.DiscountRepository,
	taxRepo repository.TaxRepository,
	log logrus.FieldLogger,
) GoodsService {
	return &goodsServiceImpl{
		db:             db,
		stripeClient:   stripeClient,
		serviceBaseUrl: serviceBaseUrl,
		mode:           mode,
		itemRepo:       itemRepo,
		orderRepo:      orderRepo,
		discountRepo:   discountRepo,
		taxRepo:        taxRepo,
		responses:      cache.New(buyResponseTTL, 2*buyResponseTTL),
		log:            log,
	}
}

func (s *goodsServiceImpl) GetItem(ctx context.Context, itemID uint) (*model.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func (s *goodsServiceImpl) Buy(ctx context.Context, sessionKey string, itemID uint) (*dto.BuyResponse, error) {
	cacheKey := fmt.Sprintf("session_buy_%s_%d", sessionKey, itemID)
	if cached, ok := s.responses.Get(cacheKey); ok {
		return cached.(*dto.BuyResponse), nil
	}

	item, err := s.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	discount, err := s.discountRepo.FindByID(ctx, defaultDiscountID)
	if err != nil {
		return nil, fmt.Errorf("get discount: %w", err)
	}
	tax, err := s.taxRepo.FindByID(ctx, defaultTaxID)
	if err != nil {
		return nil, fmt.Errorf("get tax: %w", err)
	}

	order, err := s.createOrGetOrder(ctx, sessionKey, []model.Item{*item}, discount, tax)
	if err != nil {
		return nil, err
	}

	var resp *dto.BuyResponse
	if s.mode == config.ModeSession {
		resp, err = s.createCheckoutSession(ctx, order)
	} else {
		resp, err = s.createPaymentIntent(ctx, order)
	}
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"item_id":  itemID,
		"mode":     s.mode,
	}).Info("payment prepared")

	s.responses.Set(cacheKey, resp, buyResponseTTL)
	return resp, nil
}

// createOrGetOrder reuses the open order of the session, or creates one, and
// puts items, discount and tax on it.
func (s *goodsServiceImpl) createOrGetOrder(
	ctx context.Context,
	sessionKey string,
	items []model.Item,
	discount *model.Discount,
	tax *model.Tax,
) (*model.Order, error) {
	currency, err := orderCurrency(items)
	if err != nil {
		return nil, err
	}

	var order *model.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err = s.orderRepo.FindOpenBySession(ctx, tx, sessionKey)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			order = &model.Order{
				SessionKey: sessionKey,
				Status:     model.OrderStatusCreated,
				Currency:   currency,
			}
			err = s.orderRepo.Create(ctx, tx, order)
		}
		if err != nil {
			return fmt.Errorf("store order in db: %w", err)
		}

		order.Currency = currency
		order.Discount, order.DiscountID = discount, nil
		if discount != nil {
			order.DiscountID = &discount.ID
		}
		order.Tax, order.TaxID = tax, nil
		if tax != nil {
			order.TaxID = &tax.ID
		}

		if err := s.orderRepo.SetContents(ctx, tx, order, items); err != nil {
			return fmt.Errorf("store order items in db: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func orderCurrency(items []model.Item) (string, error) {
	currency := model.CurrencyUSD
	for i, item := range items {
		if i > 0 && item.Currency != currency {
			return "", ErrMixedCurrency
		}
		currency = item.Currency
	}
	return currency, nil
}

// toMinorUnits converts a price to cents or kopecks, dropping fractions.
func toMinorUnits(price decimal.Decimal) int64 {
	return price.Mul(decimal.NewFromInt(100)).IntPart()
}

// percentOf returns trunc(amount * percent / 100).
func percentOf(amount int64, percent float64) int64 {
	return decimal.NewFromInt(amount).
		Mul(decimal.NewFromFloat(percent)).
		Div(decimal.NewFromInt(100)).
		IntPart()
}

// calculateTotal sums the order in minor units, takes the coupon off and
// adds the tax rate on top of the discounted sum.
func (s *goodsServiceImpl) calculateTotal(ctx context.Context, order *model.Order) (int64, error) {
	sum := decimal.Zero
	for _, item := range order.Items {
		sum = sum.Add(item.Price)
	}
	total := toMinorUnits(sum)

	var coupon *stripe.Coupon
	var taxRate *stripe.TaxRate

	g, gctx := errgroup.WithContext(ctx)
	if order.Discount != nil && order.Discount.StripeID != "" {
		g.Go(func() (err error) {
			coupon, err = s.stripeClient.GetCoupon(gctx, order.Discount.StripeID)
			return err
		})
	}
	if order.Tax != nil && order.Tax.StripeID != "" {
		g.Go(func() (err error) {
			taxRate, err = s.stripeClient.GetTaxRate(gctx, order.Tax.StripeID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("stripe api get adjustments: %w", err)
	}

	if coupon != nil && coupon.PercentOff > 0 {
		total -= percentOf(total, coupon.PercentOff)
	}
	if taxRate != nil && taxRate.Percentage > 0 {
		total += percentOf(total, taxRate.Percentage)
	}
	return total, nil
}

func (s *goodsServiceImpl) createPaymentIntent(ctx context.Context, order *model.Order) (*dto.BuyResponse, error) {
	amount, err := s.calculateTotal(ctx, order)
	if err != nil {
		return nil, err
	}

	pi, err := s.stripeClient.CreatePaymentIntent(ctx, amount, order.Currency, map[string]string{
		metadataOrderID: strconv.FormatUint(uint64(order.ID), 10),
	})
	if err != nil {
		return nil, fmt.Errorf("stripe api create payment intent: %w", err)
	}

	return &dto.BuyResponse{ClientSecret: pi.ClientSecret}, nil
}

func (s *goodsServiceImpl) createCheckoutSession(ctx context.Context, order *model.Order) (*dto.BuyResponse, error) {
	orderID := strconv.FormatUint(uint64(order.ID), 10)
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.serviceBaseUrl + "/success/"),
		CancelURL:  stripe.String(s.serviceBaseUrl + "/cancel/"),
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: map[string]string{metadataOrderID: orderID},
		},
	}
	params.AddMetadata(metadataOrderID, orderID)

	for _, item := range order.Items {
		lineItem := &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(order.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(item.Name),
					Description: stripe.String(item.Description),
				},
				UnitAmount: stripe.Int64(toMinorUnits(item.Price)),
			},
			Quantity: stripe.Int64(1),
		}
		if order.Tax != nil && order.Tax.StripeID != "" {
			lineItem.TaxRates = stripe.StringSlice([]string{order.Tax.StripeID})
		}
		params.LineItems = append(params.LineItems, lineItem)
	}

	if order.Discount != nil && order.Discount.StripeID != "" {
		params.Discounts = []*stripe.CheckoutSessionDiscountParams{
			{Coupon: stripe.String(order.Discount.StripeID)},
		}
	}

	session, err := s.stripeClient.CreateCheckoutSession(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("stripe api create checkout session: %w", err)
	}

	return &dto.BuyResponse{SessionID: session.ID}, nil
}

func (s *goodsServiceImpl) CreateDiscount(ctx context.Context, name string, percentage uint) (*model.Discount, error) {
	if percentage > 100 {
		return nil, ErrInvalidPercentage
	}

	coupon, err := s.stripeClient.CreateCoupon(ctx, name, float64(percentage))
	if err != nil {
		return nil, fmt.Errorf("stripe api create coupon: %w", err)
	}

	discount := &model.Discount{Name: name, Percentage: percentage, StripeID: coupon.ID}
	if err := s.discountRepo.Create(ctx, discount); err != nil {
		return nil, fmt.Errorf("store discount in db: %w", err)
	}
	return discount, nil
}

func (s *goodsServiceImpl) CreateTax(ctx context.Context, name string, percentage uint) (*model.Tax, error) {
	if percentage > 100 {
		return nil, ErrInvalidPercentage
	}

	rate, err := s.stripeClient.CreateTaxRate(ctx, name, float64(percentage))
	if err != nil {
		return nil, fmt.Errorf("stripe api create tax rate: %w", err)
	}

	tax := &model.Tax{Name: name, Percentage: percentage, StripeID: rate.ID}
	if err := s.taxRepo.Create(ctx, tax); err != nil {
		return nil, fmt.Errorf("store tax in db: %w", err)
	}
	return tax, nil
}

func (s *goodsServiceImpl) HandleWebhook(ctx context.Context, signature string, body []byte) error {
	event, err := s.stripeClient.ConstructEvent(body, signature)
	if err != nil {
		return fmt.Errorf("verify webhook signature: %w", err)
	}

	var from []string
	var status string
	var objectID string
	var metadata map[string]string
	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return fmt.Errorf("decode webhook payload: %w", err)
		}
		objectID, metadata = session.ID, session.Metadata
		from, status = []string{model.OrderStatusCreated}, model.OrderStatusInProgress
	case stripe.EventTypePaymentIntentProcessing, stripe.EventTypePaymentIntentSucceeded:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return fmt.Errorf("decode webhook payload: %w", err)
		}
		objectID, metadata = pi.ID, pi.Metadata
		if event.Type == stripe.EventTypePaymentIntentProcessing {
			from, status = []string{model.OrderStatusCreated}, model.OrderStatusInProgress
		} else {
			from, status = []string{model.OrderStatusCreated, model.OrderStatusInProgress}, model.OrderStatusDone
		}
	default:
		return nil
	}

	entry := s.log.WithFields(logrus.Fields{"event_id": event.ID, "event_type": event.Type, "object_id": objectID})

	orderID, err := strconv.ParseUint(metadata[metadataOrderID], 10, 64)
	if err != nil {
		entry.Warn("webhook object carries no order id")
		return nil
	}

	changed, err := s.orderRepo.UpdateStatus(ctx, uint(orderID), from, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if !changed {
		// either the order is gone or it is already past this status
		if _, err := s.orderRepo.FindByID(ctx, uint(orderID)); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("get order: %w", err)
		}
	}
	entry.WithFields(logrus.Fields{"order_id": orderID, "status": status, "changed": changed}).Info("order status")
	return nil
}

package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"stripe-checkout-demo/internal/config"
	"stripe-checkout-demo/internal/dto"
	"stripe-checkout-demo/internal/middleware"
	"stripe-checkout-demo/internal/model"
	"stripe-checkout-demo/internal/service"

	"github.com/labstack/echo/v4"
)

// ItemPage is the data of the item template.
type ItemPage struct {
	Title           string
	Item            *model.Item
	ItemBuyURL      string
	CompleteURL     string
	StripePublicKey string
	Hosted          bool
}

type StaticPage struct {
	Title string
}

type GoodsHandler struct {
	goodsService    service.GoodsService
	serviceBaseUrl  string
	stripePublicKey string
	mode            string
}

func NewGoodsHandler(goodsService service.GoodsService, serviceBaseUrl, stripePublicKey, mode string) *GoodsHandler {
	return &GoodsHandler{
		goodsService:    goodsService,
		serviceBaseUrl:  serviceBaseUrl,
		stripePublicKey: stripePublicKey,
		mode:            mode,
	}
}

func itemIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, "Item not found")
	}
	return uint(id), nil
}

func httpError(err error) error {
	switch {
	case errors.Is(err, service.ErrItemNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Item not found")
	case errors.Is(err, service.ErrMixedCurrency), errors.Is(err, service.ErrInvalidPercentage):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return err
	}
}

func (h *GoodsHandler) Item(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := itemIDParam(c)
	if err != nil {
		return err
	}

	item, err := h.goodsService.GetItem(ctx, id)
	if err != nil {
		return httpError(err)
	}

	return c.Render(http.StatusOK, "item.html", &ItemPage{
		Title:           "Item",
		Item:            item,
		ItemBuyURL:      fmt.Sprintf("%s/buy/%d", h.serviceBaseUrl, item.ID),
		CompleteURL:     h.serviceBaseUrl + "/complete/",
		StripePublicKey: h.stripePublicKey,
		Hosted:          h.mode == config.ModeSession,
	})
}

func (h *GoodsHandler) Buy(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := itemIDParam(c)
	if err != nil {
		return err
	}

	result, err := h.goodsService.Buy(ctx, middleware.SessionKey(c), id)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, result)
}

func (h *GoodsHandler) Complete(c echo.Context) error {
	return c.Render(http.StatusOK, "complete.html", &ItemPage{
		Title:           "Payment complete",
		StripePublicKey: h.stripePublicKey,
	})
}

func (h *GoodsHandler) Success(c echo.Context) error {
	return c.Render(http.StatusOK, "success.html", &StaticPage{Title: "Thank you for your order"})
}

func (h *GoodsHandler) Cancel(c echo.Context) error {
	return c.Render(http.StatusOK, "cancel.html", &StaticPage{Title: "Purchase cancelled"})
}

func (h *GoodsHandler) CreateDiscount(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateAdjustmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	discount, err := h.goodsService.CreateDiscount(ctx, req.Name, req.Percentage)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, discount)
}

func (h *GoodsHandler) CreateTax(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateAdjustmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tax, err := h.goodsService.CreateTax(ctx, req.Name, req.Percentage)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, tax)
}

func (h *GoodsHandler) StripeWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	err = h.goodsService.HandleWebhook(ctx, c.Request().Header.Get("Stripe-Signature"), body)
	if errors.Is(err, service.ErrOrderNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Order not found"})
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("handle webhook: %v", err))
	}

	return c.NoContent(http.StatusOK)
}

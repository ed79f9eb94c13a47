package server

import (
	"context"
	"html/template"
	"io"
	"stripe-checkout-demo/internal/handler"
	appmiddleware "stripe-checkout-demo/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

type Server struct {
	echo         *echo.Echo
	goodsHandler *handler.GoodsHandler
	adminSecret  string
	log          logrus.FieldLogger
}

type templateRenderer struct {
	templates *template.Template
}

func (r *templateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// NewServer routes the shop. The admin endpoints need a bearer token signed
// with adminSecret and are left out when it is empty.
func NewServer(goodsHandler *handler.GoodsHandler, templates *template.Template, adminSecret string, log logrus.FieldLogger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Renderer = &templateRenderer{templates: templates}
	e.Validator = &requestValidator{validate: validator.New()}

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := log.WithFields(logrus.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency.String(),
			})
			if v.Error != nil {
				entry.WithError(v.Error).Warn("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:         e,
		goodsHandler: goodsHandler,
		adminSecret:  adminSecret,
		log:          log,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	pages := s.echo.Group("", appmiddleware.SessionMiddleware())
	pages.GET("/item/:id", s.goodsHandler.Item)
	pages.GET("/buy/:id", s.goodsHandler.Buy)
	pages.GET("/complete/", s.goodsHandler.Complete)
	pages.GET("/success/", s.goodsHandler.Success)
	pages.GET("/cancel/", s.goodsHandler.Cancel)

	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	if s.adminSecret != "" {
		adminOnly := appmiddleware.AuthMiddleware(s.adminSecret)
		api.POST("/discounts", s.goodsHandler.CreateDiscount, adminOnly)
		api.POST("/taxes", s.goodsHandler.CreateTax, adminOnly)
	} else {
		s.log.Warn("ADMIN_JWT_SECRET is empty, discount and tax endpoints are disabled")
	}

	// -------- stripe webhooks --------
	s.echo.POST("/webhook/stripe", s.goodsHandler.StripeWebhook)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() *echo.Echo {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

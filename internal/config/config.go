package config

import "time"

type Config struct {
	Environment    Environment
	Log            Log
	HTTP           HTTPServer
	BaseURL        string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"sqlite"` // sqlite | mysql
	DatabaseURL    string `env:"DATABASE_URL" envDefault:"goods.db"`

	Stripe   Stripe   `envPrefix:"STRIPE_"`
	Checkout Checkout `envPrefix:"CHECKOUT_"`
	Admin    Admin    `envPrefix:"ADMIN_"`
}

// Admin guards the endpoints that create Stripe coupons and tax rates. They
// are not routed when JWTSecret is empty.
type Admin struct {
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
}

type Stripe struct {
	SecretKey     string `env:"SECRET_KEY"`
	PublicKey     string `env:"PUBLIC_KEY"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
}

// Checkout holds both the backend mode switch and the settings of the
// browser driver that runs the client flows.
type Checkout struct {
	Mode       string `env:"MODE" envDefault:"intent"` // intent | session
	Locale     string `env:"LOCALE" envDefault:"en"`
	Flow       string `env:"FLOW" envDefault:"embedded"` // embedded | hosted
	PageURL    string `env:"PAGE_URL"`
	ItemURL    string `env:"ITEM_URL"`
	ReturnURL  string `env:"RETURN_URL"`
	BrowserURL string `env:"BROWSER_URL"` // existing devtools endpoint, launches a local browser when empty
	Headless   bool   `env:"HEADLESS" envDefault:"false"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

const (
	ModeIntent  = "intent"
	ModeSession = "session"

	FlowEmbedded = "embedded"
	FlowHosted   = "hosted"
)

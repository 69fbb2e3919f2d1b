package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	Database *Database
	HTTP     *HTTP
	Payment  *Payment
	Pricing  *Pricing
	Uploads  *Uploads
	Admin    *Admin
	App      *App
}

const AppModeProduction = "PROD"
const AppModeDevelop = "DEV"

const ProviderMercadoPago = "mercadopago"
const ProviderPagarme = "pagarme"

type App struct {
	LogLevel string `env:"LOG_LEVEL"`
	Mode     string `env:"APP_MODE"`
}

type Database struct {
	DSN string `env:"DATABASE_URI"`
}

type HTTP struct {
	HostString string `env:"RUN_ADDRESS"`
}

type Payment struct {
	Provider string `env:"PAYMENT_PROVIDER"`

	MercadoPagoBaseURL     string `env:"MERCADOPAGO_BASE_URL"`
	MercadoPagoAccessToken string `env:"MERCADOPAGO_ACCESS_TOKEN"`
	MercadoPagoSecret      string `env:"MERCADOPAGO_WEBHOOK_SECRET"`

	PagarmeBaseURL   string `env:"PAGARME_BASE_URL"`
	PagarmeSecretKey string `env:"PAGARME_SECRET_KEY"`
	PagarmeSecret    string `env:"PAGARME_WEBHOOK_SECRET"`

	MinChargeCents int64 `env:"MIN_CHARGE_CENTS"`
}

type Pricing struct {
	BuyUnitPrice     string `env:"BUY_UNIT_PRICE"`
	SellUnitPrice    string `env:"SELL_UNIT_PRICE"`
	CardSurchargePct int    `env:"CARD_SURCHARGE_PERCENT"`
	MinQuantity      int    `env:"MIN_QUANTITY"`
	MaxQuantity      int    `env:"MAX_QUANTITY"`
}

type Uploads struct {
	Dir          string `env:"UPLOADS_DIR"`
	MaxSizeBytes int64  `env:"UPLOADS_MAX_SIZE"`
}

type Admin struct {
	Username string `env:"ADMIN_USERNAME"`
	Password string `env:"ADMIN_PASSWORD"`
}

func NewConfig() (*Config, error) {
	var db Database
	var http HTTP
	var payment Payment
	var pricing Pricing
	var uploads Uploads
	var admin Admin
	var app App

	flag.StringVar(&db.DSN, "d", "", "Database string")
	flag.StringVar(&http.HostString, "a", `localhost:8080`, "HTTP server endpoint")
	flag.StringVar(&payment.Provider, "p", ProviderMercadoPago, "Payment provider (mercadopago / pagarme)")
	flag.StringVar(&app.LogLevel, "l", `error`, "Log level")
	flag.StringVar(&app.Mode, "m", AppModeDevelop, "PROD / DEV")
	flag.Parse()

	payment.MercadoPagoBaseURL = "https://api.mercadopago.com"
	payment.PagarmeBaseURL = "https://api.pagar.me/core/v5"
	payment.MinChargeCents = 100
	pricing.BuyUnitPrice = "0.0799"
	pricing.SellUnitPrice = "0.0649"
	pricing.CardSurchargePct = 5
	pricing.MinQuantity = 25
	pricing.MaxQuantity = 100000
	uploads.Dir = "uploads"
	uploads.MaxSizeBytes = 10 << 20

	for _, target := range []any{&db, &http, &payment, &pricing, &uploads, &admin, &app} {
		if err := env.Parse(target); err != nil {
			return nil, fmt.Errorf("error parsing env config: %w", err)
		}
	}

	config := Config{
		Database: &db,
		HTTP:     &http,
		Payment:  &payment,
		Pricing:  &pricing,
		Uploads:  &uploads,
		Admin:    &admin,
		App:      &app,
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// validate fails startup on an unusable payment setup. A missing webhook
// secret is a configuration error, not a verification bypass.
func (c *Config) validate() error {
	switch c.Payment.Provider {
	case ProviderMercadoPago:
		if c.Payment.MercadoPagoAccessToken == "" {
			return fmt.Errorf("MERCADOPAGO_ACCESS_TOKEN is required for provider %s", c.Payment.Provider)
		}
		if c.Payment.MercadoPagoSecret == "" {
			return fmt.Errorf("MERCADOPAGO_WEBHOOK_SECRET is required for provider %s", c.Payment.Provider)
		}
	case ProviderPagarme:
		if c.Payment.PagarmeSecretKey == "" {
			return fmt.Errorf("PAGARME_SECRET_KEY is required for provider %s", c.Payment.Provider)
		}
		if c.Payment.PagarmeSecret == "" {
			return fmt.Errorf("PAGARME_WEBHOOK_SECRET is required for provider %s", c.Payment.Provider)
		}
	default:
		return fmt.Errorf("unknown payment provider %q", c.Payment.Provider)
	}

	if c.Pricing.MinQuantity <= 0 || c.Pricing.MaxQuantity < c.Pricing.MinQuantity {
		return fmt.Errorf("invalid quantity bounds [%d, %d]", c.Pricing.MinQuantity, c.Pricing.MaxQuantity)
	}
	if c.Pricing.CardSurchargePct < 0 {
		return fmt.Errorf("invalid card surcharge percent %d", c.Pricing.CardSurchargePct)
	}

	return nil
}

// Package config loads environment-driven configuration for the SpookyMart
// binaries. Every knob has a default so each service starts with no
// environment at all; values are validated once at startup.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Gateway holds the api-gateway configuration.
type Gateway struct {
	Host        string
	Port        int
	Environment string

	ProductServiceURL string
	OrderServiceURL   string

	AllowedOrigins []string
	MaxBodyBytes   int64

	RateLimitMax    int
	RateLimitWindow time.Duration
	TrustProxy      bool
	RedisAddr       string

	HealthTimeout   time.Duration
	ProxyTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Product holds the product-service configuration.
type Product struct {
	Host            string
	Port            int
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

// Order holds the order-service configuration.
type Order struct {
	Host              string
	Port              int
	Environment       string
	AllowedOrigins    []string
	ProductServiceURL string
	DatabaseURL       string
	ShutdownTimeout   time.Duration
}

func newEnv() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	return v
}

// LoadGateway reads gateway configuration from the environment.
func LoadGateway() (*Gateway, error) {
	v := newEnv()
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", 3000)
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("PRODUCT_SERVICE_URL", "http://localhost:3001")
	v.SetDefault("ORDER_SERVICE_URL", "http://localhost:3002")
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("MAX_BODY_BYTES", int64(10<<20))
	v.SetDefault("RATE_LIMIT_MAX", 100)
	v.SetDefault("RATE_LIMIT_WINDOW", 15*time.Minute)
	v.SetDefault("TRUST_PROXY", false)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("HEALTH_TIMEOUT", 5*time.Second)
	v.SetDefault("PROXY_TIMEOUT", 30*time.Second)
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)

	cfg := &Gateway{
		Host:              v.GetString("HOST"),
		Port:              v.GetInt("PORT"),
		Environment:       v.GetString("ENVIRONMENT"),
		ProductServiceURL: strings.TrimRight(v.GetString("PRODUCT_SERVICE_URL"), "/"),
		OrderServiceURL:   strings.TrimRight(v.GetString("ORDER_SERVICE_URL"), "/"),
		AllowedOrigins:    splitOrigins(v.GetString("ALLOWED_ORIGINS")),
		MaxBodyBytes:      v.GetInt64("MAX_BODY_BYTES"),
		RateLimitMax:      v.GetInt("RATE_LIMIT_MAX"),
		RateLimitWindow:   v.GetDuration("RATE_LIMIT_WINDOW"),
		TrustProxy:        v.GetBool("TRUST_PROXY"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		HealthTimeout:     v.GetDuration("HEALTH_TIMEOUT"),
		ProxyTimeout:      v.GetDuration("PROXY_TIMEOUT"),
		ShutdownTimeout:   v.GetDuration("SHUTDOWN_TIMEOUT"),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Gateway) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be in 1..65535, got %d", c.Port)
	}
	for _, raw := range []string{c.ProductServiceURL, c.OrderServiceURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid upstream URL %q", raw)
		}
	}
	if c.RateLimitMax <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must be > 0, got %d", c.RateLimitMax)
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be > 0, got %s", c.RateLimitWindow)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be > 0, got %d", c.MaxBodyBytes)
	}
	if c.HealthTimeout <= 0 || c.ProxyTimeout <= 0 {
		return fmt.Errorf("timeouts must be > 0")
	}
	return nil
}

// LoadProduct reads product-service configuration from the environment.
func LoadProduct() (*Product, error) {
	v := newEnv()
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", 3001)
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)

	cfg := &Product{
		Host:            v.GetString("HOST"),
		Port:            v.GetInt("PORT"),
		Environment:     v.GetString("ENVIRONMENT"),
		AllowedOrigins:  splitOrigins(v.GetString("ALLOWED_ORIGINS")),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("PORT must be in 1..65535, got %d", cfg.Port)
	}
	return cfg, nil
}

// LoadOrder reads order-service configuration from the environment.
func LoadOrder() (*Order, error) {
	v := newEnv()
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", 3002)
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("PRODUCT_SERVICE_URL", "http://localhost:3001")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)

	cfg := &Order{
		Host:              v.GetString("HOST"),
		Port:              v.GetInt("PORT"),
		Environment:       v.GetString("ENVIRONMENT"),
		AllowedOrigins:    splitOrigins(v.GetString("ALLOWED_ORIGINS")),
		ProductServiceURL: strings.TrimRight(v.GetString("PRODUCT_SERVICE_URL"), "/"),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		ShutdownTimeout:   v.GetDuration("SHUTDOWN_TIMEOUT"),
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("PORT must be in 1..65535, got %d", cfg.Port)
	}
	if u, err := url.Parse(cfg.ProductServiceURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid PRODUCT_SERVICE_URL %q", cfg.ProductServiceURL)
	}
	return cfg, nil
}

// Production reports whether the environment is production. Error responses
// suppress internal detail when it is.
func Production(env string) bool {
	return strings.EqualFold(env, "production")
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		out = []string{"*"}
	}
	return out
}

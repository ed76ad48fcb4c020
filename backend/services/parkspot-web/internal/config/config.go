package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "parkspot/backend/libs/config"
	"parkspot/backend/libs/logging"
	libredis "parkspot/backend/libs/redis"
)

const (
	SessionBackendRedis  = "redis"
	SessionBackendMemory = "memory"
)

// Config defines parkspot web configuration.
type Config struct {
	HTTP struct {
		Port         string        `yaml:"port" env:"PARKSPOT_HTTP_PORT"`
		ReadTimeout  time.Duration `yaml:"readTimeout" env:"PARKSPOT_HTTP_READ_TIMEOUT"`
		WriteTimeout time.Duration `yaml:"writeTimeout" env:"PARKSPOT_HTTP_WRITE_TIMEOUT"`
	} `yaml:"http"`
	API struct {
		BaseURL string        `yaml:"baseUrl" env:"PARKSPOT_API_URL"`
		Prefix  string        `yaml:"prefix" env:"PARKSPOT_API_PREFIX"`
		Timeout time.Duration `yaml:"timeout" env:"PARKSPOT_API_TIMEOUT"`
	} `yaml:"api"`
	Session struct {
		Backend      string           `yaml:"backend" env:"PARKSPOT_SESSION_BACKEND"`
		TTL          time.Duration    `yaml:"ttl" env:"PARKSPOT_SESSION_TTL"`
		HandoffTTL   time.Duration    `yaml:"handoffTtl" env:"PARKSPOT_HANDOFF_TTL"`
		ViewTTL      time.Duration    `yaml:"viewTtl" env:"PARKSPOT_VIEW_TTL"`
		CookieName   string           `yaml:"cookieName" env:"PARKSPOT_COOKIE_NAME"`
		CookieSecure bool             `yaml:"cookieSecure" env:"PARKSPOT_COOKIE_SECURE"`
		Secret       string           `yaml:"secret" env:"PARKSPOT_SECRET"`
		Redis        libredis.Options `yaml:"redis" env:"PARKSPOT_REDIS"`
	} `yaml:"session"`
	Pages struct {
		AvailableSpots int `yaml:"availableSpots" env:"PARKSPOT_PAGE_AVAILABLE_SPOTS"`
		AdminSpots     int `yaml:"adminSpots" env:"PARKSPOT_PAGE_ADMIN_SPOTS"`
		Bookings       int `yaml:"bookings" env:"PARKSPOT_PAGE_BOOKINGS"`
		Fines          int `yaml:"fines" env:"PARKSPOT_PAGE_FINES"`
		AuditLogs      int `yaml:"auditLogs" env:"PARKSPOT_PAGE_AUDIT_LOGS"`
	} `yaml:"pages"`
	Currency struct {
		Card    string `yaml:"card" env:"PARKSPOT_CARD_CURRENCY"`
		Display string `yaml:"display" env:"PARKSPOT_DISPLAY_CURRENCY"`
	} `yaml:"currency"`
	Log logging.Options `yaml:"log"`
}

// Load configuration via shared helper.
func Load() (*Config, error) {
	cfg := Defaults()

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() *Config {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.HTTP.ReadTimeout = 15 * time.Second
	cfg.HTTP.WriteTimeout = 30 * time.Second
	cfg.API.BaseURL = "http://localhost:8081"
	cfg.API.Prefix = "/api/v1"
	cfg.API.Timeout = 10 * time.Second
	cfg.Session.Backend = SessionBackendRedis
	cfg.Session.TTL = 24 * time.Hour
	cfg.Session.HandoffTTL = 15 * time.Minute
	cfg.Session.ViewTTL = time.Hour
	cfg.Session.CookieName = "parkspot_session"
	cfg.Session.Redis.Addr = "localhost:6379"
	cfg.Pages.AvailableSpots = 7
	cfg.Pages.AdminSpots = 7
	cfg.Pages.Bookings = 5
	cfg.Pages.Fines = 5
	cfg.Pages.AuditLogs = 5
	cfg.Currency.Card = "USD"
	cfg.Currency.Display = "KES"
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	return cfg
}

// Validate reports settings the service cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Session.Secret) == "" {
		return errors.New("config: session secret required")
	}
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("config: api base url required")
	}
	switch c.Session.Backend {
	case SessionBackendRedis, SessionBackendMemory:
	default:
		return fmt.Errorf("config: unknown session backend %q", c.Session.Backend)
	}
	for name, size := range map[string]int{
		"availableSpots": c.Pages.AvailableSpots,
		"adminSpots":     c.Pages.AdminSpots,
		"bookings":       c.Pages.Bookings,
		"fines":          c.Pages.Fines,
		"auditLogs":      c.Pages.AuditLogs,
	} {
		if size <= 0 {
			return fmt.Errorf("config: page size %s must be positive", name)
		}
	}
	return nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// HTTPTimeout returns http client timeout.
func (c *Config) HTTPTimeout() time.Duration {
	if c.API.Timeout <= 0 {
		return 10 * time.Second
	}
	return c.API.Timeout
}

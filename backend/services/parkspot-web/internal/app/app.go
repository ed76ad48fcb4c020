package app

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"

	gorillahandlers "github.com/gorilla/handlers"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/hkdf"

	libredis "parkspot/backend/libs/redis"
	"parkspot/backend/services/parkspot-web/internal/clients"
	"parkspot/backend/services/parkspot-web/internal/config"
	httpserver "parkspot/backend/services/parkspot-web/internal/http"
	"parkspot/backend/services/parkspot-web/internal/http/handlers"
	"parkspot/backend/services/parkspot-web/internal/http/middleware"
	"parkspot/backend/services/parkspot-web/internal/metrics"
	"parkspot/backend/services/parkspot-web/internal/session"
	"parkspot/backend/services/parkspot-web/internal/views"
	"parkspot/backend/services/parkspot-web/internal/web"
	"parkspot/backend/services/parkspot-web/internal/workflow"
)

const csrfKeyInfo = "parkspot-web csrf"

// App wires parkspot web dependencies.
type App struct {
	server *httpserver.Server
	redis  *goredis.Client
	logger *zap.Logger
}

// New constructs application graph.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	store, redisClient, err := newStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	csrfKey, err := deriveKey(cfg.Session.Secret, csrfKeyInfo)
	if err != nil {
		closeRedis(redisClient, logger)
		return nil, err
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		closeRedis(redisClient, logger)
		return nil, err
	}

	m := metrics.New()
	flashes := session.NewFlashes(store, cfg.Session.HandoffTTL)
	handoffs := session.NewHandoffs(store, cfg.Session.HandoffTTL)
	viewStore := views.NewStateStore(store, cfg.Session.ViewTTL)

	// The manager needs the auth client, and the client reports 401s to the manager.
	var manager *session.Manager
	onUnauthorized := clients.UnauthorizedFunc(func(ctx context.Context) {
		if manager != nil {
			manager.OnUnauthorized(ctx)
		}
	})

	apiClient := clients.NewBaseClient(
		cfg.API.BaseURL,
		cfg.API.Prefix,
		clients.NewDefaultHTTPClient(cfg.HTTPTimeout()),
		clients.WithUnauthorizedHandler(onUnauthorized),
		clients.WithObserver(m),
	)
	authClient := clients.NewAuthClient(apiClient)
	parkingClient := clients.NewParkingClient(apiClient)
	bookingsClient := clients.NewBookingsClient(apiClient)
	paymentsClient := clients.NewPaymentsClient(apiClient)
	adminClient := clients.NewAdminClient(apiClient)

	manager = session.NewManager(store, flashes, authClient, logger)

	base := handlers.NewBase(renderer, flashes, cfg.Currency.Display, logger)
	publicHandlers := handlers.NewPublicHandlers(base)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		PublicHandlers:   publicHandlers,
		AuthHandlers:     handlers.NewAuthHandlers(base, manager, authClient),
		SpotsHandlers:    handlers.NewSpotsHandlers(base, parkingClient, handoffs, viewStore, cfg.Pages.AvailableSpots),
		BookingHandlers:  handlers.NewBookingHandlers(base, parkingClient, workflow.NewBooking(bookingsClient), handoffs),
		PaymentHandlers:  handlers.NewPaymentHandlers(base, workflow.NewPayment(paymentsClient), handoffs, cfg.Currency.Card),
		BookingsHandlers: handlers.NewBookingsHandlers(base, bookingsClient, handoffs, viewStore, cfg.Pages.Bookings, cfg.Pages.Fines),
		AdminHandlers: handlers.NewAdminHandlers(base, adminClient, bookingsClient, parkingClient, viewStore, handlers.AdminPageSizes{
			Bookings:  cfg.Pages.Bookings,
			Spots:     cfg.Pages.AdminSpots,
			AuditLogs: cfg.Pages.AuditLogs,
		}),
		HealthHandler:  handlers.NewHealthHandler(),
		MetricsHandler: m.Handler(),
		StaticHandler:  web.Static(),
	}, httpserver.RouterMiddleware{
		Metrics: middleware.Metrics(m),
		Session: middleware.Session(session.Cookies{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
			MaxAge: cfg.Session.TTL,
		}, manager, logger),
		CSRF: middleware.CSRF(csrfKey, cfg.Session.CookieSecure, http.HandlerFunc(publicHandlers.FormExpired)),
	})

	server := httpserver.NewServer(
		cfg.HTTPAddress(),
		router,
		httpserver.Timeouts{Read: cfg.HTTP.ReadTimeout, Write: cfg.HTTP.WriteTimeout},
		logger,
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		gorillahandlers.ProxyHeaders,
		gorillahandlers.CompressHandler,
	)

	return &App{
		server: server,
		redis:  redisClient,
		logger: logger,
	}, nil
}

// Run starts serving HTTP traffic.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases the session store connection.
func (a *App) Close() {
	closeRedis(a.redis, a.logger)
}

func newStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (session.Store, *goredis.Client, error) {
	if cfg.Session.Backend == config.SessionBackendMemory {
		logger.Warn("using in-memory session store")
		return session.NewMemoryStore(), nil, nil
	}
	client, err := libredis.NewRedisClient(ctx, cfg.Session.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("app: connect redis: %w", err)
	}
	return session.NewRedisStore(client, cfg.Session.TTL), client, nil
}

// deriveKey expands secret into a 32 byte key bound to info.
func deriveKey(secret, info string) ([]byte, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("app: derive key: %w", err)
	}
	return key, nil
}

func closeRedis(client *goredis.Client, logger *zap.Logger) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		logger.Warn("close redis failed", zap.Error(err))
	}
}

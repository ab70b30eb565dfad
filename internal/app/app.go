package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/StpaPSBB/storefront/internal/domain/cart"
	"github.com/StpaPSBB/storefront/internal/domain/checkout"
	"github.com/StpaPSBB/storefront/internal/domain/promo"
	"github.com/StpaPSBB/storefront/internal/gateway/stripegw"
	"github.com/StpaPSBB/storefront/internal/handler"
	"github.com/StpaPSBB/storefront/internal/session"
	"github.com/StpaPSBB/storefront/internal/storage/postgres"
	"github.com/StpaPSBB/storefront/internal/storage/redissession"
	"github.com/StpaPSBB/storefront/pkg/health"
	"github.com/StpaPSBB/storefront/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// PostgreSQL pool + migrations.
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Redis-backed session store.
	sessions := redissession.New(cfg.RedisAddr, cfg.RedisPass, cfg.Session.TTL)
	defer func() {
		if err := sessions.Close(); err != nil {
			lg.Warn("Close session store", zap.Error(err))
		}
	}()

	// Payment gateway, one Stripe client per currency.
	gw, err := stripegw.New(cfg.Stripe.Keys())
	if err != nil {
		return errors.Wrap(err, "create payment gateway")
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, health.PingCheck(pool))
	healthSvc.AddReadinessCheck("redis", 5*time.Second, health.PingCheck(sessions))
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Repositories.
	itemRepo := postgres.NewItemRepository(pool)
	promoRepo := postgres.NewPromoRepository(pool)
	cartRepo := postgres.NewCartRepository(pool)
	apikeyRepo := postgres.NewAPIKeyRepository(pool)

	// Domain services.
	cartSvc := cart.NewService(cartRepo, sessions)
	promoSvc := promo.NewService(promoRepo, gw)
	checkoutSvc := checkout.NewService(itemRepo, gw, checkout.Config{SiteURL: cfg.SiteURL})

	// HTTP handlers.
	signer := session.NewSigner([]byte(cfg.Session.Pepper))
	h := handler.New(itemRepo, promoRepo, cartSvc, checkoutSvc, promoSvc, gw, signer, handler.CookieConfig{
		Secure: cfg.Session.SecureCookie,
		TTL:    cfg.Session.TTL,
	})
	adminAuth := handler.APIKeyAuth(apikeyRepo, []byte(cfg.Security.APIKeyPepper))

	// Mux: health endpoints + API routes on one server.
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/", h.Router(adminAuth))

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization", "api_key"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Instrument("storefront-api", m),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}

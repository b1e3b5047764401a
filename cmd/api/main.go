package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codetroon/bobbin-storefront/api/controllers"
	"github.com/codetroon/bobbin-storefront/api/routes"
	"github.com/codetroon/bobbin-storefront/internal/auth"
	"github.com/codetroon/bobbin-storefront/internal/cart"
	"github.com/codetroon/bobbin-storefront/internal/catalog"
	"github.com/codetroon/bobbin-storefront/internal/checkout"
	"github.com/codetroon/bobbin-storefront/internal/contact"
	"github.com/codetroon/bobbin-storefront/internal/content"
	"github.com/codetroon/bobbin-storefront/internal/orders"
	"github.com/codetroon/bobbin-storefront/internal/upstream"
	"github.com/codetroon/bobbin-storefront/pkg/config"
	"github.com/codetroon/bobbin-storefront/pkg/db"
	pkgerrors "github.com/codetroon/bobbin-storefront/pkg/errors"
	"github.com/codetroon/bobbin-storefront/pkg/imagekit"
	"github.com/codetroon/bobbin-storefront/pkg/logger"
	"github.com/codetroon/bobbin-storefront/pkg/mailer"
	"github.com/codetroon/bobbin-storefront/pkg/metrics"
	"github.com/codetroon/bobbin-storefront/pkg/migrate"
	"github.com/codetroon/bobbin-storefront/pkg/redis"
	"github.com/joho/godotenv"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	// The local order variant only runs when a DSN is configured.
	var dbClient *db.Client
	if cfg.DB.Enabled() {
		dbClient, err = db.New(context.Background(), cfg.DB)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap database", err)
			os.Exit(1)
		}
		defer func() {
			if err := dbClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing database", err)
			}
		}()

		if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
			logg.Error(context.Background(), "failed to run dev migrations", err)
			os.Exit(1)
		}
	}

	api := upstream.New(cfg.Upstream)

	var localOrders checkout.LocalService
	if dbClient != nil {
		localOrders = checkout.NewLocalService(dbClient, logg)
	}

	var signer *imagekit.Signer
	if cfg.ImageKit.Configured() {
		signer = imagekit.NewSigner(cfg.ImageKit)
	}

	cartService := cart.NewService(redisClient, cfg.Cart.TTL, logg)
	authService := auth.NewService(api, redisClient, cfg.Session, logg)

	var contactService contact.Service
	if mailClient, err := mailer.NewClient(cfg.Mailer); err != nil {
		logg.Warn(context.Background(), "mailer not configured; contact submissions will fail")
		contactService = contact.NewService(unconfiguredMailer{}, api, cfg.Contact, logg)
	} else {
		contactService = contact.NewService(mailClient, api, cfg.Contact, logg)
	}

	health := map[string]controllers.Pinger{"redis": redisClient}
	if dbClient != nil {
		health["database"] = dbClient
	}

	router := routes.NewRouter(routes.Deps{
		Config:      cfg,
		Logger:      logg,
		Metrics:     metrics.NewHTTPMetrics(),
		Health:      health,
		Catalog:     catalog.NewService(api, logg),
		Cart:        cartService,
		Checkout:    checkout.NewService(cartService, api, cfg.Checkout.MaxConcurrent, logg),
		LocalOrders: localOrders,
		Orders:      orders.NewService(api, logg),
		Auth:        authService,
		Contact:     contactService,
		Content:     content.NewService(api, logg),
		Signer:      signer,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	errs := make(chan error, 1)
	go func() {
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}

// unconfiguredMailer fails every send with a clear dependency error so the
// contact endpoint degrades loudly, not with a nil panic.
type unconfiguredMailer struct{}

func (unconfiguredMailer) Send(context.Context, mailer.Message) (string, error) {
	return "", pkgerrors.New(pkgerrors.CodeDependency, "email delivery is not configured")
}

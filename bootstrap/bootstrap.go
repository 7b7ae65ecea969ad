// Package bootstrap wires all dependencies and starts the application.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/aviatehq/aviate/adapters/auth"
	"github.com/aviatehq/aviate/adapters/clock"
	"github.com/aviatehq/aviate/adapters/geoip"
	"github.com/aviatehq/aviate/adapters/hasher"
	"github.com/aviatehq/aviate/adapters/idgen"
	"github.com/aviatehq/aviate/adapters/llm"
	"github.com/aviatehq/aviate/adapters/memory"
	"github.com/aviatehq/aviate/adapters/metrics"
	"github.com/aviatehq/aviate/adapters/payment"
	"github.com/aviatehq/aviate/adapters/sqlite"
	"github.com/aviatehq/aviate/app"
	"github.com/aviatehq/aviate/config"
	"github.com/aviatehq/aviate/ports"
	"github.com/aviatehq/aviate/web"
)

// App represents the running application.
type App struct {
	Logger     zerolog.Logger
	Config     *config.Holder
	DB         *sqlite.DB
	HTTPServer *http.Server
	Metrics    *metrics.Collector
}

// New loads configuration from path and wires the application.
// A missing config file is not an error; defaults apply.
func New(configPath string) (*App, error) {
	logger := setupLogger(config.LoggingConfig{Level: "info", Format: "json"})

	holder, err := config.NewHolderWithFallback(configPath, logger)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := holder.Get()

	logger = setupLogger(cfg.Logging)
	logger.Info().Str("config", configPath).Msg("initializing aviate")

	a := &App{
		Logger: logger,
		Config: holder,
	}

	if err := a.wire(cfg); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *App) wire(cfg *config.Config) error {
	logger := a.Logger

	db, err := sqlite.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return fmt.Errorf("migrate database: %w", err)
	}
	a.DB = db
	logger.Info().Str("dsn", cfg.Database.DSN).Msg("database ready")

	if cfg.Metrics.Enabled {
		a.Metrics = metrics.New()
		logger.Info().Str("path", cfg.Metrics.Path).Msg("prometheus metrics enabled")
	}

	clk := clock.Real{}
	ids := idgen.UUID{}

	// Stores.
	users := sqlite.NewUserStore(db)
	notes := sqlite.NewNoteStore(db)
	projects := sqlite.NewProjectStore(db)
	members := sqlite.NewMemberStore(db)
	conversations := sqlite.NewConversationStore(db)
	subscriptions := sqlite.NewSubscriptionStore(db)

	var countryCache ports.CountryCache
	switch cfg.Cache.Mode {
	case "sqlite":
		countryCache = sqlite.NewCountryCacheStore(db, cfg.Cache.TTL, clk)
	default:
		countryCache = memory.NewCountryCache(cfg.Cache.TTL, clk)
	}
	logger.Info().Str("mode", cfg.Cache.Mode).Dur("ttl", cfg.Cache.TTL).Msg("country cache ready")

	// Outbound clients.
	geo, err := geoip.New(geoip.Config{
		BaseURL: cfg.GeoIP.BaseURL,
		Timeout: cfg.GeoIP.Timeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("geoip client: %w", err)
	}

	chatProvider := llm.New(llm.Config{
		BaseURL:   cfg.LLM.BaseURL,
		APIKey:    cfg.LLM.APIKey,
		Model:     cfg.LLM.Model,
		Timeout:   cfg.LLM.Timeout,
		MaxTokens: cfg.LLM.MaxTokens,
	}, logger)
	if cfg.LLM.APIKey == "" {
		logger.Warn().Msg("no LLM API key configured, chat will serve fallback responses")
	}

	paymentProvider, err := payment.NewProvider(payment.Config{
		Mode: cfg.Billing.Mode,
		Stripe: payment.StripeConfig{
			SecretKey:     cfg.Billing.StripeKey,
			WebhookSecret: cfg.Billing.WebhookSecret,
		},
	})
	if err != nil {
		return fmt.Errorf("payment provider: %w", err)
	}

	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret = uuid.NewString()
		logger.Warn().Msg("no JWT secret configured, sessions will not survive a restart")
	}
	tokens := auth.NewTokenService(jwtSecret, cfg.Auth.Expiration)

	// Services.
	pricingSvc := app.NewPricingService(app.PricingDeps{
		Cache:  countryCache,
		Geo:    geo,
		Logger: logger,
	})
	chatSvc := app.NewChatService(app.ChatDeps{
		Provider:      chatProvider,
		Conversations: conversations,
		Clock:         clk,
		IDGen:         ids,
		Logger:        logger,
	})
	noteSvc := app.NewNoteService(app.NoteDeps{
		Notes:  notes,
		Clock:  clk,
		IDGen:  ids,
		Logger: logger,
	})
	projectSvc := app.NewProjectService(app.ProjectDeps{
		Projects: projects,
		Members:  members,
		Users:    users,
		Clock:    clk,
		IDGen:    ids,
		Logger:   logger,
	})
	accountSvc := app.NewAccountService(app.AccountDeps{
		Users:  users,
		Hasher: hasher.NewBcrypt(cfg.Auth.BcryptCost),
		Tokens: tokens,
		Clock:  clk,
		IDGen:  ids,
		Logger: logger,
	})
	billingSvc := app.NewBillingService(app.BillingDeps{
		Users:         users,
		Subscriptions: subscriptions,
		Provider:      paymentProvider,
		Prices:        cfg.Billing.Prices,
		SuccessURL:    cfg.Billing.SuccessURL,
		CancelURL:     cfg.Billing.CancelURL,
		Clock:         clk,
		IDGen:         ids,
		Logger:        logger,
	})

	handler := web.NewHandler(web.Deps{
		Pricing:  pricingSvc,
		Chat:     chatSvc,
		Notes:    noteSvc,
		Projects: projectSvc,
		Accounts: accountSvc,
		Billing:  billingSvc,
		Tokens:   tokens,
		Metrics:  a.Metrics,
		Logger:   logger,
	})

	router := handler.Router()
	if cfg.Metrics.Enabled {
		router.Handle(cfg.Metrics.Path, promhttp.Handler())
	}

	a.HTTPServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return nil
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run() error {
	// Hot reload: SIGHUP and file changes update the held config.
	// Reloadable fields take effect on the next request cycle.
	a.Config.WatchSignals()
	if err := a.Config.WatchFile(); err != nil {
		a.Logger.Warn().Err(err).Msg("config file watch unavailable")
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().Str("addr", a.HTTPServer.Addr).Msg("http server listening")
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-sigCh:
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the server and closes resources.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.HTTPServer.Shutdown(ctx); err != nil {
		a.Logger.Error().Err(err).Msg("server shutdown failed")
	}

	a.Config.Stop()

	if err := a.DB.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	a.Logger.Info().Msg("shutdown complete")
	return nil
}

func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
	} else {
		logger = zerolog.New(os.Stderr).Level(level)
	}
	return logger.With().Timestamp().Logger()
}

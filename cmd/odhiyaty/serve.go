package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/odhiyaty/odhiyaty/internal/config"
	dbRedis "github.com/odhiyaty/odhiyaty/internal/db/redis"
	"github.com/odhiyaty/odhiyaty/internal/metrics"
	listingrepo "github.com/odhiyaty/odhiyaty/internal/repository/listing"
	pendingrepo "github.com/odhiyaty/odhiyaty/internal/repository/pending"
	resetrepo "github.com/odhiyaty/odhiyaty/internal/repository/reset"
	throttlerepo "github.com/odhiyaty/odhiyaty/internal/repository/throttle"
	userrepo "github.com/odhiyaty/odhiyaty/internal/repository/user"
	chiTransport "github.com/odhiyaty/odhiyaty/internal/transport/chi"
	"github.com/odhiyaty/odhiyaty/internal/transport/email"
	"github.com/odhiyaty/odhiyaty/internal/transport/firebase"
	healthuc "github.com/odhiyaty/odhiyaty/internal/usecase/health"
	listinguc "github.com/odhiyaty/odhiyaty/internal/usecase/listing"
	municipalityuc "github.com/odhiyaty/odhiyaty/internal/usecase/municipality"
	orderuc "github.com/odhiyaty/odhiyaty/internal/usecase/order"
	passworduc "github.com/odhiyaty/odhiyaty/internal/usecase/password"
	registrationuc "github.com/odhiyaty/odhiyaty/internal/usecase/registration"
	"github.com/odhiyaty/odhiyaty/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		defer func() { _ = rt.logger.Sync() }()
		return serve(cmd.Context(), rt)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

//nolint:funlen // composition root
func serve(ctx context.Context, rt runtimeDeps) error {
	cfg, logger := rt.cfg, rt.logger

	logger.Info("Starting odhiyaty API server",
		zap.String("commit", version.Commit),
		zap.String("env", rt.env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("firestore_project", cfg.Firestore.ProjectID),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterBackendMetrics()
	metrics.RegisterHTTPMetrics()

	creds, err := serviceAccount(cfg)
	if err != nil {
		return err
	}

	docs, err := newDocumentClient(ctx, cfg, creds, logger)
	if err != nil {
		return err
	}

	// Identity provider is optional: without it, registration falls back to
	// profile-only checks and account creation answers 503.
	var identity *firebase.Identity
	if creds != nil {
		identity, err = firebase.NewIdentity(ctx, firebase.ProjectIDFromJSON(creds), creds)
		if err != nil {
			logger.Error("Identity provider unavailable", zap.Error(err))
			identity = nil
		}
	} else {
		logger.Warn("No service account configured, identity provider disabled")
	}

	// Throttle store is optional as well.
	var store *dbRedis.Store
	if len(cfg.Redis.Addrs) > 0 {
		store, err = connectRedis(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Warn("Throttle store unavailable, code sends are not rate limited", zap.Error(err))
			store = nil
		} else {
			defer store.Close()
		}
	}

	mailer, providers, err := buildMailer(cfg.Email, cfg.Codes, logger)
	if err != nil {
		return err
	}

	// Pass nil interfaces (not typed nil pointers!) for missing backends.
	// Go gotcha: (*firebase.Identity)(nil) wrapped in an interface != nil.
	var (
		regIdentity   registrationuc.IdentityProvider
		pwAccounts    passworduc.PasswordUpdater
		regThrottle   registrationuc.Throttle
		pwThrottle    passworduc.Throttle
		regMailer     registrationuc.CodeMailer
		pwMailer      passworduc.CodeMailer
		orderMailer   orderuc.Mailer
		healthChecker = map[string]healthuc.Checker{"firestore": docs}
	)
	if identity != nil {
		regIdentity, pwAccounts = identity, identity
	}
	if store != nil {
		t := throttlerepo.New(store, cfg.Throttle.MaxSends, time.Duration(cfg.Throttle.WindowSec)*time.Second)
		regThrottle, pwThrottle = t, t
		healthChecker["redis"] = healthuc.CheckerFunc(store.Ping)
	}
	if mailer != nil {
		regMailer, pwMailer, orderMailer = mailer, mailer, mailer
	}

	codeTTL := time.Duration(cfg.Codes.TTLMinutes) * time.Minute

	users := userrepo.New(docs)
	pending := pendingrepo.New(docs)
	resets := resetrepo.New(docs)
	listings := listingrepo.New(docs)

	services := chiTransport.Services{
		Registration:   registrationuc.New(regIdentity, users, pending, regMailer, regThrottle, codeTTL, logger),
		Password:       passworduc.New(users, resets, pwAccounts, pwMailer, pwThrottle, codeTTL, logger),
		Listings:       listinguc.New(listings),
		Orders:         orderuc.New(orderMailer, logger),
		Municipalities: municipalityuc.New(cfg.Data.MunicipalitiesPath),
		Health: healthuc.New(healthChecker, map[string]bool{
			"identity":     identity != nil,
			"email":        mailer != nil,
			"email_resend": providers.resend,
			"email_smtp":   providers.smtp,
			"throttle":     store != nil,
		}),
	}

	server := chiTransport.NewServer(services, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Mount(r, cfg.Auth.APIKeys)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-sigCtx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}

func connectRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*dbRedis.Store, error) {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Addrs,
		Password: cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create redis store: %w", err)
	}
	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("redis not ready: %w", err)
	}
	logger.Info("Connected to throttle store", zap.Strings("addrs", cfg.Addrs))
	return store, nil
}

type mailProviders struct {
	resend bool
	smtp   bool
}

// buildMailer assembles the sender chain: Resend -> SMTP fallback -> rate limit.
// A nil mailer means no provider is configured.
func buildMailer(cfg config.EmailConfig, codes config.CodesConfig, logger *zap.Logger) (*email.Mailer, mailProviders, error) {
	var (
		primary, secondary email.Sender
		providers          mailProviders
	)
	if cfg.Resend.APIKey != "" {
		primary = email.NewResend(cfg.Resend.APIKey, cfg.Resend.From)
		providers.resend = true
	}
	if cfg.SMTP.Configured() {
		smtp, err := email.NewSMTP(email.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
		if err != nil {
			return nil, providers, fmt.Errorf("smtp sender: %w", err)
		}
		secondary = smtp
		providers.smtp = true
	}
	if primary == nil && secondary == nil {
		logger.Warn("No email provider configured, code and order emails are disabled")
		return nil, providers, nil
	}

	templates, err := email.LoadTemplates()
	if err != nil {
		return nil, providers, fmt.Errorf("email templates: %w", err)
	}

	sender := email.NewRateLimited(email.NewFallback(primary, secondary, logger), cfg.RatePerSec, cfg.Burst)
	logger.Info("Email configured",
		zap.Bool("resend", providers.resend),
		zap.Bool("smtp", providers.smtp),
		zap.String("admin_email", cfg.AdminEmail),
	)
	return email.NewMailer(sender, templates, time.Duration(codes.TTLMinutes)*time.Minute, cfg.AdminEmail), providers, nil
}

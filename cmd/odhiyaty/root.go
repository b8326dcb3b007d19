package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/odhiyaty/odhiyaty/internal/config"
	"github.com/odhiyaty/odhiyaty/internal/db/firestore"
	logpkg "github.com/odhiyaty/odhiyaty/internal/logger"
	"github.com/odhiyaty/odhiyaty/internal/transport/firebase"
)

var envName string

var rootCmd = &cobra.Command{
	Use:   "odhiyaty",
	Short: "Backend API for the odhiyaty sheep marketplace",
	Long: `odhiyaty serves the marketplace HTTP API: account registration with
email codes, password reset, sheep listings, order emails and the
wilaya/commune reference data.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&envName, "env", "e", "", "config environment (default: $ENV or local)")
}

// runtimeDeps is what every command needs before doing work.
type runtimeDeps struct {
	env    string
	cfg    config.Config
	logger *zap.Logger
}

func loadRuntime() (runtimeDeps, error) {
	env := envName
	if env == "" {
		env = config.GetEnv()
	}

	cfg, err := config.Load(env)
	if err != nil {
		return runtimeDeps{}, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return runtimeDeps{}, fmt.Errorf("create logger: %w", err)
	}
	return runtimeDeps{env: env, cfg: cfg, logger: logger}, nil
}

// serviceAccount resolves the configured service account. A nil result with
// no error means none is configured.
func serviceAccount(cfg config.Config) ([]byte, error) {
	if !cfg.Firebase.Configured() {
		return nil, nil
	}
	creds, err := firebase.ServiceAccountJSON(firebase.CredentialsConfig{
		ServiceAccount: cfg.Firebase.ServiceAccount,
		ProjectID:      cfg.Firestore.ProjectID,
		ClientEmail:    cfg.Firebase.ClientEmail,
		PrivateKey:     cfg.Firebase.PrivateKey,
	})
	if err != nil {
		return nil, fmt.Errorf("service account: %w", err)
	}
	return creds, nil
}

// newDocumentClient builds the document store client. With a service account
// requests are OAuth2-authorized; otherwise the web API key is sent.
func newDocumentClient(ctx context.Context, cfg config.Config, creds []byte, logger *zap.Logger) (*firestore.Client, error) {
	projectID := cfg.Firestore.ProjectID
	if projectID == "" {
		projectID = firebase.ProjectIDFromJSON(creds)
	}
	timeout := time.Duration(cfg.Firestore.TimeoutSec) * time.Second

	httpClient := &http.Client{Timeout: timeout}
	apiKey := cfg.Firestore.APIKey
	if creds != nil {
		authed, err := firebase.HTTPClient(ctx, creds)
		if err != nil {
			return nil, fmt.Errorf("authorize document client: %w", err)
		}
		authed.Timeout = timeout
		httpClient = authed
		apiKey = ""
	}

	client, err := firestore.NewClient(firestore.Config{
		ProjectID:  projectID,
		DatabaseID: cfg.Firestore.DatabaseID,
		BaseURL:    cfg.Firestore.BaseURL,
		APIKey:     apiKey,
		HTTPClient: httpClient,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("document client: %w", err)
	}
	return client, nil
}

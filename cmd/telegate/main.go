// ABOUTME: Entry point for the telegate server
// ABOUTME: Serves the admin API, dashboard pages, and the Telegram webhook

package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/telegate/telegate/internal/auth"
	"github.com/telegate/telegate/internal/config"
	"github.com/telegate/telegate/internal/dedupe"
	"github.com/telegate/telegate/internal/registration"
	"github.com/telegate/telegate/internal/store"
	"github.com/telegate/telegate/internal/telegram"
	"github.com/telegate/telegate/internal/webapi"
)

// version is set at build time via -ldflags.
var version = "dev"

const banner = `
 _       _                  _
| |_ ___| | ___  __ _  __ _| |_ ___
| __/ _ \ |/ _ \/ _' |/ _' | __/ _ \
| ||  __/ |  __/ (_| | (_| | ||  __/
 \__\___|_|\___|\__, |\__,_|\__\___|
                |___/
`

// dedupe window sized to Telegram's webhook retry horizon
const (
	dedupeTTL     = 10 * time.Minute
	dedupeMaxSize = 4096
)

// getConfigPath returns the path to the telegate config file.
// Priority: TELEGATE_CONFIG env var > XDG_CONFIG_HOME/telegate/telegate.yaml > ~/.config/telegate/telegate.yaml
func getConfigPath() string {
	if envPath := os.Getenv("TELEGATE_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "telegate.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "telegate", "telegate.yaml")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: telegate <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve   Start the gateway server")
		fmt.Println("  init    Create a starter config file")
		fmt.Println("  health  Check server health")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "init":
		err = runInit()
	case "health":
		err = runHealth(ctx)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	cyan := color.New(color.FgCyan)
	cyan.Print(banner)
	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging)

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Config:   %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:     %s\n", cfg.Server.HTTPAddr)
	green.Print("    ▶ ")
	fmt.Printf("Database: %s\n", cfg.Database.Path)
	fmt.Println()

	logger.Info("starting telegate",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
	)

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	sessions, err := auth.NewSessions([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		return fmt.Errorf("initializing session authenticator: %w", err)
	}

	dispatcher := telegram.NewClient(cfg.Telegram.BotToken)

	seen := dedupe.New(dedupeTTL, dedupeMaxSize)
	defer seen.Close()

	engine := registration.New(st, dispatcher, registration.Options{
		Seen:     seen,
		AdminIDs: cfg.Telegram.AdminIDs,
		Logger:   logger,
	})

	admin := auth.AdminCredentials{
		Username:     cfg.Admin.Username,
		Password:     cfg.Admin.Password,
		PasswordHash: cfg.Admin.PasswordHash,
	}

	api := webapi.New(sessions, admin, st, dispatcher, engine, webapi.Config{
		WebhookSecret: cfg.Telegram.WebhookSecret,
		GateDashboard: cfg.Admin.GateDashboard,
		SecureCookies: cfg.Server.SecureCookies,
	})

	mux := http.NewServeMux()
	api.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", cfg.Server.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// runInit writes a starter config with a freshly generated signing secret.
// Secrets that must come from the environment are left as ${VAR} references.
func runInit() error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config already exists at %s", configPath)
	}

	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return fmt.Errorf("generating signing secret: %w", err)
	}
	jwtSecret := base64.StdEncoding.EncodeToString(secretBytes)

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	starter := fmt.Sprintf(`server:
  http_addr: ":8080"
  secure_cookies: false

admin:
  username: ${ADMIN_USERNAME}
  password: ${ADMIN_PASSWORD}
  gate_dashboard: true

auth:
  jwt_secret: %q

telegram:
  bot_token: ${BOT_TOKEN}
  webhook_secret: ${WEBHOOK_SECRET}
  admin_ids: []

database:
  path: telegate.db

logging:
  level: info
  format: text
`, jwtSecret)

	if err := os.WriteFile(configPath, []byte(starter), 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Print("✓ ")
	fmt.Printf("Wrote %s\n", configPath)
	fmt.Println("Set ADMIN_USERNAME, ADMIN_PASSWORD and BOT_TOKEN before starting.")
	return nil
}

func runHealth(ctx context.Context) error {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	addr := cfg.Server.HTTPAddr
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	url := fmt.Sprintf("http://%s/health", addr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	fmt.Println("healthy")
	return nil
}

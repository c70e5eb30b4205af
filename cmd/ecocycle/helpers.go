package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/verdantlabs/ecocycle/internal/config"
	"github.com/verdantlabs/ecocycle/internal/model"
	"github.com/verdantlabs/ecocycle/internal/rewards"
	"github.com/verdantlabs/ecocycle/internal/storage"
	"github.com/verdantlabs/ecocycle/internal/vision"
)

// initStore opens the database and applies migrations.
func initStore(ctx context.Context) (*storage.SQLiteStore, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStore(dbPath, rewards.New(rewardConfig()))
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// rewardConfig merges any configured overrides onto the default point values.
func rewardConfig() rewards.Config {
	cfg := rewards.DefaultConfig()
	for category, value := range viper.GetStringMap("rewards.base_values") {
		if v, ok := toFloat(value); ok {
			cfg.BaseValues[categoryKey(category)] = v
		}
	}
	for method, value := range viper.GetStringMap("rewards.multipliers") {
		if v, ok := toFloat(value); ok {
			cfg.Multipliers[methodKey(method)] = v
		}
	}
	return cfg
}

// newGateway builds the classifier gateway from config.
func newGateway(logger *slog.Logger) *vision.Gateway {
	return vision.NewGateway(vision.GatewayConfig{
		Model:      viper.GetString("classifier.model"),
		Timeout:    viper.GetDuration("classifier.timeout"),
		CacheTTL:   viper.GetDuration("classifier.cache_ttl"),
		RateLimit:  viper.GetInt("classifier.rate_limit"),
		MaxRetries: viper.GetInt("classifier.max_retries"),
	}, logger)
}

// resolvePrincipal picks the acting user: --user flag, ECOCYCLE_USER env, or
// the OS username as a last resort.
func resolvePrincipal() (string, error) {
	if p := viper.GetString("user.principal"); p != "" {
		return p, nil
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username, nil
	}
	return "", fmt.Errorf("cannot determine principal; pass --user")
}

// readImage loads an image file and infers its MIME type from the extension.
func readImage(path string) (vision.Image, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-supplied image path
	if err != nil {
		return vision.Image{}, fmt.Errorf("failed to read image: %w", err)
	}

	var mimeType string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		mimeType = "image/jpeg"
	case ".png":
		mimeType = "image/png"
	case ".webp":
		mimeType = "image/webp"
	case ".gif":
		mimeType = "image/gif"
	default:
		return vision.Image{}, fmt.Errorf("unsupported image type: %s", path)
	}

	return vision.Image{MIMEType: mimeType, Data: data}, nil
}

// commandContext bundles what most subcommands need.
type commandContext struct {
	ctx       context.Context
	store     *storage.SQLiteStore
	principal string
}

// withStoreAndPrincipal resolves the principal, opens the store, runs fn, and
// closes the store.
func withStoreAndPrincipal(cmd *cobra.Command, fn func(commandContext) error) error {
	ctx := cmd.Context()

	principal, err := resolvePrincipal()
	if err != nil {
		return err
	}

	store, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	return fn(commandContext{ctx: ctx, store: store, principal: principal})
}

// categoryKey matches a config key against the taxonomy case-insensitively,
// since viper lowercases map keys.
func categoryKey(s string) model.WasteCategory {
	for _, c := range model.Categories() {
		if strings.EqualFold(string(c), s) {
			return c
		}
	}
	return model.WasteCategory(s)
}

func methodKey(s string) model.DisposalMethod {
	for _, m := range model.Methods() {
		if strings.EqualFold(string(m), s) {
			return m
		}
	}
	return model.DisposalMethod(s)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func formatDay(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

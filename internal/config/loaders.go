package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/macro-log/internal/common"
	"github.com/Veraticus/macro-log/internal/llm"
	"github.com/Veraticus/macro-log/internal/sheets"
	"github.com/Veraticus/macro-log/internal/strava"
	httptransport "github.com/Veraticus/macro-log/internal/transport/http"
	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendSheets = "sheets"
	BackendSQLite = "sqlite"
)

// StorageConfig selects where entries are kept.
type StorageConfig struct {
	Backend    string
	SQLitePath string
}

// LoadStorageConfig reads storage.* keys, defaulting to the spreadsheet backend.
func LoadStorageConfig() (StorageConfig, error) {
	cfg := StorageConfig{
		Backend:    strings.ToLower(viper.GetString("storage.backend")),
		SQLitePath: ExpandPath(viper.GetString("storage.sqlite_path")),
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendSheets
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = DefaultDatabasePath()
	}

	switch cfg.Backend {
	case BackendSheets, BackendSQLite:
		return cfg, nil
	default:
		return cfg, fmt.Errorf("%w: unknown storage backend %q", common.ErrInvalidConfig, cfg.Backend)
	}
}

// LoadSheetsConfig loads Google Sheets configuration. Viper keys (config file
// or MACROLOG_ env vars) win over the direct GOOGLE_SHEETS_* variables.
func LoadSheetsConfig() (*sheets.Config, error) {
	cfg := sheets.DefaultConfig()

	cfg.ServiceAccountPath = ExpandPath(firstNonEmpty(
		viper.GetString("sheets.service_account_path"),
		os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH")))
	cfg.ClientID = firstNonEmpty(viper.GetString("sheets.client_id"), os.Getenv("GOOGLE_SHEETS_CLIENT_ID"))
	cfg.ClientSecret = firstNonEmpty(viper.GetString("sheets.client_secret"), os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET"))
	cfg.RefreshToken = firstNonEmpty(viper.GetString("sheets.refresh_token"), os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN"))
	cfg.SpreadsheetID = firstNonEmpty(viper.GetString("sheets.spreadsheet_id"), os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID"))

	if viper.IsSet("sheets.retry_attempts") {
		cfg.RetryAttempts = viper.GetInt("sheets.retry_attempts")
	}
	if viper.IsSet("sheets.retry_delay") {
		cfg.RetryDelay = viper.GetDuration("sheets.retry_delay")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: sheets: %w", common.ErrInvalidConfig, err)
	}
	return &cfg, nil
}

// LoadLLMConfig loads the meal analyzer configuration. The API key falls back
// to the provider's conventional environment variable.
func LoadLLMConfig() (llm.Config, error) {
	cfg := llm.Config{
		Provider:    strings.ToLower(viper.GetString("llm.provider")),
		APIKey:      viper.GetString("llm.api_key"),
		Model:       viper.GetString("llm.model"),
		BaseURL:     viper.GetString("llm.base_url"),
		MaxRetries:  viper.GetInt("llm.max_retries"),
		RetryDelay:  viper.GetDuration("llm.retry_delay"),
		RateLimit:   viper.GetInt("llm.rate_limit"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
	}
	if cfg.Provider == "" {
		cfg.Provider = llm.ProviderAnthropic
	}

	if cfg.APIKey == "" {
		switch cfg.Provider {
		case llm.ProviderAnthropic:
			cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		case llm.ProviderOpenAI:
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadStravaConfig loads Strava credentials, falling back to STRAVA_* variables.
func LoadStravaConfig() (strava.Config, error) {
	cfg := strava.Config{
		ClientID:     firstNonEmpty(viper.GetString("strava.client_id"), os.Getenv("STRAVA_CLIENT_ID")),
		ClientSecret: firstNonEmpty(viper.GetString("strava.client_secret"), os.Getenv("STRAVA_CLIENT_SECRET")),
		RefreshToken: firstNonEmpty(viper.GetString("strava.refresh_token"), os.Getenv("STRAVA_REFRESH_TOKEN")),
		BaseURL:      viper.GetString("strava.base_url"),
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadServerConfig reads server.* keys with defaults suitable for a single user.
func LoadServerConfig() httptransport.ServerConfig {
	cfg := httptransport.ServerConfig{
		Address:       firstNonEmpty(viper.GetString("server.address"), ":8080"),
		AllowedOrigin: viper.GetString("server.allowed_origin"),
		ReadTimeout:   durationOr("server.read_timeout", 10*time.Second),
		WriteTimeout:  durationOr("server.write_timeout", 90*time.Second),
		IdleTimeout:   durationOr("server.idle_timeout", 120*time.Second),
	}
	return cfg
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if d := viper.GetDuration(key); d > 0 {
		return d
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

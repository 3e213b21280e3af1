// Package sheets stores the meal log, weight history and targets in a Google spreadsheet.
package sheets

import (
	"errors"
	"time"

	"github.com/Veraticus/macro-log/internal/service"
)

// Config identifies the spreadsheet and how to authenticate against it.
// Exactly one of ServiceAccountPath or the OAuth2 triple must be set.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
	SpreadsheetID      string
	RetryAttempts      int
	RetryDelay         time.Duration
}

// DefaultConfig returns a Config with retry defaults filled in.
func DefaultConfig() Config {
	return Config{
		RetryAttempts: 3,
		RetryDelay:    time.Second,
	}
}

func (c *Config) usesOAuth() bool {
	return c.ClientID != "" || c.ClientSecret != "" || c.RefreshToken != ""
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	switch {
	case c.usesOAuth() && c.ServiceAccountPath != "":
		errs = append(errs, errors.New("multiple authentication methods configured; use either OAuth2 or service account"))
	case c.usesOAuth() && (c.ClientID == "" || c.ClientSecret == "" || c.RefreshToken == ""):
		errs = append(errs, errors.New("oauth2 needs client id, client secret and refresh token"))
	case !c.usesOAuth() && c.ServiceAccountPath == "":
		errs = append(errs, errors.New("no authentication method configured"))
	}

	if c.SpreadsheetID == "" {
		errs = append(errs, errors.New("spreadsheet id is required"))
	}
	if c.RetryAttempts < 0 {
		errs = append(errs, errors.New("retry attempts cannot be negative"))
	}
	if c.RetryDelay < 0 {
		errs = append(errs, errors.New("retry delay cannot be negative"))
	}

	return errors.Join(errs...)
}

func (c *Config) retryOptions() service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  c.RetryAttempts,
		InitialDelay: c.RetryDelay,
		MaxDelay:     10 * c.RetryDelay,
		Multiplier:   2,
	}
}

// Package strava reads workout calories from the Strava API.
package strava

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/macro-log/internal/common"
	"github.com/Veraticus/macro-log/internal/model"
	"github.com/Veraticus/macro-log/internal/service"
	"golang.org/x/oauth2"
)

const (
	defaultBaseURL  = "https://www.strava.com/api/v3"
	defaultAuthURL  = "https://www.strava.com/oauth/authorize"
	defaultTokenURL = "https://www.strava.com/oauth/token"
	pageSize        = 100
)

var _ service.ActivityProvider = (*Client)(nil)

// Config holds the Strava application credentials and the athlete's refresh token.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	BaseURL      string
	TokenURL     string
	Timeout      time.Duration
	RetryOptions service.RetryOptions
}

// Validate ensures the credentials needed for token refresh are present.
func (c Config) Validate() error {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, "client id")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "client secret")
	}
	if c.RefreshToken == "" {
		missing = append(missing, "refresh token")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: strava %s", common.ErrMissingConfig, strings.Join(missing, ", "))
	}
	return nil
}

// Activity is the subset of a Strava activity used for calorie accounting.
type Activity struct {
	StartDate  time.Time `json:"start_date"`
	Name       string    `json:"name"`
	SportType  string    `json:"sport_type"`
	ID         int64     `json:"id"`
	Calories   float64   `json:"calories"`
	Kilojoules float64   `json:"kilojoules"`
	MovingTime int       `json:"moving_time"`
}

// BurnedCalories returns the calories reported by Strava, falling back to
// kilojoules of work, which Strava treats as roughly equal to kcal burned.
func (a Activity) BurnedCalories() float64 {
	if a.Calories > 0 {
		return a.Calories
	}
	return a.Kilojoules
}

// Client calls the Strava API with an auto-refreshing OAuth2 token.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	retryOpts  service.RetryOptions
}

// NewClient creates a Strava client. Token refresh is handled by the oauth2 transport.
func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	oauthConfig := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:   defaultAuthURL,
			TokenURL:  cfg.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		Scopes: []string{"activity:read_all"},
	}

	tokenSource := oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
	httpClient := oauth2.NewClient(ctx, tokenSource)
	httpClient.Timeout = cfg.Timeout

	retryOpts := cfg.RetryOptions
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}

	return &Client{
		httpClient: httpClient,
		logger:     logger,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		retryOpts:  retryOpts,
	}, nil
}

// ListActivities returns the athlete's activities that started in [after, before).
func (c *Client) ListActivities(ctx context.Context, after, before time.Time) ([]Activity, error) {
	var all []Activity
	for page := 1; ; page++ {
		query := url.Values{
			"after":    {strconv.FormatInt(after.Unix(), 10)},
			"before":   {strconv.FormatInt(before.Unix(), 10)},
			"page":     {strconv.Itoa(page)},
			"per_page": {strconv.Itoa(pageSize)},
		}

		var batch []Activity
		if err := c.get(ctx, "/athlete/activities?"+query.Encode(), &batch); err != nil {
			return nil, fmt.Errorf("failed to list activities: %w", err)
		}
		all = append(all, batch...)

		if len(batch) < pageSize {
			return all, nil
		}
	}
}

// GetActivity returns a detailed activity, which carries the calorie estimate.
func (c *Client) GetActivity(ctx context.Context, id int64) (*Activity, error) {
	var activity Activity
	if err := c.get(ctx, "/activities/"+strconv.FormatInt(id, 10), &activity); err != nil {
		return nil, fmt.Errorf("failed to get activity %d: %w", id, err)
	}
	return &activity, nil
}

// BurnedCalories sums the calories of the activities that started on day.
// The day boundaries are taken in day's location.
func (c *Client) BurnedCalories(ctx context.Context, day time.Time) (service.BurnedSummary, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	activities, err := c.ListActivities(ctx, start, end)
	if err != nil {
		return service.BurnedSummary{}, err
	}

	summary := service.BurnedSummary{Date: start.Format(model.DateLayout)}
	for _, a := range activities {
		detailed, err := c.GetActivity(ctx, a.ID)
		if err != nil {
			return service.BurnedSummary{}, err
		}
		summary.Calories += detailed.BurnedCalories()
		summary.Activities++
	}

	c.logger.Debug("burned calories computed",
		"date", summary.Date,
		"activities", summary.Activities,
		"calories", summary.Calories)

	return summary, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return common.WithRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return common.Permanent(fmt.Errorf("failed to create request: %w", err))
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			var retrieveErr *oauth2.RetrieveError
			if errors.As(err, &retrieveErr) {
				return common.Permanent(fmt.Errorf("%w: token refresh failed: %w", common.ErrUpstream, err))
			}
			return fmt.Errorf("request failed: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("%w: strava status %d", common.ErrRateLimit, resp.StatusCode)
		case resp.StatusCode >= 500:
			return fmt.Errorf("%w: strava status %d", common.ErrUpstream, resp.StatusCode)
		case resp.StatusCode == http.StatusNotFound:
			return common.Permanent(fmt.Errorf("strava %s: %w", path, common.ErrNotFound))
		case resp.StatusCode != http.StatusOK:
			return common.Permanent(fmt.Errorf("%w: strava status %d: %s", common.ErrUpstream, resp.StatusCode, strings.TrimSpace(string(body))))
		}

		if err := json.Unmarshal(body, out); err != nil {
			return common.Permanent(fmt.Errorf("failed to parse response: %w", err))
		}
		return nil
	}, c.retryOpts)
}

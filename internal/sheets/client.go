package sheets

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

func newSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	ts, err := tokenSource(ctx, config)
	if err != nil {
		return nil, err
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, ts)))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}
	return srv, nil
}

// tokenSource authenticates with a service account key when one is
// configured and otherwise with the long-lived OAuth2 refresh token.
func tokenSource(ctx context.Context, config Config) (oauth2.TokenSource, error) {
	if config.ServiceAccountPath == "" {
		oauthCfg := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}
		return oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: config.RefreshToken}), nil
	}

	key, err := os.ReadFile(config.ServiceAccountPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read service account key file: %w", err)
	}
	jwtCfg, err := google.JWTConfigFromJSON(key, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service account key: %w", err)
	}
	return jwtCfg.TokenSource(ctx), nil
}

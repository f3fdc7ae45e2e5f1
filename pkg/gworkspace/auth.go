package gworkspace

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var scopes = []string{
	"https://www.googleapis.com/auth/calendar.readonly",
	"https://www.googleapis.com/auth/drive",
}

// Authenticator produces access tokens for the workspace APIs, either
// delegated (service account impersonating one user) or standing (a
// pre-authorized tenant-wide refresh token).
type Authenticator struct {
	serviceAccountJSON []byte
	clientID           string
	clientSecret       string
	refreshToken       string
}

func NewAuthenticator(serviceAccountJSON []byte, clientID, clientSecret, refreshToken string) *Authenticator {
	return &Authenticator{
		serviceAccountJSON: serviceAccountJSON,
		clientID:           clientID,
		clientSecret:       clientSecret,
		refreshToken:       refreshToken,
	}
}

// DelegatedToken mints a token acting as the given user through
// domain-wide delegation. Fails if the service account is not authorized
// for the subject.
func (a *Authenticator) DelegatedToken(ctx context.Context, subject string) (string, error) {
	if len(a.serviceAccountJSON) == 0 {
		return "", fmt.Errorf("no service account configured")
	}

	cfg, err := google.JWTConfigFromJSON(a.serviceAccountJSON, scopes...)
	if err != nil {
		return "", fmt.Errorf("parsing service account key: %w", err)
	}
	cfg.Subject = subject

	token, err := cfg.TokenSource(ctx).Token()
	if err != nil {
		return "", fmt.Errorf("minting delegated token for %s: %w", subject, err)
	}

	return token.AccessToken, nil
}

// StandingToken exchanges the tenant's stored refresh token for an
// access token. No impersonation, only whatever the original grant
// could see.
func (a *Authenticator) StandingToken(ctx context.Context) (string, error) {
	if a.refreshToken == "" {
		return "", fmt.Errorf("no standing token configured")
	}

	cfg := &oauth2.Config{
		ClientID:     a.clientID,
		ClientSecret: a.clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       scopes,
	}

	token, err := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: a.refreshToken}).Token()
	if err != nil {
		return "", fmt.Errorf("refreshing standing token: %w", err)
	}

	return token.AccessToken, nil
}

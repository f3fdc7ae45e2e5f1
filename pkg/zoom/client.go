package zoom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	defaultBaseURL = "https://api.zoom.us/v2"
	defaultAuthURL = "https://zoom.us/oauth/token"

	defaultTimeout = 30 * time.Second
	// Recording downloads can be multi-gigabyte, give them more room
	// than the API calls.
	downloadTimeout = 30 * time.Minute
)

// Config holds the server-to-server OAuth credentials for one account.
type Config struct {
	AccountID    string
	ClientID     string
	ClientSecret string
	// Optional overrides for testing.
	BaseURL string
	AuthURL string
}

// Client is a minimal conferencing-provider API client covering the
// cloud recording surface: list, download, delete.
type Client struct {
	httpClient     *http.Client
	downloadClient *http.Client
	baseURL        string
	oauthConfig    *clientcredentials.Config
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = defaultAuthURL
	}

	oauthConfig := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.AuthURL,
		EndpointParams: url.Values{
			"grant_type": []string{"account_credentials"},
			"account_id": []string{cfg.AccountID},
		},
		AuthStyle: oauth2.AuthStyleInParams,
	}

	return &Client{
		httpClient:     &http.Client{Timeout: defaultTimeout},
		downloadClient: &http.Client{Timeout: downloadTimeout},
		baseURL:        cfg.BaseURL,
		oauthConfig:    oauthConfig,
	}
}

// AccessToken returns a bearer token for the account. The recording
// download URLs are plain HTTPS endpoints that take this token as a
// query parameter, so callers need the raw token string.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	token, err := c.oauthConfig.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("fetching access token: %w", err)
	}

	return token.AccessToken, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return err
	}

	token, err := c.AccessToken(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, string(body))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Download fetches a recording file by its download URL. The token is
// the account access token from AccessToken, refreshed by the caller
// once per sync run rather than per file.
func (c *Client) Download(ctx context.Context, downloadURL, token string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL+"?access_token="+url.QueryEscape(token), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.downloadClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloading recording: status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// Package strava wraps the Strava OAuth flow and activity listing.
// Token persistence lives in the service layer; this client is pure
// HTTP.
package strava

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	authURL       = "https://www.strava.com/oauth/authorize"
	tokenURL      = "https://www.strava.com/oauth/token"
	activitiesURL = "https://www.strava.com/api/v3/athlete/activities"

	defaultScopes = "read,activity:read_all"
	activityPage  = 100
)

// ErrMissingAccessToken indicates a token response without an access token.
var ErrMissingAccessToken = errors.New("missing access_token in strava response")

// Config holds Strava OAuth configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	Scopes       string
	RedirectBase string
}

// TokenData is a normalized OAuth token response.
type TokenData struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64
}

// Activity is one raw activity from the listing endpoint. Raw keeps the
// full response object; the typed fields are only what day-keying needs.
type Activity struct {
	StartDateLocal string          `json:"start_date_local"`
	StartDate      string          `json:"start_date"`
	Raw            json.RawMessage `json:"-"`
}

// StartTime returns the activity's start, preferring local time the way
// the listing reports it. Z-terminated strings are common.
func (a *Activity) StartTime() (time.Time, error) {
	start := a.StartDateLocal
	if start == "" {
		start = a.StartDate
	}
	if start == "" {
		return time.Time{}, errors.New("activity without start date")
	}
	return time.Parse(time.RFC3339, start)
}

// Client is the Strava HTTP boundary.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a Strava client. Unconfigured credentials are
// tolerated here; the service layer rejects syncs without them.
func NewClient(cfg Config) *Client {
	if cfg.Scopes == "" {
		cfg.Scopes = defaultScopes
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// IsConfigured reports whether OAuth credentials are present.
func (c *Client) IsConfigured() bool {
	return c.cfg.ClientID != "" && c.cfg.ClientSecret != ""
}

// AuthStartURL builds the OAuth authorize URL. Approval is forced so
// updated scopes are applied on re-auth.
func (c *Client) AuthStartURL() string {
	params := url.Values{
		"client_id":       {c.cfg.ClientID},
		"redirect_uri":    {c.cfg.RedirectBase + "/auth/strava/callback"},
		"response_type":   {"code"},
		"approval_prompt": {"force"},
		"scope":           {c.cfg.Scopes},
	}
	return authURL + "?" + params.Encode()
}

// ExchangeCode exchanges the OAuth code for tokens.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenData, error) {
	return c.tokenRequest(ctx, url.Values{
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
		"code":          {code},
		"grant_type":    {"authorization_code"},
	})
}

// Refresh exchanges a refresh token for a fresh access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenData, error) {
	return c.tokenRequest(ctx, url.Values{
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	})
}

func (c *Client) tokenRequest(ctx context.Context, form url.Values) (*TokenData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("strava token request: status %d", resp.StatusCode)
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	return normalizeTokenFields(raw, time.Now)
}

// normalizeTokenFields returns a TokenData with sensible fallbacks.
// Strava sometimes returns expires_in instead of expires_at.
func normalizeTokenFields(raw map[string]any, now func() time.Time) (*TokenData, error) {
	access, _ := raw["access_token"].(string)
	if access == "" {
		return nil, ErrMissingAccessToken
	}

	refresh, _ := raw["refresh_token"].(string)

	var expiresAt int64
	if v, ok := raw["expires_at"].(float64); ok && v > 0 {
		expiresAt = int64(v)
	} else {
		expiresIn := 3600.0
		if v, ok := raw["expires_in"].(float64); ok && v > 0 {
			expiresIn = v
		}
		expiresAt = now().Unix() + int64(expiresIn)
	}

	return &TokenData{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	}, nil
}

// FetchActivities returns one page of activities after the given unix
// timestamp. An empty page means the listing is exhausted.
func (c *Client) FetchActivities(ctx context.Context, accessToken string, after int64, page int) ([]Activity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, activitiesURL, nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	q.Set("after", strconv.FormatInt(after, 10))
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(activityPage))
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("strava activities request: status %d", resp.StatusCode)
	}

	var items []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, err
	}

	activities := make([]Activity, 0, len(items))
	for _, item := range items {
		var a Activity
		if err := json.Unmarshal(item, &a); err != nil {
			continue
		}
		a.Raw = item
		activities = append(activities, a)
	}
	return activities, nil
}

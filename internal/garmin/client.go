package garmin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/lachdunc/health-coach/internal/domain"
)

const defaultBaseURL = "https://connectapi.garmin.com"

// ErrLoginFailed indicates the wearable API rejected our credentials.
var ErrLoginFailed = errors.New("garmin login failed")

// Client is the wearable API boundary. Implementations may fail on
// transport; the ingestion caller decides how to treat that.
type Client interface {
	// Login authenticates the session. Must be called before fetches.
	Login(ctx context.Context) error
	// FetchSleep returns the raw sleep response for a YYYY-MM-DD day,
	// or nil when the API has no data for it.
	FetchSleep(ctx context.Context, day string) (any, error)
	// FetchHeartRate returns the raw daily heart-rate response for a
	// YYYY-MM-DD day, or nil when the API has no data for it.
	FetchHeartRate(ctx context.Context, day string) (any, error)
}

// Config holds Garmin client configuration.
type Config struct {
	BaseURL  string
	Email    string
	Password string
}

// The API has shipped these resources under several paths across
// versions. Each fetch probes the candidates in order and the first
// successful response wins, mirroring how the payload fields themselves
// are probed during normalization.
var (
	sleepPaths = []string{
		"/wellness-service/wellness/dailySleepData?date=%s",
		"/sleep-service/sleep/dailySleepData?date=%s",
		"/wellness-service/wellness/dailySleep/%s",
	}
	heartRatePaths = []string{
		"/wellness-service/wellness/dailyHeartRate?date=%s",
		"/userstats-service/wellness/daily/heartRate?date=%s",
		"/wellness-service/wellness/dailyHeartRate/%s",
	}
)

type client struct {
	baseURL    string
	email      string
	password   string
	token      string
	httpClient *http.Client
}

// NewClient creates a Garmin client. Returns nil when credentials are
// missing; callers treat a nil client as a disabled integration.
func NewClient(cfg Config) Client {
	if cfg.Email == "" || cfg.Password == "" {
		log.Println("[garmin] disabled: GARMIN_EMAIL or GARMIN_PASSWORD is empty")
		return nil
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &client{
		baseURL:  baseURL,
		email:    cfg.Email,
		password: cfg.Password,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *client) Login(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{
		"username": c.email,
		"password": c.password,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrLoginFailed, resp.StatusCode)
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}
	if out.AccessToken == "" {
		return fmt.Errorf("%w: empty access token", ErrLoginFailed)
	}

	c.token = out.AccessToken
	return nil
}

func (c *client) FetchSleep(ctx context.Context, day string) (any, error) {
	return c.fetchFirst(ctx, sleepPaths, day)
}

func (c *client) FetchHeartRate(ctx context.Context, day string) (any, error) {
	return c.fetchFirst(ctx, heartRatePaths, day)
}

// fetchFirst tries each candidate path until one returns data. A 404
// moves on to the next candidate; exhausting all candidates means the
// API has no data for the day, which is not an error.
func (c *client) fetchFirst(ctx context.Context, paths []string, day string) (any, error) {
	var lastErr error
	for _, p := range paths {
		raw, err := c.get(ctx, fmt.Sprintf(p, day))
		if err != nil {
			lastErr = err
			continue
		}
		if raw != nil {
			return raw, nil
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, nil
}

func (c *client) get(ctx context.Context, path string) (any, error) {
	if c.token == "" {
		return nil, domain.ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("garmin request failed: status %d", resp.StatusCode)
	}

	var raw any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

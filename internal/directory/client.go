package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/chaudhryu/police-report-request-backend/internal/config"
	"github.com/chaudhryu/police-report-request-backend/internal/logger"
	"github.com/chaudhryu/police-report-request-backend/internal/model"
	"github.com/chaudhryu/police-report-request-backend/pkg/errors"

	"github.com/rs/zerolog"
)

// Client talks to the organizational directory (the external identity
// provider's profile API). It is the last link in the badge resolution chain
// and the source of lazily synced profile fields.
type Client struct {
	cfg         *config.Config
	httpClient  *http.Client
	authManager *AuthManager
	log         zerolog.Logger
}

func NewClient(cfg *config.Config) *Client {
	timeout := cfg.Directory.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		authManager: NewAuthManager(cfg),
		log:         logger.Get(),
	}
}

// GetProfileByEmail looks up one person's profile. A missing person is
// ErrUserNotFound, not a transport error.
func (c *Client) GetProfileByEmail(ctx context.Context, email string) (*model.UserProfile, error) {
	token, err := c.authManager.GetToken(ctx)
	if err != nil {
		return nil, errors.NewRetryableError(err, "failed to get directory token")
	}

	endpoint := fmt.Sprintf("%s%s?email=%s",
		c.cfg.Directory.BaseURL, c.cfg.Directory.ProfileEndpoint, url.QueryEscape(email))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	c.log.Debug().Str("email", email).Msg("Looking up directory profile")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewRetryableError(err, "directory request failed")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var profile model.UserProfile
		if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
			return nil, fmt.Errorf("failed to decode profile response: %w", err)
		}
		if profile.Badge == "" {
			return nil, errors.ErrUserNotFound
		}
		return &profile, nil
	case http.StatusNotFound:
		return nil, errors.ErrUserNotFound
	case http.StatusUnauthorized:
		return nil, errors.NewRetryableError(fmt.Errorf("unauthorized"), "directory authentication failed")
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return nil, errors.NewRetryableError(fmt.Errorf("service unavailable"), "directory unavailable")
	default:
		return nil, errors.NewRetryableError(fmt.Errorf("HTTP %d", resp.StatusCode), "directory error")
	}
}

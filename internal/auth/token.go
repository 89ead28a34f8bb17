package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/brainink-app/afterschool-go/internal/api"
)

const refreshPath = "/refresh"

// TokenPair holds the access/refresh credential pair the backend issues.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Manager hands out access tokens and exchanges the refresh token when the
// access token has expired or is about to. Storage of the pair beyond process
// memory is the embedding app's concern.
type Manager struct {
	mu     sync.Mutex
	pair   TokenPair
	client *api.Client
	leeway time.Duration
	logger zerolog.Logger
	now    func() time.Time
}

// NewManager builds a token manager around an initial pair.
func NewManager(client *api.Client, pair TokenPair, leeway time.Duration, logger zerolog.Logger) *Manager {
	if leeway <= 0 {
		leeway = 30 * time.Second
	}
	return &Manager{
		pair:   pair,
		client: client,
		leeway: leeway,
		logger: logger.With().Str("component", "token_manager").Logger(),
		now:    time.Now,
	}
}

// AccessToken returns a usable access token, refreshing proactively when the
// current one expires within the configured leeway.
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	token := m.pair.AccessToken
	m.mu.Unlock()

	if token == "" {
		return "", api.ErrAuthRequired
	}

	if expiry, ok := tokenExpiry(token); ok && m.now().Add(m.leeway).After(expiry) {
		refreshed, err := m.Refresh(ctx)
		if err != nil {
			m.logger.Warn().Err(err).Msg("proactive token refresh failed")
			return token, nil
		}
		return refreshed, nil
	}

	return token, nil
}

// Refresh exchanges the refresh token for a new pair and returns the new
// access token.
func (m *Manager) Refresh(ctx context.Context) (string, error) {
	m.mu.Lock()
	refreshToken := m.pair.RefreshToken
	m.mu.Unlock()

	if refreshToken == "" {
		return "", api.ErrAuthRequired
	}

	body := map[string]string{"refresh_token": refreshToken}
	var pair TokenPair
	if err := m.client.JSON(ctx, http.MethodPost, refreshPath, refreshToken, body, &pair); err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}
	if pair.AccessToken == "" {
		return "", fmt.Errorf("refresh token: empty access token in response")
	}

	m.mu.Lock()
	m.pair.AccessToken = pair.AccessToken
	if pair.RefreshToken != "" {
		m.pair.RefreshToken = pair.RefreshToken
	}
	m.mu.Unlock()

	m.logger.Debug().Msg("access token refreshed")
	return pair.AccessToken, nil
}

// tokenExpiry reads the exp claim without verifying the signature. The client
// never validates tokens, the backend does; expiry is only read to decide
// when to refresh.
func tokenExpiry(token string) (time.Time, bool) {
	if strings.Count(token, ".") != 2 {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return time.Time{}, false
	}
	return expiry.Time, true
}

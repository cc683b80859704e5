package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"sankhyacrm/entity"
	"sankhyacrm/internal/config"
	"sankhyacrm/internal/lib/sl"
)

const exchangeTimeout = 10 * time.Second

// TokenCache owns the single cached Sankhya bearer token. A token is
// considered valid until a call using it is rejected; the executor then
// calls Invalidate. The mutex is held across the exchange so racing
// callers do not clobber each other's fresh token.
type TokenCache struct {
	mu    sync.Mutex
	token string

	loginUrl string
	identity map[string]string
	client   *http.Client
	log      *slog.Logger
}

func NewTokenCache(conf *config.Config, log *slog.Logger) *TokenCache {
	return &TokenCache{
		loginUrl: conf.Sankhya.LoginUrl,
		identity: map[string]string{
			"token":    conf.Sankhya.Token,
			"appkey":   conf.Sankhya.AppKey,
			"username": conf.Sankhya.Username,
			"password": conf.Sankhya.Password,
		},
		client: &http.Client{Timeout: exchangeTimeout},
		log:    log.With(sl.Module("sankhya.auth")),
	}
}

// Acquire returns the cached token or performs the credential exchange.
func (t *TokenCache) Acquire(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.token != "" {
		return t.token, nil
	}

	token, err := t.exchange(ctx)
	if err != nil {
		// Cache stays empty; the next caller re-attempts.
		return "", &AuthError{Err: err}
	}

	t.token = token
	t.log.Debug("bearer token acquired", sl.Secret("token", token))
	return token, nil
}

// Invalidate clears the cached token unconditionally. Idempotent.
func (t *TokenCache) Invalidate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = ""
}

func (t *TokenCache) exchange(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.loginUrl, bytes.NewBufferString("{}"))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range t.identity {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("login returned %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var login entity.LoginResponse
	if err := json.Unmarshal(bodyBytes, &login); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	token := login.BearerToken
	if token == "" {
		token = login.Token
	}
	if token == "" {
		return "", fmt.Errorf("no token in login response")
	}

	return token, nil
}

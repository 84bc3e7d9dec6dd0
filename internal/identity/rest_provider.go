package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	apperrors "nestquest/internal/errors"
	"nestquest/pkg/logger"
)

// RESTProvider talks to the identity service's account REST endpoints.
// One instance exists per running client.
type RESTProvider struct {
	apiKey     string
	authDomain string
	baseURL    string
	tokenURL   string
	httpClient *http.Client

	mu         sync.Mutex
	current    *Account
	subscriber func(SessionEvent)

	consent ConsentFlow
}

// ConsentFlow runs the external-provider consent exchange. Separated out so
// tests can substitute the network and browser interaction.
type ConsentFlow interface {
	Run(ctx context.Context) (*Account, error)
}

type RESTProviderConfig struct {
	APIKey     string
	AuthDomain string
	// BaseURL overrides the account endpoint root, for tests.
	BaseURL string
	// TokenURL overrides the refresh-token endpoint, for tests.
	TokenURL string
	Consent  ConsentFlow
}

func NewRESTProvider(cfg RESTProviderConfig) *RESTProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s/v1/accounts", cfg.AuthDomain)
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = fmt.Sprintf("https://%s/v1/token", cfg.AuthDomain)
	}
	return &RESTProvider{
		apiKey:     cfg.APIKey,
		authDomain: cfg.AuthDomain,
		baseURL:    baseURL,
		tokenURL:   tokenURL,
		consent:    cfg.Consent,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type accountResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	PhotoURL     string `json:"photoUrl"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

type providerErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *RESTProvider) SignUp(ctx context.Context, email, password string) (*Account, error) {
	account, err := p.postAccount(ctx, "signUp", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, err
	}
	p.setCurrent(account)
	return account, nil
}

func (p *RESTProvider) SignIn(ctx context.Context, email, password string) (*Account, error) {
	account, err := p.postAccount(ctx, "signInWithPassword", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, err
	}
	p.setCurrent(account)
	return account, nil
}

func (p *RESTProvider) UpdateProfile(ctx context.Context, idToken, displayName, photoURL string) error {
	payload := map[string]interface{}{
		"idToken":           idToken,
		"returnSecureToken": false,
	}
	if displayName != "" {
		payload["displayName"] = displayName
	}
	if photoURL != "" {
		payload["photoUrl"] = photoURL
	}
	if _, err := p.postAccount(ctx, "update", payload); err != nil {
		return err
	}

	p.mu.Lock()
	if p.current != nil {
		if displayName != "" {
			p.current.DisplayName = displayName
		}
		if photoURL != "" {
			p.current.PhotoURL = photoURL
		}
	}
	p.mu.Unlock()
	return nil
}

type tokenResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
	UserID       string `json:"user_id"`
}

// Refresh exchanges the current account's refresh token for a fresh ID
// token and re-emits the session so the renewed credential gets persisted.
func (p *RESTProvider) Refresh(ctx context.Context) (*Account, error) {
	p.mu.Lock()
	current := p.current
	p.mu.Unlock()
	if current == nil || current.RefreshToken == "" {
		return nil, apperrors.NewAuthError(apperrors.AuthCredentialInvalid, fmt.Errorf("no refresh token held"))
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", current.RefreshToken)

	endpoint := fmt.Sprintf("%s?key=%s", p.tokenURL, url.QueryEscape(p.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, apperrors.NewAuthError(apperrors.AuthOther, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		logger.GlobalLogger.Errorf("Credential refresh request failed: %v", err)
		return nil, apperrors.NewAuthError(apperrors.AuthNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewAuthError(apperrors.AuthNetwork, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, mapProviderError("token", resp.StatusCode, respBody)
	}

	var token tokenResponse
	if err := json.Unmarshal(respBody, &token); err != nil {
		return nil, apperrors.NewAuthError(apperrors.AuthOther, fmt.Errorf("failed to decode token response: %v", err))
	}
	if token.IDToken == "" {
		return nil, apperrors.NewAuthError(apperrors.AuthOther, fmt.Errorf("token response missing id_token"))
	}

	renewed := *current
	renewed.IDToken = token.IDToken
	if token.RefreshToken != "" {
		renewed.RefreshToken = token.RefreshToken
	}
	renewed.ExpiresAt = time.Now().Add(time.Hour)
	if token.ExpiresIn != "" {
		var seconds int64
		if _, err := fmt.Sscanf(token.ExpiresIn, "%d", &seconds); err == nil {
			renewed.ExpiresAt = time.Now().Add(time.Duration(seconds) * time.Second)
		}
	}

	p.setCurrent(&renewed)
	return &renewed, nil
}

func (p *RESTProvider) BeginConsent(ctx context.Context) (*Account, error) {
	if p.consent == nil {
		return nil, apperrors.NewAuthError(apperrors.AuthOther, fmt.Errorf("no consent flow configured"))
	}
	account, err := p.consent.Run(ctx)
	if err != nil {
		return nil, err
	}
	p.setCurrent(account)
	return account, nil
}

func (p *RESTProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	p.current = nil
	subscriber := p.subscriber
	p.mu.Unlock()

	if subscriber != nil {
		subscriber(SessionEvent{Account: nil})
	}
	return nil
}

// Subscribe registers the single session-change subscriber. A second
// subscription is a programming error.
func (p *RESTProvider) Subscribe(handler func(SessionEvent)) (func(), error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.subscriber != nil {
		return nil, fmt.Errorf("session-change subscription already taken")
	}
	p.subscriber = handler
	return func() {
		p.mu.Lock()
		p.subscriber = nil
		p.mu.Unlock()
	}, nil
}

func (p *RESTProvider) setCurrent(account *Account) {
	p.mu.Lock()
	p.current = account
	subscriber := p.subscriber
	p.mu.Unlock()

	if subscriber != nil {
		subscriber(SessionEvent{Account: account})
	}
}

func (p *RESTProvider) postAccount(ctx context.Context, action string, payload map[string]interface{}) (*Account, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.NewAuthError(apperrors.AuthOther, err)
	}

	endpoint := fmt.Sprintf("%s:%s?key=%s", p.baseURL, action, url.QueryEscape(p.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewAuthError(apperrors.AuthOther, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		logger.GlobalLogger.Errorf("Identity provider request failed: action=%s, error=%v", action, err)
		return nil, apperrors.NewAuthError(apperrors.AuthNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewAuthError(apperrors.AuthNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, mapProviderError(action, resp.StatusCode, respBody)
	}

	var account accountResponse
	if err := json.Unmarshal(respBody, &account); err != nil {
		return nil, apperrors.NewAuthError(apperrors.AuthOther, fmt.Errorf("failed to decode provider response: %v", err))
	}

	expiresAt := time.Now().Add(time.Hour)
	if account.ExpiresIn != "" {
		var seconds int64
		if _, err := fmt.Sscanf(account.ExpiresIn, "%d", &seconds); err == nil {
			expiresAt = time.Now().Add(time.Duration(seconds) * time.Second)
		}
	}

	return &Account{
		UID:          account.LocalID,
		Email:        account.Email,
		DisplayName:  account.DisplayName,
		PhotoURL:     account.PhotoURL,
		IDToken:      account.IDToken,
		RefreshToken: account.RefreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

// mapProviderError translates provider error codes into distinguishable
// AuthError kinds.
func mapProviderError(action string, status int, body []byte) error {
	var parsed providerErrorResponse
	_ = json.Unmarshal(body, &parsed)
	message := parsed.Error.Message

	base := fmt.Errorf("provider %s failed: status %d: %s", action, status, message)
	switch {
	case strings.HasPrefix(message, "WEAK_PASSWORD"):
		return apperrors.NewAuthError(apperrors.AuthWeakPassword, base)
	case message == "EMAIL_EXISTS":
		return apperrors.NewAuthError(apperrors.AuthEmailInUse, base)
	case message == "INVALID_EMAIL", message == "MISSING_EMAIL":
		return apperrors.NewAuthError(apperrors.AuthInvalidEmail, base)
	case message == "INVALID_PASSWORD", message == "EMAIL_NOT_FOUND", message == "INVALID_LOGIN_CREDENTIALS":
		return apperrors.NewAuthError(apperrors.AuthCredentialInvalid, base)
	default:
		return apperrors.NewAuthError(apperrors.AuthOther, base)
	}
}

package identity

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	apperrors "nestquest/internal/errors"
	"nestquest/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// DeviceFlow is the external-provider consent flow, implemented with the
// OAuth2 device-authorization grant: the user approves the sign-in in a
// browser while the client polls the token endpoint.
type DeviceFlow struct {
	config oauth2.Config

	// OpenURL presents the consent page to the user. A failure here is the
	// device-flow analog of a blocked popup.
	OpenURL func(url string) error
}

type DeviceFlowConfig struct {
	Issuer   string
	ClientID string
	Scopes   []string
	OpenURL  func(url string) error
}

func NewDeviceFlow(cfg DeviceFlowConfig) *DeviceFlow {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{"openid", "profile", "email"}
	}
	openURL := cfg.OpenURL
	if openURL == nil {
		openURL = func(u string) error {
			logger.GlobalLogger.Printf("Visit %s to approve the sign-in", u)
			return nil
		}
	}
	return &DeviceFlow{
		config: oauth2.Config{
			ClientID: cfg.ClientID,
			Scopes:   scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:       cfg.Issuer + "/authorize",
				TokenURL:      cfg.Issuer + "/token",
				DeviceAuthURL: cfg.Issuer + "/device/code",
			},
		},
		OpenURL: openURL,
	}
}

func (f *DeviceFlow) Run(ctx context.Context) (*Account, error) {
	authResp, err := f.config.DeviceAuth(ctx)
	if err != nil {
		return nil, mapConsentError(err)
	}

	consentURL := authResp.VerificationURIComplete
	if consentURL == "" {
		consentURL = authResp.VerificationURI
	}
	if err := f.OpenURL(consentURL); err != nil {
		return nil, apperrors.NewAuthError(apperrors.AuthPopupBlocked, err)
	}

	token, err := f.config.DeviceAccessToken(ctx, authResp)
	if err != nil {
		return nil, mapConsentError(err)
	}

	account := &Account{
		IDToken:      token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}

	rawIDToken, _ := token.Extra("id_token").(string)
	if rawIDToken != "" {
		account.IDToken = rawIDToken
		if err := fillIdentityClaims(account, rawIDToken); err != nil {
			logger.GlobalLogger.Warnf("Failed to parse ID token claims: %v", err)
		}
	}
	if account.UID == "" {
		return nil, apperrors.NewAuthError(apperrors.AuthOther, fmt.Errorf("provider token carries no subject claim"))
	}

	return account, nil
}

// fillIdentityClaims extracts profile fields from the ID token. The token
// arrived over TLS straight from the provider's token endpoint, so claims
// are read without local signature verification.
func fillIdentityClaims(account *Account, rawIDToken string) error {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawIDToken, claims); err != nil {
		return err
	}
	if sub, ok := claims["sub"].(string); ok {
		account.UID = sub
	}
	if email, ok := claims["email"].(string); ok {
		account.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		account.DisplayName = name
	}
	if picture, ok := claims["picture"].(string); ok {
		account.PhotoURL = picture
	}
	return nil
}

func mapConsentError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		switch retrieveErr.ErrorCode {
		case "access_denied", "authorization_declined":
			return apperrors.NewAuthError(apperrors.AuthCancelled, err)
		case "expired_token":
			return apperrors.NewAuthError(apperrors.AuthCancelled, fmt.Errorf("consent not completed in time: %w", err))
		}
		return apperrors.NewAuthError(apperrors.AuthOther, err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return apperrors.NewAuthError(apperrors.AuthNetwork, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewAuthError(apperrors.AuthCancelled, err)
	}
	return apperrors.NewAuthError(apperrors.AuthOther, err)
}

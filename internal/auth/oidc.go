package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// Authenticator handles OAuth 2.0 / OIDC authentication against a hosted
// identity provider. The issuer is discovered at construction, so any
// standard OIDC provider works.
type Authenticator struct {
	config         *oauth2.Config
	verifier       *oidc.IDTokenVerifier
	allowedDomains map[string]struct{}
	allowedEmails  map[string]struct{}
}

// NewAuthenticator creates an Authenticator for the given issuer.
func NewAuthenticator(ctx context.Context, issuerURL, clientID, clientSecret, redirectURL string, allowedDomains, allowedEmails []string) (*Authenticator, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("oidc provider: %w", err)
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
	}

	verifier := provider.Verifier(&oidc.Config{ClientID: clientID})

	domainSet := make(map[string]struct{}, len(allowedDomains))
	for _, d := range allowedDomains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			domainSet[d] = struct{}{}
		}
	}

	emailSet := make(map[string]struct{}, len(allowedEmails))
	for _, e := range allowedEmails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			emailSet[e] = struct{}{}
		}
	}

	return &Authenticator{
		config:         config,
		verifier:       verifier,
		allowedDomains: domainSet,
		allowedEmails:  emailSet,
	}, nil
}

// AuthURL generates the provider's consent URL with the given state.
func (a *Authenticator) AuthURL(state string) string {
	return a.config.AuthCodeURL(
		state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
}

// Exchange exchanges the authorization code for tokens and returns the user claims.
func (a *Authenticator) Exchange(ctx context.Context, code string) (*Claims, error) {
	token, err := a.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, fmt.Errorf("no id_token in response")
	}

	idToken, err := a.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("verify id_token: %w", err)
	}

	var claims Claims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("parse claims: %w", err)
	}

	return &claims, nil
}

// IsEmailAllowed checks if the given email is allowed based on domain/email allowlists.
func (a *Authenticator) IsEmailAllowed(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, ok := a.allowedEmails[email]; ok {
		return true
	}

	parts := strings.Split(email, "@")
	if len(parts) == 2 {
		if _, ok := a.allowedDomains[parts[1]]; ok {
			return true
		}
	}

	// If both allowlists are empty, allow all (dev mode)
	return len(a.allowedDomains) == 0 && len(a.allowedEmails) == 0
}

// HasAllowlist returns true if any allowlist restrictions are configured.
func (a *Authenticator) HasAllowlist() bool {
	return len(a.allowedDomains) > 0 || len(a.allowedEmails) > 0
}

// GenerateState generates a cryptographically secure random state string.
func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

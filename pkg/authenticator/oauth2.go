package authenticator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/koinonia-app/backend/config"
	"golang.org/x/oauth2"
)

type OAuth2User struct {
	ID       string
	Username string
}

type IOAuth2Service interface {
	Service() string
	GetUserID(ctx context.Context, accessToken string) (OAuth2User, error)
	VerifyIDToken(ctx context.Context, rawIDToken string) (OAuth2User, error)
	VerifyAuthorizationCode(ctx context.Context, code, codeVerifier, redirectURI string) (OAuth2User, error)
}

type oauth2Service struct {
	*oidc.Provider
	oauth2.Config

	name      string
	idField   string
	verifyURL string
}

func NewOAuth2Service(ctx context.Context, cfg config.OAuth2Config) (IOAuth2Service, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, err
	}

	return &oauth2Service{
		Provider: provider,
		Config: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.Secret,
			Endpoint:     provider.Endpoint(),
		},
		name:      cfg.Name,
		idField:   cfg.IDField,
		verifyURL: cfg.VerifyURL,
	}, nil
}

func (s *oauth2Service) Service() string {
	return s.name
}

// GetUserID resolves the remote user behind an access token by calling the
// service's user-info endpoint.
func (s *oauth2Service) GetUserID(ctx context.Context, accessToken string) (OAuth2User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.verifyURL, nil)
	if err != nil {
		return OAuth2User{}, err
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return OAuth2User{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return OAuth2User{}, fmt.Errorf("user info endpoint returned status %d", resp.StatusCode)
	}

	var profile map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return OAuth2User{}, err
	}

	return s.userFromProfile(profile)
}

func (s *oauth2Service) VerifyIDToken(ctx context.Context, rawIDToken string) (OAuth2User, error) {
	idToken, err := s.Verifier(&oidc.Config{ClientID: s.ClientID}).Verify(ctx, rawIDToken)
	if err != nil {
		return OAuth2User{}, err
	}

	var profile map[string]any
	if err := idToken.Claims(&profile); err != nil {
		return OAuth2User{}, errors.New("invalid id token")
	}

	return s.userFromProfile(profile)
}

func (s *oauth2Service) VerifyAuthorizationCode(
	ctx context.Context, code, codeVerifier, redirectURI string,
) (OAuth2User, error) {
	cfg := s.Config
	cfg.RedirectURL = redirectURI
	token, err := cfg.Exchange(ctx, code, oauth2.SetAuthURLParam("code_verifier", codeVerifier))
	if err != nil {
		return OAuth2User{}, err
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return OAuth2User{}, errors.New("no id_token field in oauth2 token")
	}

	return s.VerifyIDToken(ctx, rawIDToken)
}

func (s *oauth2Service) userFromProfile(profile map[string]any) (OAuth2User, error) {
	id, ok := profile[s.idField].(string)
	if !ok {
		return OAuth2User{}, fmt.Errorf("invalid id field %s", s.idField)
	}

	username, _ := profile["name"].(string)

	// Scope the service user id with the service name so ids of different
	// providers can never collide.
	return OAuth2User{ID: s.name + "_" + id, Username: username}, nil
}

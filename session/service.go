package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/luaraumc/pfc-client/credstore"
	"github.com/luaraumc/pfc-client/internal/apperrors"
	"github.com/luaraumc/pfc-client/token"
)

const (
	loginPath  = "/auth/login"
	logoutPath = "/auth/logout"

	// LoginRoute is where a terminated session lands.
	LoginRoute = "/login"
)

// Navigator performs a hard navigation to a view, discarding any in-memory
// state. The SDK never navigates on its own; the embedding application
// supplies the mechanism.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Service owns the credential lifecycle endpoints: initial issuance via
// login, and teardown via logout.
type Service struct {
	baseURL string
	client  *http.Client
	store   credstore.Store
	nav     Navigator
	logger  zerolog.Logger
}

// NewService creates a session Service. The client should carry the cookie
// jar shared with the Refresher so the backend can plant the renewal cookie
// during login and clear it during logout.
func NewService(baseURL string, client *http.Client, store credstore.Store, nav Navigator, logger zerolog.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("[NewService] store is required")
	}
	if nav == nil {
		return nil, fmt.Errorf("[NewService] navigator is required")
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &Service{
		baseURL: baseURL,
		client:  client,
		store:   store,
		nav:     nav,
		logger:  logger,
	}, nil
}

// Login authenticates with email and password, stores the issued credential,
// and caches the user's profile flags for later routing decisions.
func (s *Service) Login(ctx context.Context, email, password string) error {
	payload, err := json.Marshal(map[string]string{"email": email, "senha": password})
	if err != nil {
		return apperrors.Wrapf(err, "login payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+loginPath, bytes.NewReader(payload))
	if err != nil {
		return apperrors.Wrapf(err, "login request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return apperrors.Wrapf(err, "login round-trip")
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: login status %d", apperrors.ErrUnauthorized, resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return apperrors.Wrapf(err, "login response")
	}
	if body.AccessToken == "" {
		return fmt.Errorf("%w: login response missing token", apperrors.ErrUnauthorized)
	}

	cred := credstore.Credential{Token: body.AccessToken, Type: body.TokenType}
	if err := s.store.SetCredential(cred); err != nil {
		return apperrors.Wrapf(err, "login store credential")
	}

	// Best effort: a failed profile fetch leaves the session usable, just
	// without cached flags.
	if err := s.cacheProfile(ctx, cred); err != nil {
		s.logger.Warn().Err(err).Msg("profile flags not cached after login")
	}

	return nil
}

// Logout notifies the backend so it can invalidate the renewal cookie, then
// wipes local credentials and performs a hard navigation to the login view.
// The network call is best effort: logout always succeeds locally, even
// offline.
func (s *Service) Logout(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+logoutPath, nil)
	if err == nil {
		if resp, doErr := s.client.Do(req); doErr != nil {
			s.logger.Warn().Err(doErr).Msg("logout notification failed, clearing locally anyway")
		} else {
			resp.Body.Close() // nolint:errcheck
		}
	}

	if err := s.store.Clear(); err != nil {
		s.logger.Error().Err(err).Msg("credential store clear failed during logout")
	}

	s.nav.Navigate(LoginRoute)
}

// cacheProfile fetches the freshly authenticated user's record and stores
// the denormalized flags alongside the credential.
func (s *Service) cacheProfile(ctx context.Context, cred credstore.Credential) error {
	claims := token.DecodeClaims(cred.Token)
	if claims == nil || claims.Sub == "" {
		return fmt.Errorf("credential carries no subject")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/usuario/"+claims.Sub, nil)
	if err != nil {
		return apperrors.Wrapf(err, "profile request")
	}
	tokenType := cred.Type
	if tokenType == "" {
		tokenType = credstore.DefaultTokenType
	}
	req.Header.Set("Authorization", tokenType+" "+cred.Token)

	resp, err := s.client.Do(req)
	if err != nil {
		return apperrors.Wrapf(err, "profile round-trip")
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", apperrors.ErrProfileNotFound, resp.StatusCode)
	}

	var user struct {
		ID    json.Number `json:"id"`
		Nome  string      `json:"nome"`
		Email string      `json:"email"`
		Admin bool        `json:"admin"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return apperrors.Wrapf(err, "profile response")
	}

	return s.store.SetProfile(credstore.Profile{
		UserID: claims.Sub,
		Name:   user.Nome,
		Email:  user.Email,
		Admin:  user.Admin,
	})
}

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/luaraumc/pfc-client/credstore"
	"github.com/luaraumc/pfc-client/internal/apperrors"
)

const refreshPath = "/auth/refresh"

// RefreshError describes a failed credential renewal: either a non-success
// HTTP status from the refresh endpoint, or a success response that carried
// no token.
type RefreshError struct {
	Status int    // HTTP status code, zero when the response was a 2xx
	Reason string // Set when the failure was not a status code
}

func (e *RefreshError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("refresh failed: %s", e.Reason)
	}
	return fmt.Sprintf("refresh failed: status %d", e.Status)
}

func (e *RefreshError) Unwrap() error {
	return apperrors.ErrRefreshFailed
}

// NewCookieClient returns an HTTP client with a cookie jar, so the browser-style
// HTTP-only renewal cookie set by the backend travels with every request. The
// renewal secret itself is never readable by this layer; the jar is the only
// holder.
func NewCookieClient(timeout time.Duration) (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, apperrors.Wrapf(err, "session cookie jar")
	}
	return &http.Client{Jar: jar, Timeout: timeout}, nil
}

// Refresher exchanges the server-held renewal cookie for a new access
// credential and writes it into the store. Concurrent calls are coalesced
// into a single in-flight request: when many authenticated requests fail at
// once, the backend sees one renewal call, not a thundering herd.
type Refresher struct {
	baseURL string
	client  *http.Client
	store   credstore.Store
	logger  zerolog.Logger
	group   singleflight.Group
}

// NewRefresher creates a Refresher. The client should come from
// NewCookieClient (or otherwise carry a cookie jar), since the renewal
// credential only travels as a cookie.
func NewRefresher(baseURL string, client *http.Client, store credstore.Store, logger zerolog.Logger) *Refresher {
	return &Refresher{
		baseURL: baseURL,
		client:  client,
		store:   store,
		logger:  logger,
	}
}

// Refresh renews the access credential. All concurrent callers share one
// round-trip and receive the same credential or error.
func (r *Refresher) Refresh(ctx context.Context) (credstore.Credential, error) {
	v, err, shared := r.group.Do("refresh", func() (any, error) {
		return r.refresh(ctx)
	})
	if err != nil {
		return credstore.Credential{}, err
	}
	if shared {
		r.logger.Debug().Msg("refresh call coalesced with an in-flight renewal")
	}
	return v.(credstore.Credential), nil
}

func (r *Refresher) refresh(ctx context.Context) (credstore.Credential, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+refreshPath, nil)
	if err != nil {
		return credstore.Credential{}, apperrors.Wrapf(err, "refresh request")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return credstore.Credential{}, apperrors.Wrapf(err, "refresh round-trip")
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		r.logger.Warn().Int("status", resp.StatusCode).Msg("credential renewal rejected")
		return credstore.Credential{}, &RefreshError{Status: resp.StatusCode}
	}

	// A body that fails to parse is treated as an empty response, which in
	// turn fails for the missing token.
	var body struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)

	if body.AccessToken == "" {
		return credstore.Credential{}, &RefreshError{Reason: "missing token"}
	}

	cred := credstore.Credential{Token: body.AccessToken, Type: body.TokenType}
	if err := r.store.SetCredential(cred); err != nil {
		return credstore.Credential{}, apperrors.Wrapf(err, "refresh store credential")
	}
	if cred.Type == "" {
		cred.Type = credstore.DefaultTokenType
	}

	r.logger.Debug().Msg("access credential renewed")
	return cred, nil
}

package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/luaraumc/pfc-client/credstore"
	"github.com/luaraumc/pfc-client/internal/apperrors"
)

// Refresher renews the access credential. Satisfied by *session.Refresher.
type Refresher interface {
	Refresh(ctx context.Context) (credstore.Credential, error)
}

// Gateway wraps outbound HTTP calls to the platform backend. It attaches the
// bearer credential, recovers an authorization failure with exactly one
// renewal and one replay, and otherwise passes responses through untouched.
// It never interprets business-level response bodies.
type Gateway struct {
	baseURL   string
	client    *http.Client
	store     credstore.Store
	refresher Refresher
	logger    zerolog.Logger
}

// New creates a Gateway. The client must carry the cookie jar shared with
// the Refresher: every request goes out with cookies attached so a 401 can
// be recovered through the cookie-based renewal.
func New(baseURL string, client *http.Client, store credstore.Store, refresher Refresher, logger zerolog.Logger) (*Gateway, error) {
	if client == nil {
		return nil, fmt.Errorf("[gateway.New] client is required")
	}
	if store == nil {
		return nil, fmt.Errorf("[gateway.New] store is required")
	}
	if refresher == nil {
		return nil, fmt.Errorf("[gateway.New] refresher is required")
	}

	return &Gateway{
		baseURL:   baseURL,
		client:    client,
		store:     store,
		refresher: refresher,
		logger:    logger,
	}, nil
}

// NewRequest builds a request against the backend base URL. Bodies built
// from a bytes or strings reader remain replayable across the single retry.
func (g *Gateway) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return nil, apperrors.Wrapf(err, "gateway request %s %s", method, path)
	}
	return req, nil
}

// Do sends an authenticated request.
//
// With no stored credential it first awaits one renewal. On a 401 or 403
// response it renews once, rebuilds the Authorization header, and replays
// the request once; the replay's outcome is returned as-is, so at most one
// retry happens per call even if the backend keeps rejecting. A renewal
// failure at either point surfaces apperrors.ErrUnauthorized.
func (g *Gateway) Do(req *http.Request) (*http.Response, error) {
	logger := g.logger.With().
		Str("request_id", uuid.NewString()).
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Logger()

	cred, ok := g.store.Credential()
	if !ok {
		var err error
		cred, err = g.refresher.Refresh(req.Context())
		if err != nil {
			return nil, fmt.Errorf("%w: no stored credential and renewal failed: %v", apperrors.ErrUnauthorized, err)
		}
	}

	// A caller-supplied Authorization header wins.
	if req.Header.Get("Authorization") == "" {
		authorize(req, cred)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrapf(err, "gateway round-trip")
	}

	if resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusForbidden {
		return resp, nil
	}

	logger.Debug().Int("status", resp.StatusCode).Msg("authorization failure, renewing credential")

	cred, err = g.refresher.Refresh(req.Context())
	if err != nil {
		resp.Body.Close() // nolint:errcheck
		return nil, fmt.Errorf("%w: renewal after status %d failed: %v", apperrors.ErrUnauthorized, resp.StatusCode, err)
	}

	retry, err := replayableClone(req)
	if err != nil {
		// The body cannot be rebuilt, so the original response is the best
		// answer available.
		logger.Warn().Err(err).Msg("cannot replay request after renewal")
		return resp, nil
	}
	resp.Body.Close() // nolint:errcheck

	authorize(retry, cred)
	return g.client.Do(retry)
}

// authorize sets the bearer header from the credential.
func authorize(req *http.Request, cred credstore.Credential) {
	tokenType := cred.Type
	if tokenType == "" {
		tokenType = credstore.DefaultTokenType
	}
	req.Header.Set("Authorization", tokenType+" "+cred.Token)
}

// replayableClone rebuilds the request for the single retry. Requests with a
// body need GetBody, which net/http sets automatically for in-memory readers.
func replayableClone(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())

	if req.Body == nil || req.Body == http.NoBody {
		clone.Body = nil
		return clone, nil
	}
	if req.GetBody == nil {
		return nil, fmt.Errorf("request body is not replayable")
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, apperrors.Wrapf(err, "rebuild request body")
	}
	clone.Body = body
	return clone, nil
}

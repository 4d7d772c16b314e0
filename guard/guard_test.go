package guard_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luaraumc/pfc-client/credstore"
	"github.com/luaraumc/pfc-client/credstore/storefake"
	"github.com/luaraumc/pfc-client/guard"
	"github.com/luaraumc/pfc-client/internal/apperrors"
	"github.com/luaraumc/pfc-client/internal/tokentest"
)

type fakeRefresher struct {
	cred  credstore.Credential
	err   error
	calls atomic.Int32
}

func (f *fakeRefresher) Refresh(ctx context.Context) (credstore.Credential, error) {
	f.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return credstore.Credential{}, err
	}
	return f.cred, f.err
}

func liveToken() string {
	return tokentest.Make("42", time.Now().Add(time.Hour).Unix())
}

func staleToken() string {
	return tokentest.Make("42", time.Now().Add(-time.Hour).Unix())
}

func TestRequireAuth(t *testing.T) {
	t.Run("no credential redirects to login", func(t *testing.T) {
		g := guard.New(storefake.NewFakeStore(), &fakeRefresher{}, zerolog.Nop())

		decision := g.RequireAuth(context.Background())

		assert.Equal(t, guard.StateUnauthorized, decision.State)
		assert.Equal(t, guard.LoginRoute, decision.RedirectTo)
		assert.False(t, decision.Admitted())
	})

	t.Run("live credential is admitted without refreshing", func(t *testing.T) {
		store := storefake.NewFakeStore()
		require.NoError(t, store.SetCredential(credstore.Credential{Token: liveToken()}))
		refresher := &fakeRefresher{}
		g := guard.New(store, refresher, zerolog.Nop())

		decision := g.RequireAuth(context.Background())

		assert.Equal(t, guard.StateAuthorized, decision.State)
		assert.True(t, decision.Admitted())
		assert.Equal(t, int32(0), refresher.calls.Load())
	})

	t.Run("expired credential renewed successfully is admitted", func(t *testing.T) {
		store := storefake.NewFakeStore()
		require.NoError(t, store.SetCredential(credstore.Credential{Token: staleToken()}))
		refresher := &fakeRefresher{cred: credstore.Credential{Token: liveToken()}}
		g := guard.New(store, refresher, zerolog.Nop())

		decision := g.RequireAuth(context.Background())

		assert.Equal(t, guard.StateAuthorized, decision.State)
		assert.Equal(t, int32(1), refresher.calls.Load())
	})

	t.Run("expired credential with failing renewal redirects to login", func(t *testing.T) {
		store := storefake.NewFakeStore()
		require.NoError(t, store.SetCredential(credstore.Credential{Token: staleToken()}))
		g := guard.New(store, &fakeRefresher{err: apperrors.ErrRefreshFailed}, zerolog.Nop())

		decision := g.RequireAuth(context.Background())

		assert.Equal(t, guard.StateUnauthorized, decision.State)
		assert.Equal(t, guard.LoginRoute, decision.RedirectTo)
	})

	t.Run("token inside the skew window forces a renewal", func(t *testing.T) {
		store := storefake.NewFakeStore()
		almostExpired := tokentest.Make("42", time.Now().Add(10*time.Second).Unix())
		require.NoError(t, store.SetCredential(credstore.Credential{Token: almostExpired}))
		refresher := &fakeRefresher{cred: credstore.Credential{Token: liveToken()}}
		g := guard.New(store, refresher, zerolog.Nop(), guard.WithExpirySkew(30*time.Second))

		decision := g.RequireAuth(context.Background())

		assert.Equal(t, guard.StateAuthorized, decision.State)
		assert.Equal(t, int32(1), refresher.calls.Load())
	})

	t.Run("cancelled check resolves to a non-terminal state", func(t *testing.T) {
		store := storefake.NewFakeStore()
		require.NoError(t, store.SetCredential(credstore.Credential{Token: staleToken()}))
		g := guard.New(store, &fakeRefresher{}, zerolog.Nop())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		decision := g.RequireAuth(ctx)

		assert.Equal(t, guard.StateChecking, decision.State)
		assert.Empty(t, decision.RedirectTo)
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Run("no credential redirects to login", func(t *testing.T) {
		store := storefake.NewFakeStore()
		require.NoError(t, store.SetProfile(credstore.Profile{UserID: "42", Admin: true}))
		g := guard.New(store, &fakeRefresher{}, zerolog.Nop())

		decision := g.RequireAdmin(context.Background())

		assert.Equal(t, guard.StateUnauthorized, decision.State)
		assert.Equal(t, guard.LoginRoute, decision.RedirectTo,
			"a cached admin flag without a credential must not admit")
	})

	t.Run("admin session is admitted", func(t *testing.T) {
		store := storefake.NewFakeStore()
		require.NoError(t, store.SetCredential(credstore.Credential{Token: liveToken()}))
		require.NoError(t, store.SetProfile(credstore.Profile{UserID: "42", Admin: true}))
		g := guard.New(store, &fakeRefresher{}, zerolog.Nop())

		decision := g.RequireAdmin(context.Background())

		assert.Equal(t, guard.StateAuthorized, decision.State)
	})

	t.Run("authenticated non-admin redirects to user home", func(t *testing.T) {
		store := storefake.NewFakeStore()
		require.NoError(t, store.SetCredential(credstore.Credential{Token: liveToken()}))
		require.NoError(t, store.SetProfile(credstore.Profile{UserID: "42", Admin: false}))
		g := guard.New(store, &fakeRefresher{}, zerolog.Nop())

		decision := g.RequireAdmin(context.Background())

		assert.Equal(t, guard.StateForbidden, decision.State)
		assert.Equal(t, guard.UserHomeRoute, decision.RedirectTo)
	})

	t.Run("missing profile is treated as non-admin", func(t *testing.T) {
		store := storefake.NewFakeStore()
		require.NoError(t, store.SetCredential(credstore.Credential{Token: liveToken()}))
		g := guard.New(store, &fakeRefresher{}, zerolog.Nop())

		decision := g.RequireAdmin(context.Background())

		assert.Equal(t, guard.StateForbidden, decision.State)
	})

	t.Run("expired credential with failing renewal redirects to login", func(t *testing.T) {
		store := storefake.NewFakeStore()
		require.NoError(t, store.SetCredential(credstore.Credential{Token: staleToken()}))
		require.NoError(t, store.SetProfile(credstore.Profile{UserID: "42", Admin: true}))
		g := guard.New(store, &fakeRefresher{err: apperrors.ErrRefreshFailed}, zerolog.Nop())

		decision := g.RequireAdmin(context.Background())

		assert.Equal(t, guard.StateUnauthorized, decision.State)
		assert.Equal(t, guard.LoginRoute, decision.RedirectTo)
	})
}

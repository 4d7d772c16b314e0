package platform_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luaraumc/pfc-client/credstore"
	"github.com/luaraumc/pfc-client/credstore/storefake"
	"github.com/luaraumc/pfc-client/gateway"
	"github.com/luaraumc/pfc-client/platform"
)

type staticRefresher struct {
	cred credstore.Credential
}

func (s *staticRefresher) Refresh(ctx context.Context) (credstore.Credential, error) {
	return s.cred, nil
}

func newPlatformClient(t *testing.T, baseURL string, store *storefake.FakeStore) *platform.Client {
	t.Helper()

	gw, err := gateway.New(baseURL, &http.Client{}, store, &staticRefresher{}, zerolog.Nop())
	require.NoError(t, err)
	return platform.NewClient(gw, zerolog.Nop())
}

func authedStore(t *testing.T) *storefake.FakeStore {
	t.Helper()

	store := storefake.NewFakeStore()
	require.NoError(t, store.SetCredential(credstore.Credential{Token: "valid-token"}))
	return store
}

func TestUsuario(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/usuario/42", r.URL.Path)
		require.Equal(t, "Bearer valid-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":42,"nome":"Ana","email":"ana@example.com","admin":true,"carreira_id":3}`)) // nolint:errcheck
	}))
	defer server.Close()

	client := newPlatformClient(t, server.URL, authedStore(t))

	user, err := client.Usuario(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, "Ana", user.Nome)
	assert.True(t, user.Admin)
	require.NotNil(t, user.CarreiraID)
	assert.Equal(t, int64(3), *user.CarreiraID)
	assert.Nil(t, user.CursoID)
}

func TestCatalogLists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/carreira":
			w.Write([]byte(`[{"id":1,"nome":"Dados","descricao":"Engenharia de dados"}]`)) // nolint:errcheck
		case "/curso":
			w.Write([]byte(`[{"id":2,"nome":"Computação","carreira_id":1}]`)) // nolint:errcheck
		case "/habilidade":
			w.Write([]byte(`[{"id":3,"nome":"SQL"}]`)) // nolint:errcheck
		case "/vaga":
			w.Write([]byte(`[{"id":4,"titulo":"Analista","descricao":"Pleno"}]`)) // nolint:errcheck
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := newPlatformClient(t, server.URL, authedStore(t))
	ctx := context.Background()

	carreiras, err := client.Carreiras(ctx)
	require.NoError(t, err)
	require.Len(t, carreiras, 1)
	assert.Equal(t, "Dados", carreiras[0].Nome)

	cursos, err := client.Cursos(ctx)
	require.NoError(t, err)
	require.Len(t, cursos, 1)
	assert.Equal(t, "Computação", cursos[0].Nome)

	habilidades, err := client.Habilidades(ctx)
	require.NoError(t, err)
	require.Len(t, habilidades, 1)
	assert.Equal(t, "SQL", habilidades[0].Nome)

	vagas, err := client.Vagas(ctx)
	require.NoError(t, err)
	require.Len(t, vagas, 1)
	assert.Equal(t, "Analista", vagas[0].Titulo)
}

func TestCatalogReadRecoversFromStaleCredential(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "Bearer renewed-token", r.Header.Get("Authorization"))
		w.Write([]byte(`[{"id":1,"nome":"Dados"}]`)) // nolint:errcheck
	}))
	defer server.Close()

	store := storefake.NewFakeStore()
	require.NoError(t, store.SetCredential(credstore.Credential{Token: "stale-token"}))
	gw, err := gateway.New(server.URL, &http.Client{}, store,
		&staticRefresher{cred: credstore.Credential{Token: "renewed-token"}}, zerolog.Nop())
	require.NoError(t, err)
	client := platform.NewClient(gw, zerolog.Nop())

	carreiras, err := client.Carreiras(context.Background())
	require.NoError(t, err)
	require.Len(t, carreiras, 1)
	assert.Equal(t, int32(2), requests.Load())
}

func TestCatalogReadSurfacesErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newPlatformClient(t, server.URL, authedStore(t))

	_, err := client.Carreiras(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

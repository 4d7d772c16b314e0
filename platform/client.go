package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/luaraumc/pfc-client/gateway"
	"github.com/luaraumc/pfc-client/internal/apperrors"
)

// Client exposes the backend catalog resources as typed reads. Every call
// goes through the authenticated gateway; this layer adds no business logic.
type Client struct {
	gw     *gateway.Gateway
	logger zerolog.Logger
}

func NewClient(gw *gateway.Gateway, logger zerolog.Logger) *Client {
	return &Client{gw: gw, logger: logger}
}

// Usuario is a platform user record, including the admin flag the backend
// holds as the authoritative copy of the locally cached hint.
type Usuario struct {
	ID         int64  `json:"id"`
	Nome       string `json:"nome"`
	Email      string `json:"email"`
	Admin      bool   `json:"admin"`
	CarreiraID *int64 `json:"carreira_id"`
	CursoID    *int64 `json:"curso_id"`
}

type Carreira struct {
	ID        int64  `json:"id"`
	Nome      string `json:"nome"`
	Descricao string `json:"descricao"`
}

type Curso struct {
	ID         int64  `json:"id"`
	Nome       string `json:"nome"`
	CarreiraID *int64 `json:"carreira_id"`
}

type Habilidade struct {
	ID   int64  `json:"id"`
	Nome string `json:"nome"`
}

type Vaga struct {
	ID        int64  `json:"id"`
	Titulo    string `json:"titulo"`
	Descricao string `json:"descricao"`
}

// Usuario fetches a user record by id.
func (c *Client) Usuario(ctx context.Context, id int64) (*Usuario, error) {
	var u Usuario
	if err := c.getJSON(ctx, "/usuario/"+strconv.FormatInt(id, 10), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Carreiras lists the career catalog.
func (c *Client) Carreiras(ctx context.Context) ([]Carreira, error) {
	var out []Carreira
	return out, c.getJSON(ctx, "/carreira", &out)
}

// Cursos lists the course catalog.
func (c *Client) Cursos(ctx context.Context) ([]Curso, error) {
	var out []Curso
	return out, c.getJSON(ctx, "/curso", &out)
}

// Habilidades lists the skill catalog.
func (c *Client) Habilidades(ctx context.Context) ([]Habilidade, error) {
	var out []Habilidade
	return out, c.getJSON(ctx, "/habilidade", &out)
}

// Vagas lists the job postings.
func (c *Client) Vagas(ctx context.Context) ([]Vaga, error) {
	var out []Vaga
	return out, c.getJSON(ctx, "/vaga", &out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.gw.NewRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	resp, err := c.gw.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("platform read failed")
		return fmt.Errorf("platform %s: status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrapf(err, "platform %s response", path)
	}
	return nil
}

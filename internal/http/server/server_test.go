package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf-gateway/internal/config"
	"pdf-gateway/internal/domain"
	"pdf-gateway/internal/infra/chrome"
)

type stubRenderer struct{}

func (stubRenderer) Generate(context.Context, domain.RenderRequest) ([]byte, error) {
	return []byte("%PDF-1.7 stub"), nil
}

func minimalConfig() config.Config {
	cfg := config.Default()
	cfg.Limits.MaxBodyBytes = 1024
	return cfg
}

func TestNew_RoutesAndJSON404(t *testing.T) {
	app := New(Deps{Config: minimalConfig(), Renderer: stubRenderer{}})

	reqStats, _ := http.NewRequest(http.MethodGet, "/ops/sessions", nil)
	respStats, err := app.Test(reqStats)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, respStats.StatusCode)

	req404, _ := http.NewRequest(http.MethodGet, "/does-not-exist", nil)
	resp404, err := app.Test(req404)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp404.StatusCode)
	assert.Contains(t, resp404.Header.Get("Content-Type"), "application/json")
	body, _ := io.ReadAll(resp404.Body)
	assert.JSONEq(t, `{"error":{"code":404,"message":"Not Found"}}`, string(body))
}

func TestNew_GenerateReturnsPDF(t *testing.T) {
	app := New(Deps{Config: minimalConfig(), Renderer: stubRenderer{}, Sessions: chrome.NewTracker()})

	req, _ := http.NewRequest(http.MethodPost, "/generate", strings.NewReader(`{"html":"<p>hi</p>"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestNew_MalformedJSONIsJSONError(t *testing.T) {
	app := New(Deps{Config: minimalConfig(), Renderer: stubRenderer{}})

	req, _ := http.NewRequest(http.MethodPost, "/generate", strings.NewReader(`{"html":`))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"code":400`)
}

func TestNew_BodyLimit(t *testing.T) {
	app := New(Deps{Config: minimalConfig(), Renderer: stubRenderer{}})

	big := `{"html":"` + string(bytes.Repeat([]byte("a"), 4096)) + `"}`
	req, _ := http.NewRequest(http.MethodPost, "/generate", strings.NewReader(big))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestNew_GenerateRejectsGet(t *testing.T) {
	app := New(Deps{Config: minimalConfig(), Renderer: stubRenderer{}})

	req, _ := http.NewRequest(http.MethodGet, "/generate", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.NotEqual(t, http.StatusOK, resp.StatusCode)
}

package suppliers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cotacao-hub/cotacao/internal/platform/httpx"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	_, repo := newSQLiteRepo(t)
	handler := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), NewService(repo))
	r := chi.NewRouter()
	httpx.Mount(r, "/fornecedores", handler.Routes())
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, path, reader))
	return rr
}

func TestHandlerCreateAndList(t *testing.T) {
	router := newTestRouter(t)

	rr := do(t, router, http.MethodPost, "/fornecedores", `{"nome":"Alfa","contato":"14 99524-1168"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.EqualValues(t, 1, created["id"])
	assert.Equal(t, "Alfa", created["nome"])
	assert.Equal(t, "14 99524-1168", created["contato"])

	rr = do(t, router, http.MethodGet, "/fornecedores", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var list []Supplier
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}

func TestHandlerCreateRejectsMissingName(t *testing.T) {
	router := newTestRouter(t)

	rr := do(t, router, http.MethodPost, "/fornecedores", `{"contato":"1199"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "nome é obrigatório")
}

func TestHandlerDeleteUnknownIs404(t *testing.T) {
	router := newTestRouter(t)

	rr := do(t, router, http.MethodDelete, "/fornecedores/12", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandlerDeleteReturnsOK(t *testing.T) {
	router := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/fornecedores", `{"nome":"Alfa"}`).Code)

	rr := do(t, router, http.MethodDelete, "/fornecedores/1?cascade=true", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok":true}`, rr.Body.String())
}

func TestHandlerRejectsNonNumericID(t *testing.T) {
	router := newTestRouter(t)

	rr := do(t, router, http.MethodGet, "/fornecedores/abc", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondErrorMapsTaxonomy(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		title  string
	}{
		{"validation", Validation("nome é obrigatório"), http.StatusBadRequest, "Validation Failed"},
		{"not found", fmt.Errorf("fornecedor 9: %w", ErrNotFound), http.StatusNotFound, "Not Found"},
		{"conflict", ErrConflict, http.StatusConflict, "Conflict"},
		{"configuration", MissingConfiguration("DIGISAC_TOKEN"), http.StatusInternalServerError, "Configuration Error"},
		{"storage", Storage("list", errors.New("boom")), http.StatusInternalServerError, "Internal Error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			RespondError(rr, tc.err)
			require.Equal(t, tc.status, rr.Code)
			var body ProblemDetail
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tc.title, body.Title)
			assert.Equal(t, tc.status, StatusOf(tc.err))
		})
	}
}

func TestRespondErrorForwardsUpstreamDetails(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, fmt.Errorf("send: %w", &RemoteError{Status: 422, Body: `{"message":"invalid number"}`}))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var body ProblemDetail
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 422, body.UpstreamStatus)
	assert.Contains(t, body.UpstreamBody, "invalid number")
}

func TestStorageKeepsClassifiedErrors(t *testing.T) {
	err := Storage("get", fmt.Errorf("fornecedor 3: %w", ErrNotFound))
	assert.ErrorIs(t, err, ErrNotFound)
	var storage *StorageError
	assert.False(t, errors.As(err, &storage))
	assert.Nil(t, Storage("noop", nil))
	assert.Equal(t, "erro ao acessar o banco de dados", Message(Storage("list", errors.New("dial tcp"))))
}

type bindTarget struct {
	Nome  string   `json:"nome" validate:"required"`
	Preco *float64 `json:"preco" validate:"omitempty,gte=0"`
}

func TestBindReportsJSONFieldNames(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"preco":-1}`))
	var target bindTarget
	err := Bind(req, &target)
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "nome é obrigatório")
	assert.Contains(t, err.Error(), "preco deve ser maior ou igual a 0")
}

func TestBindRejectsEmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	var target bindTarget
	require.ErrorIs(t, Bind(req, &target), ErrValidation)
}

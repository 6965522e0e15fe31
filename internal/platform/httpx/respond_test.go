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

var errAssertion = errors.New("connection refused")

func TestProblemBody(t *testing.T) {
	rec := httptest.NewRecorder()
	Problem(rec, http.StatusNotFound, "Not Found", "no job with id 7")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, problemTypeBase+"not-found", body.Type)
	assert.Equal(t, "Not Found", body.Title)
	assert.Equal(t, http.StatusNotFound, body.Status)
	assert.Equal(t, "no job with id 7", body.Detail)
}

func TestRespondErrorMapsTaxonomy(t *testing.T) {
	cases := map[error]int{
		fmt.Errorf("%w: gone", ErrNotFound):    http.StatusNotFound,
		fmt.Errorf("%w: taken", ErrDuplicate):  http.StatusConflict,
		fmt.Errorf("%w: bad", ErrValidation):   http.StatusBadRequest,
		fmt.Errorf("%w: denied", ErrForbidden): http.StatusForbidden,
		fmt.Errorf("%w: who", ErrUnauthorized): http.StatusUnauthorized,
		errAssertion:                           http.StatusInternalServerError,
	}
	for err, want := range cases {
		rec := httptest.NewRecorder()
		RespondError(rec, err)
		assert.Equal(t, want, rec.Code)
	}
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, fmt.Errorf("pq: connection refused"))

	var body ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Detail)
}

func TestDecodeJSONCapsBodySize(t *testing.T) {
	oversized := `{"note":"` + strings.Repeat("x", maxBodySize) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(oversized))

	var target struct {
		Note string `json:"note"`
	}
	assert.Error(t, DecodeJSON(req, &target))
}

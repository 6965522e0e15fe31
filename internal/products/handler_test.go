package products

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huntboard/huntboard/internal/auth"
	"github.com/huntboard/huntboard/internal/token"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func newTestRouter(t *testing.T) (http.Handler, *token.Service, string) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := token.NewService("test-secret", time.Hour)
	middleware := auth.NewMiddleware(logger, tokens)
	uploadDir := t.TempDir()
	handler := NewHandler(logger, NewService(newMockRepository()), middleware, uploadDir, 1<<20)

	r := chi.NewRouter()
	r.Route("/api/v1/products", handler.MountRoutes)
	return r, tokens, uploadDir
}

func bearer(t *testing.T, tokens *token.Service, userID int64, role string) string {
	t.Helper()
	session, err := tokens.Issue(userID, role)
	require.NoError(t, err)
	return "Bearer " + session
}

func createBody(t *testing.T) *bytes.Reader {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"name":        "accent chair",
		"description": "comfortable",
		"price":       259.99,
		"category":    "office",
		"company":     "marcos",
	})
	require.NoError(t, err)
	return bytes.NewReader(payload)
}

func TestListProductsIsPublic(t *testing.T) {
	router, _, _ := newTestRouter(t)

	for _, path := range []string{"/api/v1/products/", "/api/v1/products/static"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestCreateProductRequiresAdmin(t *testing.T) {
	router, tokens, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/", createBody(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/products/", createBody(t))
	req.Header.Set("Authorization", bearer(t, tokens, 2, auth.RoleUser))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/products/", createBody(t))
	req.Header.Set("Authorization", bearer(t, tokens, 1, auth.RoleAdmin))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Product Product `json:"product"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "accent chair", body.Product.Name)
	assert.Equal(t, int64(1), body.Product.CreatedBy)
}

func TestCreateProductRejectsZeroPrice(t *testing.T) {
	router, tokens, _ := newTestRouter(t)

	payload, err := json.Marshal(map[string]any{
		"name":        "accent chair",
		"description": "comfortable",
		"price":       0,
		"category":    "office",
		"company":     "marcos",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/", bytes.NewReader(payload))
	req.Header.Set("Authorization", bearer(t, tokens, 1, auth.RoleAdmin))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Price must be a positive number")
}

func TestGetProductInvalidID(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestUploadImage(t *testing.T) {
	router, tokens, uploadDir := newTestRouter(t)

	body, contentType := multipartBody(t, "image", "chair.png", pngHeader)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/upload-image", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", bearer(t, tokens, 1, auth.RoleAdmin))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, strings.HasPrefix(resp["image"], "/uploads/"))
	assert.True(t, strings.HasSuffix(resp["image"], ".png"))

	saved := filepath.Join(uploadDir, strings.TrimPrefix(resp["image"], "/uploads/"))
	data, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)
}

func TestUploadImageRejectsNonImage(t *testing.T) {
	router, tokens, _ := newTestRouter(t)

	body, contentType := multipartBody(t, "image", "notes.txt", []byte("plain text, not an image"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/upload-image", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", bearer(t, tokens, 1, auth.RoleAdmin))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "please upload an image file")
}

func TestUploadImageRequiresFile(t *testing.T) {
	router, tokens, _ := newTestRouter(t)

	body, contentType := multipartBody(t, "wrong-field", "chair.png", pngHeader)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/upload-image", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", bearer(t, tokens, 1, auth.RoleAdmin))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadImageRequiresAdmin(t *testing.T) {
	router, tokens, _ := newTestRouter(t)

	body, contentType := multipartBody(t, "image", "chair.png", pngHeader)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/upload-image", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", bearer(t, tokens, 2, auth.RoleUser))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

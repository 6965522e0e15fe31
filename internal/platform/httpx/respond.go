// Package httpx carries the HTTP plumbing shared by every Huntboard
// handler: JSON rendering, request body decoding and RFC7807 problem
// responses built from the domain error taxonomy.
package httpx

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// problemTypeBase prefixes the type URI of every problem response.
const problemTypeBase = "https://huntboard.dev/problems/"

// maxBodySize caps JSON request bodies. Image uploads go through
// multipart and are limited separately.
const maxBodySize = 1 << 20

// ProblemDetail is the RFC7807 body produced for every error response.
type ProblemDetail struct {
	Type   string `json:"type,omitempty"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Problem sends an RFC7807 problem details response. The type URI is
// derived from the title so clients can switch on it without parsing
// the detail text.
func Problem(w http.ResponseWriter, status int, title, detail string) {
	JSON(w, status, ProblemDetail{
		Type:   problemTypeBase + titleSlug(title),
		Title:  title,
		Status: status,
		Detail: detail,
	})
}

// DecodeJSON decodes a JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(target)
}

func titleSlug(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "-")
}

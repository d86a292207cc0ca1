package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	mw "github.com/mechanio/garage/internal/api/middleware"
	"github.com/mechanio/garage/internal/model"
)

// newRequest creates a new HTTP request with an optional JSON body.
func newRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", "application/json")
	return r
}

// newRequestRaw creates a new HTTP request with a raw string body.
func newRequestRaw(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// withActor injects an authenticated actor into the request context.
func withActor(r *http.Request, actor model.Actor) *http.Request {
	return r.WithContext(mw.WithActor(r.Context(), &actor))
}

// decodeErrorResponse parses the JSON error response body into a map.
func decodeErrorResponse(rec *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	return body
}

var testActor = model.Actor{UserID: "usr-1", OrgID: "org-1"}

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRouterServesHealthz(t *testing.T) {
	router := NewRouter()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
}

func TestRouterUnknownRouteReturnsEnvelope(t *testing.T) {
	router := NewRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
	var body struct {
		Error  string `json:"error"`
		Status int    `json:"status"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body.Error != errorNotFoundCode {
		t.Fatalf("unexpected error code %q", body.Error)
	}
	if body.Status != http.StatusNotFound {
		t.Fatalf("unexpected status field %d", body.Status)
	}
}

func TestRouterAppliesAPIMiddlewares(t *testing.T) {
	var sawAPI bool
	marker := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sawAPI = true
			next.ServeHTTP(w, r)
		})
	}

	router := NewRouter(
		WithAPIMiddlewares(marker),
		WithGalleryRoutes(NewGalleryHandlers(&stubGalleryService{}).Routes),
	)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)
	if sawAPI {
		t.Fatalf("expected health endpoint to bypass API middleware")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/public-bouquets", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)
	if !sawAPI {
		t.Fatalf("expected API middleware to run for API routes")
	}
}

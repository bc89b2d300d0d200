package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	domain "github.com/sakisou/api/internal/domain"
	"github.com/sakisou/api/internal/services"
)

func TestListUserEmotionsEndpoint(t *testing.T) {
	svc := &stubEmotionService{listFn: func(_ context.Context, ownerRef string, pager services.Pagination) (domain.CursorPage[services.EmotionAnalysis], error) {
		if ownerRef != "user-1" {
			t.Fatalf("unexpected owner ref %q", ownerRef)
		}
		if pager.PageSize != 5 {
			t.Fatalf("unexpected page size %d", pager.PageSize)
		}
		return domain.CursorPage[services.EmotionAnalysis]{
			Items:         []services.EmotionAnalysis{sampleAnalysis()},
			NextPageToken: "next-token",
		}, nil
	}}

	router := NewRouter(WithUserRoutes(NewUserHandlers(svc, nil).Routes))

	req := httptest.NewRequest(http.MethodGet, "/api/users/user-1/emotions?limit=5", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var payload struct {
		Emotions []struct {
			EmotionID string `json:"emotionId"`
			UserID    string `json:"userId"`
		} `json:"emotions"`
		NextPageToken string `json:"nextPageToken"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Emotions) != 1 || payload.Emotions[0].EmotionID != "em-1" {
		t.Fatalf("unexpected emotions payload %+v", payload.Emotions)
	}
	if payload.NextPageToken != "next-token" {
		t.Fatalf("unexpected next page token %q", payload.NextPageToken)
	}
}

func TestListUserBouquetsEndpoint(t *testing.T) {
	svc := &stubBouquetService{listFn: func(_ context.Context, cmd services.ListOwnerBouquetsCommand) (domain.CursorPage[services.Bouquet], error) {
		if cmd.OwnerRef != "user-1" {
			t.Fatalf("unexpected owner ref %q", cmd.OwnerRef)
		}
		if !cmd.PublicOnly {
			t.Fatalf("expected publicOnly filter")
		}
		return domain.CursorPage[services.Bouquet]{
			Items: []services.Bouquet{{ID: "bq-1", OwnerRef: "user-1", IsPublic: true, Likes: 3}},
		}, nil
	}}

	router := NewRouter(WithUserRoutes(NewUserHandlers(nil, svc).Routes))

	req := httptest.NewRequest(http.MethodGet, "/api/users/user-1/bouquets?publicOnly=true", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var payload struct {
		Bouquets []struct {
			BouquetID string `json:"bouquetId"`
			UserID    string `json:"userId"`
			Likes     int64  `json:"likes"`
		} `json:"bouquets"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Bouquets) != 1 || payload.Bouquets[0].BouquetID != "bq-1" {
		t.Fatalf("unexpected bouquets payload %+v", payload.Bouquets)
	}
}

func TestListUserBouquetsRejectsBadPublicOnly(t *testing.T) {
	router := NewRouter(WithUserRoutes(NewUserHandlers(nil, &stubBouquetService{}).Routes))

	req := httptest.NewRequest(http.MethodGet, "/api/users/user-1/bouquets?publicOnly=maybe", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Error != "invalid_request" {
		t.Fatalf("unexpected error code %q", body.Error)
	}
}

func TestListUserEmotionsRejectsAnonymousOwner(t *testing.T) {
	svc := &stubEmotionService{listFn: func(context.Context, string, services.Pagination) (domain.CursorPage[services.EmotionAnalysis], error) {
		return domain.CursorPage[services.EmotionAnalysis]{}, services.ErrEmotionInvalidInput
	}}
	router := NewRouter(WithUserRoutes(NewUserHandlers(svc, nil).Routes))

	req := httptest.NewRequest(http.MethodGet, "/api/users/anonymous/emotions", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

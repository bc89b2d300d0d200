package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sakisou/api/internal/platform/httpx"
	"github.com/sakisou/api/internal/services"
)

// UserHandlers exposes owner-scoped history listings.
type UserHandlers struct {
	emotions services.EmotionService
	bouquets services.BouquetService
}

// NewUserHandlers constructs handlers for user history endpoints.
func NewUserHandlers(emotions services.EmotionService, bouquets services.BouquetService) *UserHandlers {
	return &UserHandlers{emotions: emotions, bouquets: bouquets}
}

// Routes registers user history endpoints against the provided router.
func (h *UserHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/users/{userID}/emotions", h.listEmotions)
	r.Get("/users/{userID}/bouquets", h.listBouquets)
}

type emotionListResponse struct {
	Emotions      []emotionAnalysisPayload `json:"emotions"`
	NextPageToken string                   `json:"nextPageToken,omitempty"`
}

func (h *UserHandlers) listEmotions(w http.ResponseWriter, r *http.Request) {
	if h.emotions == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("service_unavailable", "emotion service unavailable", http.StatusServiceUnavailable))
		return
	}

	userID := strings.TrimSpace(chi.URLParam(r, "userID"))
	pager, err := parsePagination(r)
	if err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	page, err := h.emotions.ListByOwner(r.Context(), userID, pager)
	if err != nil {
		writeEmotionError(w, r, err)
		return
	}

	items := make([]emotionAnalysisPayload, 0, len(page.Items))
	for _, analysis := range page.Items {
		items = append(items, emotionAnalysisToPayload(analysis))
	}
	httpx.WriteJSON(w, http.StatusOK, emotionListResponse{
		Emotions:      items,
		NextPageToken: page.NextPageToken,
	})
}

type bouquetListResponse struct {
	Bouquets      []bouquetPayload `json:"bouquets"`
	NextPageToken string           `json:"nextPageToken,omitempty"`
}

func (h *UserHandlers) listBouquets(w http.ResponseWriter, r *http.Request) {
	if h.bouquets == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("service_unavailable", "bouquet service unavailable", http.StatusServiceUnavailable))
		return
	}

	userID := strings.TrimSpace(chi.URLParam(r, "userID"))
	pager, err := parsePagination(r)
	if err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	publicOnly := false
	if raw := strings.TrimSpace(r.URL.Query().Get("publicOnly")); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", "publicOnly must be a boolean", http.StatusBadRequest))
			return
		}
		publicOnly = value
	}

	page, err := h.bouquets.ListByOwner(r.Context(), services.ListOwnerBouquetsCommand{
		OwnerRef:   userID,
		PublicOnly: publicOnly,
		Pagination: pager,
	})
	if err != nil {
		writeBouquetError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, bouquetListResponse{
		Bouquets:      bouquetsToPayloads(page.Items),
		NextPageToken: page.NextPageToken,
	})
}

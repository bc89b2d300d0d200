package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sakisou/api/internal/platform/httpx"
	"github.com/sakisou/api/internal/services"
)

// GalleryHandlers exposes the public bouquet gallery endpoints.
type GalleryHandlers struct {
	gallery services.GalleryService
}

// NewGalleryHandlers constructs handlers for the public gallery.
func NewGalleryHandlers(gallery services.GalleryService) *GalleryHandlers {
	return &GalleryHandlers{gallery: gallery}
}

// Routes registers gallery endpoints against the provided router.
func (h *GalleryHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/public-bouquets", h.listPublic)
	r.Get("/public-bouquets/search", h.search)
	r.Get("/public-bouquets/trending", h.trending)
	r.Get("/public-bouquets/stats", h.stats)
}

type galleryListResponse struct {
	Bouquets      []bouquetPayload `json:"bouquets"`
	HasMore       bool             `json:"hasMore"`
	NextPageToken string           `json:"nextPageToken,omitempty"`
}

func (h *GalleryHandlers) listPublic(w http.ResponseWriter, r *http.Request) {
	if h.gallery == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("service_unavailable", "gallery service unavailable", http.StatusServiceUnavailable))
		return
	}

	pager, err := parsePagination(r)
	if err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	page, err := h.gallery.ListPublic(r.Context(), services.PublicGalleryQuery{
		Style:      r.URL.Query().Get("style"),
		OrderBy:    r.URL.Query().Get("orderBy"),
		Pagination: pager,
	})
	if err != nil {
		writeGalleryError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, galleryListResponse{
		Bouquets:      bouquetsToPayloads(page.Items),
		HasMore:       page.NextPageToken != "",
		NextPageToken: page.NextPageToken,
	})
}

func (h *GalleryHandlers) search(w http.ResponseWriter, r *http.Request) {
	if h.gallery == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("service_unavailable", "gallery service unavailable", http.StatusServiceUnavailable))
		return
	}

	pager, err := parsePagination(r)
	if err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	page, err := h.gallery.Search(r.Context(), services.GallerySearchQuery{
		FlowerName: r.URL.Query().Get("flower"),
		Style:      r.URL.Query().Get("style"),
		Pagination: pager,
	})
	if err != nil {
		writeGalleryError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, galleryListResponse{
		Bouquets:      bouquetsToPayloads(page.Items),
		HasMore:       page.NextPageToken != "",
		NextPageToken: page.NextPageToken,
	})
}

type trendingResponse struct {
	Bouquets []bouquetPayload `json:"bouquets"`
}

func (h *GalleryHandlers) trending(w http.ResponseWriter, r *http.Request) {
	if h.gallery == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("service_unavailable", "gallery service unavailable", http.StatusServiceUnavailable))
		return
	}

	query := services.TrendingQuery{}
	if raw := strings.TrimSpace(r.URL.Query().Get("days")); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days <= 0 {
			httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", "days must be a positive integer", http.StatusBadRequest))
			return
		}
		query.WindowDays = days
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", "limit must be a positive integer", http.StatusBadRequest))
			return
		}
		query.Limit = limit
	}

	bouquets, err := h.gallery.Trending(r.Context(), query)
	if err != nil {
		writeGalleryError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, trendingResponse{Bouquets: bouquetsToPayloads(bouquets)})
}

type styleCountPayload struct {
	Style string `json:"style"`
	Count int64  `json:"count"`
}

type statsResponse struct {
	TotalBouquets  int64               `json:"totalBouquets"`
	PublicBouquets int64               `json:"publicBouquets"`
	RecentBouquets int64               `json:"recentBouquets"`
	PopularStyles  []styleCountPayload `json:"popularStyles"`
	Timestamp      string              `json:"timestamp"`
}

func (h *GalleryHandlers) stats(w http.ResponseWriter, r *http.Request) {
	if h.gallery == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("service_unavailable", "gallery service unavailable", http.StatusServiceUnavailable))
		return
	}

	stats, err := h.gallery.Stats(r.Context())
	if err != nil {
		writeGalleryError(w, r, err)
		return
	}

	styles := make([]styleCountPayload, 0, len(stats.PopularStyles))
	for _, entry := range stats.PopularStyles {
		styles = append(styles, styleCountPayload{Style: string(entry.Style), Count: entry.Count})
	}
	httpx.WriteJSON(w, http.StatusOK, statsResponse{
		TotalBouquets:  stats.TotalBouquets,
		PublicBouquets: stats.PublicBouquets,
		RecentBouquets: stats.RecentBouquets,
		PopularStyles:  styles,
		Timestamp:      formatTimestamp(stats.GeneratedAt),
	})
}

func writeGalleryError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, services.ErrGalleryInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrGalleryUnavailable):
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "gallery storage unavailable", http.StatusServiceUnavailable))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "unexpected failure", http.StatusInternalServerError))
	}
}

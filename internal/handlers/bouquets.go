package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sakisou/api/internal/platform/httpx"
	"github.com/sakisou/api/internal/services"
)

// BouquetHandlers exposes bouquet generation and reaction endpoints.
type BouquetHandlers struct {
	bouquets services.BouquetService
}

// NewBouquetHandlers constructs handlers for bouquet endpoints.
func NewBouquetHandlers(bouquets services.BouquetService) *BouquetHandlers {
	return &BouquetHandlers{bouquets: bouquets}
}

// Routes registers bouquet endpoints against the provided router.
func (h *BouquetHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/generate-bouquet", h.generateBouquet)
	r.Get("/bouquets/{bouquetID}", h.getBouquet)
	r.Post("/bouquets/{bouquetID}/reactions", h.react)
}

type generateBouquetRequest struct {
	EmotionID string                 `json:"emotionId"`
	Flowers   []bouquetFlowerRequest `json:"flowers"`
	Style     string                 `json:"style"`
	IsPublic  *bool                  `json:"isPublic"`
	UserID    string                 `json:"userId"`
}

type bouquetFlowerRequest struct {
	Name    string `json:"name"`
	NameEn  string `json:"nameEn"`
	Meaning string `json:"meaning"`
	Reason  string `json:"reason"`
}

// UnmarshalJSON accepts either a full flower object or a bare name string.
func (f *bouquetFlowerRequest) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*f = bouquetFlowerRequest{Name: name}
		return nil
	}
	type plain bouquetFlowerRequest
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*f = bouquetFlowerRequest(decoded)
	return nil
}

func flowerInputs(flowers []bouquetFlowerRequest) []services.BouquetFlowerInput {
	inputs := make([]services.BouquetFlowerInput, 0, len(flowers))
	for _, flower := range flowers {
		inputs = append(inputs, services.BouquetFlowerInput{
			Name:    flower.Name,
			NameEn:  flower.NameEn,
			Meaning: flower.Meaning,
			Reason:  flower.Reason,
		})
	}
	return inputs
}

func (h *BouquetHandlers) generateBouquet(w http.ResponseWriter, r *http.Request) {
	if h.bouquets == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("service_unavailable", "bouquet service unavailable", http.StatusServiceUnavailable))
		return
	}

	var req generateBouquetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	bouquet, err := h.bouquets.GenerateBouquet(r.Context(), services.GenerateBouquetCommand{
		EmotionRef: req.EmotionID,
		Flowers:    flowerInputs(req.Flowers),
		Style:      req.Style,
		IsPublic:   req.IsPublic,
		OwnerRef:   req.UserID,
	})
	if err != nil {
		writeBouquetError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, bouquetToPayload(bouquet))
}

func (h *BouquetHandlers) getBouquet(w http.ResponseWriter, r *http.Request) {
	if h.bouquets == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("service_unavailable", "bouquet service unavailable", http.StatusServiceUnavailable))
		return
	}

	bouquetID := strings.TrimSpace(chi.URLParam(r, "bouquetID"))
	if bouquetID == "" {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", "bouquet id is required", http.StatusBadRequest))
		return
	}

	bouquet, err := h.bouquets.GetBouquet(r.Context(), bouquetID)
	if err != nil {
		writeBouquetError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, bouquetToPayload(bouquet))
}

type reactionRequest struct {
	Action string `json:"action"`
}

type reactionResponse struct {
	BouquetID string `json:"bouquetId"`
	Likes     int64  `json:"likes"`
	Shares    int64  `json:"shares"`
}

func (h *BouquetHandlers) react(w http.ResponseWriter, r *http.Request) {
	if h.bouquets == nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("service_unavailable", "bouquet service unavailable", http.StatusServiceUnavailable))
		return
	}

	var req reactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	bouquet, err := h.bouquets.React(r.Context(), services.ReactionCommand{
		BouquetID: chi.URLParam(r, "bouquetID"),
		Action:    req.Action,
	})
	if err != nil {
		writeBouquetError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, reactionResponse{
		BouquetID: bouquet.ID,
		Likes:     bouquet.Likes,
		Shares:    bouquet.Shares,
	})
}

func writeBouquetError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, services.ErrBouquetInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrBouquetEmotionNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("emotion_not_found", "emotion analysis not found", http.StatusNotFound))
	case errors.Is(err, services.ErrBouquetNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("bouquet_not_found", "bouquet not found", http.StatusNotFound))
	case errors.Is(err, services.ErrBouquetConflict):
		httpx.WriteError(ctx, w, httpx.NewError("reaction_conflict", "reaction cannot be applied", http.StatusConflict))
	case errors.Is(err, services.ErrBouquetUnavailable):
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "bouquet storage unavailable", http.StatusServiceUnavailable))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "unexpected failure", http.StatusInternalServerError))
	}
}

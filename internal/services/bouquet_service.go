package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/sakisou/api/internal/ai"
	domain "github.com/sakisou/api/internal/domain"
	"github.com/sakisou/api/internal/platform/storage"
	"github.com/sakisou/api/internal/repositories"
)

var (
	// ErrBouquetInvalidInput indicates the caller supplied invalid generation parameters.
	ErrBouquetInvalidInput = errors.New("bouquet service: invalid input")
	// ErrBouquetNotFound indicates the requested bouquet does not exist.
	ErrBouquetNotFound = errors.New("bouquet service: not found")
	// ErrBouquetEmotionNotFound indicates the referenced emotion analysis does not exist.
	ErrBouquetEmotionNotFound = errors.New("bouquet service: emotion analysis not found")
	// ErrBouquetConflict indicates the reaction cannot be applied to the current counters.
	ErrBouquetConflict = errors.New("bouquet service: conflicting update")
	// ErrBouquetUnavailable indicates the persistence layer rejected the operation.
	ErrBouquetUnavailable = errors.New("bouquet service: unavailable")
)

var styleClauses = map[BouquetStyle]string{
	domain.StyleRealistic:  "photorealistic, detailed, natural lighting, professional photography",
	domain.StyleArtistic:   "artistic, painterly, impressionistic, soft brushstrokes",
	domain.StyleMinimalist: "clean, simple, minimal background, elegant composition",
	domain.StyleRomantic:   "soft, dreamy, pastel colors, romantic atmosphere",
	domain.StyleModern:     "contemporary, bold colors, geometric arrangement",
	domain.StyleClassical:  "traditional, formal arrangement, vintage style",
}

// ImageStore persists generated image bytes and reports the public URL.
// *storage.Uploader satisfies it.
type ImageStore interface {
	UploadObject(ctx context.Context, objectPath string, data []byte, contentType string, metadata map[string]string) (string, error)
	Bucket() string
}

// BouquetServiceDeps bundles constructor inputs for the bouquet service.
// Images and Store may both be nil, in which case every bouquet carries
// the placeholder image reference.
type BouquetServiceDeps struct {
	Bouquets  repositories.BouquetRepository
	Emotions  repositories.EmotionRepository
	Users     repositories.UserStatsRepository
	Catalog   CatalogService
	Images    ai.ImageGenerator
	Store     ImageStore
	Clock     func() time.Time
	IDFactory func() string
	Logger    func(context.Context, string, map[string]any)
}

type bouquetService struct {
	repo     repositories.BouquetRepository
	emotions repositories.EmotionRepository
	users    repositories.UserStatsRepository
	catalog  CatalogService
	images   ai.ImageGenerator
	store    ImageStore
	clock    func() time.Time
	newID    func() string
	logger   func(context.Context, string, map[string]any)
}

// NewBouquetService constructs the bouquet service with the supplied dependencies.
func NewBouquetService(deps BouquetServiceDeps) (BouquetService, error) {
	if deps.Bouquets == nil {
		return nil, fmt.Errorf("bouquet service: bouquet repository is required")
	}
	if deps.Catalog == nil {
		return nil, fmt.Errorf("bouquet service: catalog service is required")
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	newID := deps.IDFactory
	if newID == nil {
		newID = func() string { return ulid.Make().String() }
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &bouquetService{
		repo:     deps.Bouquets,
		emotions: deps.Emotions,
		users:    deps.Users,
		catalog:  deps.Catalog,
		images:   deps.Images,
		store:    deps.Store,
		clock:    func() time.Time { return clock().UTC() },
		newID:    newID,
		logger:   logger,
	}, nil
}

func (s *bouquetService) GenerateBouquet(ctx context.Context, cmd GenerateBouquetCommand) (Bouquet, error) {
	emotionRef := strings.TrimSpace(cmd.EmotionRef)
	if emotionRef == "" {
		return Bouquet{}, fmt.Errorf("%w: emotion reference is required", ErrBouquetInvalidInput)
	}
	if len(cmd.Flowers) == 0 {
		return Bouquet{}, fmt.Errorf("%w: at least one flower is required", ErrBouquetInvalidInput)
	}
	if len(cmd.Flowers) > domain.MaxBouquetFlowers {
		return Bouquet{}, fmt.Errorf("%w: at most %d flowers are allowed", ErrBouquetInvalidInput, domain.MaxBouquetFlowers)
	}
	style, _ := domain.ParseBouquetStyle(cmd.Style)
	owner := strings.TrimSpace(cmd.OwnerRef)
	if owner == "" {
		owner = domain.AnonymousOwner
	}
	isPublic := false
	if cmd.IsPublic != nil {
		isPublic = *cmd.IsPublic
	}

	// Anonymous analyses are never persisted, so the sentinel reference
	// skips the existence check.
	if emotionRef != domain.AnonymousOwner && s.emotions != nil {
		if _, err := s.emotions.FindByID(ctx, emotionRef); err != nil {
			if isRepositoryNotFound(err) {
				return Bouquet{}, fmt.Errorf("%w: %s", ErrBouquetEmotionNotFound, emotionRef)
			}
			return Bouquet{}, fmt.Errorf("%w: verify emotion reference: %v", ErrBouquetUnavailable, err)
		}
	}

	flowers := s.resolveInputs(ctx, cmd.Flowers)
	if len(flowers) == 0 {
		return Bouquet{}, fmt.Errorf("%w: no usable flowers", ErrBouquetInvalidInput)
	}

	bouquetID := s.newID()
	prompt := BuildBouquetPrompt(flowers, style)
	now := s.clock()

	bouquet := domain.Bouquet{
		ID:         bouquetID,
		EmotionRef: emotionRef,
		OwnerRef:   owner,
		Flowers:    flowers,
		ImageRef:   s.generateImage(ctx, bouquetID, prompt, style),
		Prompt:     prompt,
		Style:      style,
		IsPublic:   isPublic,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if owner != domain.AnonymousOwner {
		if err := s.repo.Insert(ctx, bouquet); err != nil {
			return Bouquet{}, fmt.Errorf("%w: store bouquet: %v", ErrBouquetUnavailable, err)
		}
		s.countUserBouquet(ctx, owner)
	}
	return bouquet, nil
}

// countUserBouquet bumps the owner's bouquet counter. Counter failures
// are logged and swallowed; the bouquet itself already persisted.
func (s *bouquetService) countUserBouquet(ctx context.Context, owner string) {
	if s.users == nil {
		return
	}
	if err := s.users.IncrementBouquets(ctx, owner); err != nil {
		s.logger(ctx, "bouquet.user_counter_failed", map[string]any{
			"owner": owner,
			"error": err.Error(),
		})
	}
}

// resolveInputs maps requested flowers onto catalog entries, keeping
// caller-supplied meanings only for flowers the catalog does not know.
func (s *bouquetService) resolveInputs(ctx context.Context, inputs []BouquetFlowerInput) []ResolvedFlower {
	resolved := make([]ResolvedFlower, 0, len(inputs))
	seen := make(map[string]struct{})
	for _, input := range inputs {
		name := strings.TrimSpace(input.Name)
		nameEn := strings.TrimSpace(input.NameEn)
		if name == "" && nameEn == "" {
			continue
		}
		flower, ok := s.catalog.FindByName(ctx, name)
		if !ok {
			flower, ok = s.catalog.FindByName(ctx, nameEn)
		}
		if !ok {
			flower = synthesizeFlower(ai.FlowerSuggestion{Name: name, NameEn: nameEn, Meaning: input.Meaning})
		}
		if _, dup := seen[flower.Key()]; dup {
			continue
		}
		seen[flower.Key()] = struct{}{}
		reason := strings.TrimSpace(input.Reason)
		if reason == "" {
			reason = flower.Meaning
		}
		resolved = append(resolved, ResolvedFlower{Flower: flower, Reason: reason})
	}
	return resolved
}

// generateImage renders and uploads the bouquet image, degrading to the
// placeholder reference on any failure. Generation problems never fail
// the request.
func (s *bouquetService) generateImage(ctx context.Context, bouquetID, prompt string, style BouquetStyle) string {
	if s.images == nil || s.store == nil {
		return s.placeholderURL(bouquetID)
	}
	image, err := s.images.GenerateImage(ctx, prompt)
	if err != nil {
		s.logger(ctx, "bouquet.image_fallback", map[string]any{
			"bouquet_id": bouquetID,
			"error":      err.Error(),
		})
		return s.placeholderURL(bouquetID)
	}
	objectPath, err := storage.BuildImagePath(storage.PurposeBouquet, bouquetID, "bouquet.png")
	if err != nil {
		return s.placeholderURL(bouquetID)
	}
	url, err := s.store.UploadObject(ctx, objectPath, image.Data, image.MIMEType, map[string]string{
		"style": string(style),
	})
	if err != nil {
		s.logger(ctx, "bouquet.image_upload_failed", map[string]any{
			"bouquet_id": bouquetID,
			"error":      err.Error(),
		})
		return s.placeholderURL(bouquetID)
	}
	return url
}

func (s *bouquetService) placeholderURL(bouquetID string) string {
	if s.store == nil {
		return ""
	}
	objectPath, err := storage.BuildImagePath(storage.PurposePlaceholder, bouquetID, "bouquet.png")
	if err != nil {
		return ""
	}
	return storage.PublicURL(s.store.Bucket(), objectPath)
}

// BuildBouquetPrompt renders the image generation prompt from the
// resolved flower set and style clause.
func BuildBouquetPrompt(flowers []ResolvedFlower, style BouquetStyle) string {
	descriptions := make([]string, 0, len(flowers))
	for _, flower := range flowers {
		descriptions = append(descriptions, fmt.Sprintf("%s (%s)", flower.NameEn, strings.Join(flower.Colors, ", ")))
	}
	clause, ok := styleClauses[style]
	if !ok {
		clause = styleClauses[domain.StyleRealistic]
	}
	return fmt.Sprintf(`A beautiful bouquet containing %s.
Style: %s.
High quality, professional composition, beautiful lighting,
elegant arrangement, fresh flowers, detailed petals and leaves,
appropriate for expressing deep emotions and feelings.
The bouquet should evoke the traditional Japanese concept of
hanakotoba (flower language) and convey heartfelt emotions.`, strings.Join(descriptions, ", "), clause)
}

func (s *bouquetService) GetBouquet(ctx context.Context, bouquetID string) (Bouquet, error) {
	bouquetID = strings.TrimSpace(bouquetID)
	if bouquetID == "" {
		return Bouquet{}, fmt.Errorf("%w: bouquet id is required", ErrBouquetInvalidInput)
	}
	bouquet, err := s.repo.FindByID(ctx, bouquetID)
	if err != nil {
		if isRepositoryNotFound(err) {
			return Bouquet{}, fmt.Errorf("%w: %s", ErrBouquetNotFound, bouquetID)
		}
		return Bouquet{}, fmt.Errorf("%w: load bouquet: %v", ErrBouquetUnavailable, err)
	}
	return bouquet, nil
}

func (s *bouquetService) ListByOwner(ctx context.Context, cmd ListOwnerBouquetsCommand) (domain.CursorPage[Bouquet], error) {
	owner := strings.TrimSpace(cmd.OwnerRef)
	if owner == "" || owner == domain.AnonymousOwner {
		return domain.CursorPage[Bouquet]{}, fmt.Errorf("%w: owner reference is required", ErrBouquetInvalidInput)
	}
	page, err := s.repo.ListByOwner(ctx, owner, repositories.BouquetListFilter{
		Pagination: cmd.Pagination,
		PublicOnly: cmd.PublicOnly,
	})
	if err != nil {
		return domain.CursorPage[Bouquet]{}, fmt.Errorf("%w: list bouquets: %v", ErrBouquetUnavailable, err)
	}
	return page, nil
}

func (s *bouquetService) React(ctx context.Context, cmd ReactionCommand) (Bouquet, error) {
	bouquetID := strings.TrimSpace(cmd.BouquetID)
	if bouquetID == "" {
		return Bouquet{}, fmt.Errorf("%w: bouquet id is required", ErrBouquetInvalidInput)
	}
	action, ok := domain.ParseReactionAction(cmd.Action)
	if !ok {
		return Bouquet{}, fmt.Errorf("%w: unsupported reaction %q", ErrBouquetInvalidInput, cmd.Action)
	}
	bouquet, err := s.repo.ApplyReaction(ctx, bouquetID, action)
	if err != nil {
		if isRepositoryNotFound(err) {
			return Bouquet{}, fmt.Errorf("%w: %s", ErrBouquetNotFound, bouquetID)
		}
		if isRepositoryConflict(err) {
			return Bouquet{}, fmt.Errorf("%w: %s cannot be unliked", ErrBouquetConflict, bouquetID)
		}
		return Bouquet{}, fmt.Errorf("%w: apply reaction: %v", ErrBouquetUnavailable, err)
	}
	return bouquet, nil
}

func isRepositoryConflict(err error) bool {
	if err == nil {
		return false
	}
	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		return repoErr.IsConflict()
	}
	return false
}

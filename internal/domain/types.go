package domain

import (
	"strings"
	"time"
)

// Pagination defines standard cursor-based paging inputs for list operations.
type Pagination struct {
	PageSize  int
	PageToken string
}

// CursorPage wraps a page of results together with the token for the next page.
type CursorPage[T any] struct {
	Items         []T
	NextPageToken string
}

// Season tags the period a flower is commonly available in.
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
	// SeasonAll marks flowers available year round.
	SeasonAll Season = "all"
)

// ParseSeason normalises a raw season value, reporting whether it is valid.
func ParseSeason(raw string) (Season, bool) {
	switch Season(strings.ToLower(strings.TrimSpace(raw))) {
	case SeasonSpring:
		return SeasonSpring, true
	case SeasonSummer:
		return SeasonSummer, true
	case SeasonAutumn:
		return SeasonAutumn, true
	case SeasonWinter:
		return SeasonWinter, true
	case SeasonAll:
		return SeasonAll, true
	default:
		return "", false
	}
}

// Rarity classifies how uncommon a flower is in the catalog.
type Rarity string

const (
	RarityCommon Rarity = "common"
	RarityRare   Rarity = "rare"
	RarityExotic Rarity = "exotic"
)

// Flower is an immutable catalog entry carrying hanakotoba meanings in
// both Japanese and English. Name and NameEn are unique as a pair and
// either may be used as a lookup key.
type Flower struct {
	Name      string   `firestore:"name" json:"name"`
	NameEn    string   `firestore:"nameEn" json:"nameEn"`
	Meaning   string   `firestore:"meaning" json:"meaning"`
	MeaningEn string   `firestore:"meaningEn" json:"meaningEn"`
	Colors    []string `firestore:"colors" json:"colors"`
	Season    Season   `firestore:"season" json:"season"`
	Rarity    Rarity   `firestore:"rarity" json:"rarity"`
}

// Key returns the identity used for de-duplication across resolved sets.
func (f Flower) Key() string {
	return f.Name + "\x00" + f.NameEn
}

// ResolvedFlower is a catalog (or synthesized) flower annotated with a
// request-specific reason string. The reason is ephemeral and never
// written back to the catalog.
type ResolvedFlower struct {
	Flower
	Reason string `firestore:"reason" json:"reason"`
}

// Language selects the locale used for classification prompts and catalog labels.
type Language string

const (
	LanguageJapanese Language = "ja"
	LanguageEnglish  Language = "en"
)

// ParseLanguage normalises a raw language value. Empty input defaults to Japanese.
func ParseLanguage(raw string) (Language, bool) {
	switch Language(strings.ToLower(strings.TrimSpace(raw))) {
	case LanguageJapanese, "":
		return LanguageJapanese, true
	case LanguageEnglish:
		return LanguageEnglish, true
	default:
		return "", false
	}
}

// BouquetStyle selects the descriptive clause used when composing image prompts.
type BouquetStyle string

const (
	StyleRealistic  BouquetStyle = "realistic"
	StyleArtistic   BouquetStyle = "artistic"
	StyleMinimalist BouquetStyle = "minimalist"
	StyleRomantic   BouquetStyle = "romantic"
	StyleModern     BouquetStyle = "modern"
	StyleClassical  BouquetStyle = "classical"
)

// BouquetStyles enumerates every accepted style tag.
var BouquetStyles = []BouquetStyle{
	StyleRealistic, StyleArtistic, StyleMinimalist,
	StyleRomantic, StyleModern, StyleClassical,
}

// ParseBouquetStyle normalises a raw style, reporting whether it was
// recognised. Empty or unknown input yields the realistic default.
func ParseBouquetStyle(raw string) (BouquetStyle, bool) {
	candidate := BouquetStyle(strings.ToLower(strings.TrimSpace(raw)))
	if candidate == "" {
		return StyleRealistic, true
	}
	for _, style := range BouquetStyles {
		if candidate == style {
			return style, true
		}
	}
	return StyleRealistic, false
}

// AnonymousOwner is the sentinel owner reference for unauthenticated requests.
const AnonymousOwner = "anonymous"

// MaxInputTextLength bounds the free-text message accepted for analysis.
const MaxInputTextLength = 1000

// MaxBouquetFlowers caps the number of flowers a single bouquet may carry.
const MaxBouquetFlowers = 10

// TargetRecommendedFlowers is the count the resolution pipeline pads
// towards when the classifier returns fewer.
const TargetRecommendedFlowers = 3

// EmotionAnalysis records a single classification request and the
// flowers resolved for it. Created once, never mutated.
type EmotionAnalysis struct {
	ID                 string           `firestore:"id"`
	OwnerRef           string           `firestore:"ownerRef"`
	InputText          string           `firestore:"inputText"`
	DetectedEmotions   []string         `firestore:"detectedEmotions"`
	Confidence         float64          `firestore:"confidence"`
	RecommendedFlowers []ResolvedFlower `firestore:"recommendedFlowers"`
	Explanation        string           `firestore:"explanation"`
	Language           Language         `firestore:"language"`
	CreatedAt          time.Time        `firestore:"createdAt"`
}

// Bouquet pairs a resolved flower set with the generated image reference
// and the prompt that produced it. Likes and shares are mutated only
// through atomic increments.
type Bouquet struct {
	ID         string           `firestore:"id"`
	EmotionRef string           `firestore:"emotionRef"`
	OwnerRef   string           `firestore:"ownerRef"`
	Flowers    []ResolvedFlower `firestore:"flowers"`
	ImageRef   string           `firestore:"imageUrl"`
	Prompt     string           `firestore:"prompt"`
	Style      BouquetStyle     `firestore:"style"`
	IsPublic   bool             `firestore:"isPublic"`
	Likes      int64            `firestore:"likes"`
	Shares     int64            `firestore:"shares"`
	CreatedAt  time.Time        `firestore:"createdAt"`
	UpdatedAt  time.Time        `firestore:"updatedAt"`
}

// EngagementScore ranks bouquets for the trending gallery.
func (b Bouquet) EngagementScore() int64 {
	return b.Likes + b.Shares
}

// StyleCount pairs a bouquet style with its number of public bouquets.
type StyleCount struct {
	Style BouquetStyle `firestore:"style"`
	Count int64        `firestore:"count"`
}

// GalleryStats summarises bouquet activity across the whole gallery.
type GalleryStats struct {
	TotalBouquets  int64
	PublicBouquets int64
	RecentBouquets int64
	PopularStyles  []StyleCount
	GeneratedAt    time.Time
}

// EmotionStats summarises recent analysis activity: how often each
// emotion was detected, which languages were analysed, and the mean
// classifier confidence over the window.
type EmotionStats struct {
	TotalAnalyses        int64
	AverageConfidence    float64
	EmotionDistribution  map[string]int64
	LanguageDistribution map[Language]int64
	GeneratedAt          time.Time
}

// ReactionAction names a counter mutation applied to a public bouquet.
type ReactionAction string

const (
	ReactionLike   ReactionAction = "like"
	ReactionUnlike ReactionAction = "unlike"
	ReactionShare  ReactionAction = "share"
)

// ParseReactionAction validates a raw reaction value.
func ParseReactionAction(raw string) (ReactionAction, bool) {
	switch ReactionAction(strings.ToLower(strings.TrimSpace(raw))) {
	case ReactionLike:
		return ReactionLike, true
	case ReactionUnlike:
		return ReactionUnlike, true
	case ReactionShare:
		return ReactionShare, true
	default:
		return "", false
	}
}

// BouquetSort indicates the field used to order gallery listings.
type BouquetSort string

const (
	BouquetSortCreatedAt BouquetSort = "createdAt"
	BouquetSortLikes     BouquetSort = "likes"
	BouquetSortShares    BouquetSort = "shares"
)

// ParseBouquetSort validates a gallery orderBy value. Empty input
// defaults to createdAt.
func ParseBouquetSort(raw string) (BouquetSort, bool) {
	switch BouquetSort(strings.TrimSpace(raw)) {
	case "", BouquetSortCreatedAt:
		return BouquetSortCreatedAt, true
	case BouquetSortLikes:
		return BouquetSortLikes, true
	case BouquetSortShares:
		return BouquetSortShares, true
	default:
		return "", false
	}
}

// HealthStatus summarises the outcome of a dependency probe.
type HealthStatus string

const (
	HealthStatusOK       HealthStatus = "ok"
	HealthStatusDegraded HealthStatus = "degraded"
	HealthStatusError    HealthStatus = "error"
)

// SystemHealthCheck captures a single dependency probe result.
type SystemHealthCheck struct {
	Status    HealthStatus
	Detail    string
	Error     string
	Latency   time.Duration
	CheckedAt time.Time
}

// SystemHealthReport aggregates dependency probe results for readiness responses.
type SystemHealthReport struct {
	Status      HealthStatus
	Checks      map[string]SystemHealthCheck
	Version     string
	CommitSHA   string
	Environment string
	Uptime      time.Duration
	GeneratedAt time.Time
}

// EmotionCategories lists the closed emotion vocabulary the classifier
// is steered towards. Free-form tags outside this list are tolerated.
var EmotionCategories = []string{
	"joy", "sadness", "anger", "fear", "surprise", "disgust",
	"love", "gratitude", "hope", "nostalgia", "peace", "excitement",
	"comfort", "longing", "appreciation", "sympathy", "celebration",
}

package firestore

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domain "github.com/sakisou/api/internal/domain"
	pfirestore "github.com/sakisou/api/internal/platform/firestore"
	"github.com/sakisou/api/internal/repositories"
)

const bouquetsCollection = "bouquets"

// BouquetRepository persists bouquet records and engagement counters in Firestore.
type BouquetRepository struct {
	provider *pfirestore.Provider
	base     *pfirestore.Collection[domain.Bouquet]
	now      func() time.Time
}

// NewBouquetRepository constructs a Firestore-backed bouquet repository.
func NewBouquetRepository(provider *pfirestore.Provider) (*BouquetRepository, error) {
	if provider == nil {
		return nil, errors.New("bouquet repository requires firestore provider")
	}
	base := pfirestore.NewCollection[domain.Bouquet](provider, bouquetsCollection)
	return &BouquetRepository{
		provider: provider,
		base:     base,
		now:      time.Now,
	}, nil
}

// Insert writes a new bouquet record. Records are never overwritten.
func (r *BouquetRepository) Insert(ctx context.Context, bouquet domain.Bouquet) error {
	if r == nil || r.provider == nil {
		return errors.New("bouquet repository not initialised")
	}
	if strings.TrimSpace(bouquet.ID) == "" {
		return errors.New("bouquet repository: bouquet id is required")
	}

	ref, err := r.base.Doc(ctx, bouquet.ID)
	if err != nil {
		return err
	}
	if _, err := ref.Create(ctx, bouquet); err != nil {
		return pfirestore.WrapError("bouquets.insert", err)
	}
	return nil
}

// FindByID retrieves a single bouquet record.
func (r *BouquetRepository) FindByID(ctx context.Context, bouquetID string) (domain.Bouquet, error) {
	if r == nil || r.provider == nil {
		return domain.Bouquet{}, errors.New("bouquet repository not initialised")
	}
	doc, err := r.base.Get(ctx, strings.TrimSpace(bouquetID))
	if err != nil {
		return domain.Bouquet{}, err
	}
	bouquet := doc.Data
	if bouquet.ID == "" {
		bouquet.ID = doc.ID
	}
	return bouquet, nil
}

// ListByOwner returns the owner's bouquets ordered by most recent first.
func (r *BouquetRepository) ListByOwner(ctx context.Context, ownerRef string, filter repositories.BouquetListFilter) (domain.CursorPage[domain.Bouquet], error) {
	if r == nil || r.provider == nil {
		return domain.CursorPage[domain.Bouquet]{}, errors.New("bouquet repository not initialised")
	}
	owner := strings.TrimSpace(ownerRef)
	if owner == "" {
		return domain.CursorPage[domain.Bouquet]{}, errors.New("bouquet repository: owner ref is required")
	}

	limit := filter.Pagination.PageSize
	if limit < 0 {
		limit = 0
	}
	fetchLimit := 0
	if limit > 0 {
		fetchLimit = limit + 1
	}

	var tokenTime time.Time
	var tokenID string
	if token := strings.TrimSpace(filter.Pagination.PageToken); token != "" {
		var err error
		tokenTime, tokenID, err = decodeTimeToken(token)
		if err != nil {
			return domain.CursorPage[domain.Bouquet]{}, fmt.Errorf("bouquets.list: invalid page token: %w", err)
		}
	}

	docs, err := r.base.Query(ctx, func(query firestore.Query) firestore.Query {
		query = query.Where("ownerRef", "==", owner)
		if filter.PublicOnly {
			query = query.Where("isPublic", "==", true)
		}
		query = query.OrderBy("createdAt", firestore.Desc).
			OrderBy(firestore.DocumentID, firestore.Desc)
		if tokenID != "" {
			query = query.StartAfter(tokenTime, tokenID)
		}
		if fetchLimit > 0 {
			query = query.Limit(fetchLimit)
		}
		return query
	})
	if err != nil {
		return domain.CursorPage[domain.Bouquet]{}, err
	}

	nextToken := ""
	if fetchLimit > 0 && len(docs) == fetchLimit {
		last := docs[len(docs)-1]
		nextToken = encodeTimeToken(last.Data.CreatedAt, last.ID)
		docs = docs[:len(docs)-1]
	}

	return domain.CursorPage[domain.Bouquet]{
		Items:         collectBouquets(docs),
		NextPageToken: nextToken,
	}, nil
}

// ListPublic returns the public gallery page in the requested order.
func (r *BouquetRepository) ListPublic(ctx context.Context, filter repositories.PublicBouquetFilter) (domain.CursorPage[domain.Bouquet], error) {
	if r == nil || r.provider == nil {
		return domain.CursorPage[domain.Bouquet]{}, errors.New("bouquet repository not initialised")
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = domain.BouquetSortCreatedAt
	}

	limit := filter.Pagination.PageSize
	if limit < 0 {
		limit = 0
	}
	fetchLimit := 0
	if limit > 0 {
		fetchLimit = limit + 1
	}

	var cursor []any
	if token := strings.TrimSpace(filter.Pagination.PageToken); token != "" {
		var err error
		cursor, err = decodeSortToken(token, orderBy)
		if err != nil {
			return domain.CursorPage[domain.Bouquet]{}, fmt.Errorf("bouquets.public: invalid page token: %w", err)
		}
	}

	docs, err := r.base.Query(ctx, func(query firestore.Query) firestore.Query {
		query = query.Where("isPublic", "==", true)
		if filter.Style != nil {
			query = query.Where("style", "==", string(*filter.Style))
		}
		query = query.OrderBy(string(orderBy), firestore.Desc).
			OrderBy(firestore.DocumentID, firestore.Desc)
		if len(cursor) > 0 {
			query = query.StartAfter(cursor...)
		}
		if fetchLimit > 0 {
			query = query.Limit(fetchLimit)
		}
		return query
	})
	if err != nil {
		return domain.CursorPage[domain.Bouquet]{}, err
	}

	nextToken := ""
	if fetchLimit > 0 && len(docs) == fetchLimit {
		last := docs[len(docs)-1]
		nextToken = encodeSortToken(last.Data, last.ID, orderBy)
		docs = docs[:len(docs)-1]
	}

	return domain.CursorPage[domain.Bouquet]{
		Items:         collectBouquets(docs),
		NextPageToken: nextToken,
	}, nil
}

// ListRecentPublic returns public bouquets created at or after the cutoff,
// most recent first. The caller re-ranks them by engagement.
func (r *BouquetRepository) ListRecentPublic(ctx context.Context, since time.Time, limit int) ([]domain.Bouquet, error) {
	if r == nil || r.provider == nil {
		return nil, errors.New("bouquet repository not initialised")
	}

	docs, err := r.base.Query(ctx, func(query firestore.Query) firestore.Query {
		query = query.Where("isPublic", "==", true).
			Where("createdAt", ">=", since.UTC()).
			OrderBy("createdAt", firestore.Desc).
			OrderBy("likes", firestore.Desc)
		if limit > 0 {
			query = query.Limit(limit)
		}
		return query
	})
	if err != nil {
		return nil, err
	}
	return collectBouquets(docs), nil
}

// ApplyReaction mutates the engagement counters with an atomic relative
// delta and returns the refreshed record.
func (r *BouquetRepository) ApplyReaction(ctx context.Context, bouquetID string, action domain.ReactionAction) (domain.Bouquet, error) {
	if r == nil || r.provider == nil {
		return domain.Bouquet{}, errors.New("bouquet repository not initialised")
	}

	var field string
	switch action {
	case domain.ReactionLike:
		field = "likes"
	case domain.ReactionUnlike:
		return r.retractLike(ctx, bouquetID)
	case domain.ReactionShare:
		field = "shares"
	default:
		return domain.Bouquet{}, fmt.Errorf("bouquet repository: unknown reaction %q", action)
	}

	updates := []firestore.Update{
		{Path: field, Value: firestore.Increment(1)},
		{Path: "updatedAt", Value: r.now().UTC()},
	}
	if err := r.base.Update(ctx, strings.TrimSpace(bouquetID), updates); err != nil {
		return domain.Bouquet{}, err
	}
	return r.FindByID(ctx, bouquetID)
}

// retractLike decrements inside a transaction so concurrent unlikes cannot
// push the counter below zero.
func (r *BouquetRepository) retractLike(ctx context.Context, bouquetID string) (domain.Bouquet, error) {
	ref, err := r.base.Doc(ctx, strings.TrimSpace(bouquetID))
	if err != nil {
		return domain.Bouquet{}, err
	}
	err = r.provider.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		snapshot, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var bouquet domain.Bouquet
		if err := snapshot.DataTo(&bouquet); err != nil {
			return err
		}
		if bouquet.Likes <= 0 {
			return status.Error(codes.FailedPrecondition, "likes counter is already zero")
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "likes", Value: firestore.Increment(-1)},
			{Path: "updatedAt", Value: r.now().UTC()},
		})
	})
	if err != nil {
		return domain.Bouquet{}, err
	}
	return r.FindByID(ctx, bouquetID)
}

// CollectStats aggregates gallery counters. Counts run as server-side
// aggregation queries; style popularity scans a style-only projection of
// the public records.
func (r *BouquetRepository) CollectStats(ctx context.Context, recentSince time.Time) (domain.GalleryStats, error) {
	if r == nil || r.provider == nil {
		return domain.GalleryStats{}, errors.New("bouquet repository not initialised")
	}

	client, err := r.provider.Client(ctx)
	if err != nil {
		return domain.GalleryStats{}, err
	}
	col := client.Collection(bouquetsCollection)

	total, err := countQuery(ctx, col.Query)
	if err != nil {
		return domain.GalleryStats{}, pfirestore.WrapError("bouquets.stats", err)
	}
	public, err := countQuery(ctx, col.Where("isPublic", "==", true))
	if err != nil {
		return domain.GalleryStats{}, pfirestore.WrapError("bouquets.stats", err)
	}
	recent, err := countQuery(ctx, col.Where("createdAt", ">=", recentSince.UTC()))
	if err != nil {
		return domain.GalleryStats{}, pfirestore.WrapError("bouquets.stats", err)
	}

	docs, err := r.base.Query(ctx, func(query firestore.Query) firestore.Query {
		return query.Where("isPublic", "==", true).Select("style")
	})
	if err != nil {
		return domain.GalleryStats{}, err
	}
	styles := make(map[domain.BouquetStyle]int64, len(docs))
	for _, doc := range docs {
		style := doc.Data.Style
		if style == "" {
			style = domain.StyleRealistic
		}
		styles[style]++
	}
	popular := make([]domain.StyleCount, 0, len(styles))
	for style, count := range styles {
		popular = append(popular, domain.StyleCount{Style: style, Count: count})
	}

	return domain.GalleryStats{
		TotalBouquets:  total,
		PublicBouquets: public,
		RecentBouquets: recent,
		PopularStyles:  popular,
	}, nil
}

func countQuery(ctx context.Context, query firestore.Query) (int64, error) {
	results, err := query.NewAggregationQuery().WithCount("count").Get(ctx)
	if err != nil {
		return 0, err
	}
	raw, ok := results["count"]
	if !ok {
		return 0, errors.New("aggregation result missing count")
	}
	value, ok := raw.(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("unexpected aggregation value %T", raw)
	}
	return value.GetIntegerValue(), nil
}

func collectBouquets(docs []pfirestore.Document[domain.Bouquet]) []domain.Bouquet {
	items := make([]domain.Bouquet, 0, len(docs))
	for _, doc := range docs {
		bouquet := doc.Data
		if bouquet.ID == "" {
			bouquet.ID = doc.ID
		}
		items = append(items, bouquet)
	}
	return items
}

func encodeSortToken(bouquet domain.Bouquet, docID string, orderBy domain.BouquetSort) string {
	var value string
	switch orderBy {
	case domain.BouquetSortLikes:
		value = strconv.FormatInt(bouquet.Likes, 10)
	case domain.BouquetSortShares:
		value = strconv.FormatInt(bouquet.Shares, 10)
	default:
		value = bouquet.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	payload := fmt.Sprintf("%s|%s|%s", orderBy, value, docID)
	return base64.RawURLEncoding.EncodeToString([]byte(payload))
}

func decodeSortToken(token string, orderBy domain.BouquetSort) ([]any, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, err
	}
	parts := strings.SplitN(string(data), "|", 3)
	if len(parts) != 3 || parts[2] == "" {
		return nil, errors.New("invalid token format")
	}
	if parts[0] != string(orderBy) {
		return nil, fmt.Errorf("token sort %q does not match requested sort %q", parts[0], orderBy)
	}

	switch orderBy {
	case domain.BouquetSortLikes, domain.BouquetSortShares:
		count, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return nil, err
		}
		return []any{count, parts[2]}, nil
	default:
		ts, err := time.Parse(time.RFC3339Nano, parts[1])
		if err != nil {
			return nil, err
		}
		return []any{ts, parts[2]}, nil
	}
}

// Ensure interface compliance.
var _ repositories.BouquetRepository = (*BouquetRepository)(nil)

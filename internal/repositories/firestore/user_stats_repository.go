package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	pfirestore "github.com/sakisou/api/internal/platform/firestore"
	"github.com/sakisou/api/internal/repositories"
)

const usersCollection = "users"

// UserStatsRepository maintains activity counters on user profile
// documents. Increments merge into the profile, so a missing document
// is created rather than rejected.
type UserStatsRepository struct {
	provider *pfirestore.Provider
	clock    func() time.Time
}

// NewUserStatsRepository constructs a Firestore-backed user stats repository.
func NewUserStatsRepository(provider *pfirestore.Provider, clock func() time.Time) (*UserStatsRepository, error) {
	if provider == nil {
		return nil, errors.New("user stats repository requires firestore provider")
	}
	if clock == nil {
		clock = time.Now
	}
	return &UserStatsRepository{provider: provider, clock: clock}, nil
}

// IncrementAnalyses bumps the user's analysis counter by one.
func (r *UserStatsRepository) IncrementAnalyses(ctx context.Context, userRef string) error {
	return r.increment(ctx, userRef, "totalAnalyses")
}

// IncrementBouquets bumps the user's bouquet counter by one.
func (r *UserStatsRepository) IncrementBouquets(ctx context.Context, userRef string) error {
	return r.increment(ctx, userRef, "totalBouquets")
}

func (r *UserStatsRepository) increment(ctx context.Context, userRef, counter string) error {
	if r == nil || r.provider == nil {
		return errors.New("user stats repository not initialised")
	}
	user := strings.TrimSpace(userRef)
	if user == "" {
		return errors.New("user stats repository: user ref is required")
	}

	client, err := r.provider.Client(ctx)
	if err != nil {
		return err
	}
	_, err = client.Collection(usersCollection).Doc(user).Set(ctx, map[string]any{
		"stats": map[string]any{
			counter: firestore.Increment(1),
		},
		"updatedAt": r.clock().UTC(),
	}, firestore.MergeAll)
	if err != nil {
		return pfirestore.WrapError("users.increment", err)
	}
	return nil
}

var _ repositories.UserStatsRepository = (*UserStatsRepository)(nil)

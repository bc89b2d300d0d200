package firestore

import (
	"context"
	"fmt"
	"time"

	pfirestore "github.com/sakisou/api/internal/platform/firestore"
	"github.com/sakisou/api/internal/repositories"
)

// Registry bundles the Firestore-backed repositories behind the
// repositories.Registry interface and owns the provider lifecycle.
type Registry struct {
	provider *pfirestore.Provider
	emotions *EmotionRepository
	bouquets *BouquetRepository
	users    *UserStatsRepository
	health   repositories.HealthRepository
}

var _ repositories.Registry = (*Registry)(nil)

// NewRegistry wires the Firestore repositories around a shared provider.
// The health repository is injected because its probes reach beyond
// Firestore.
func NewRegistry(provider *pfirestore.Provider, health repositories.HealthRepository) (*Registry, error) {
	if provider == nil {
		return nil, fmt.Errorf("firestore registry: provider is required")
	}
	if health == nil {
		return nil, fmt.Errorf("firestore registry: health repository is required")
	}
	emotions, err := NewEmotionRepository(provider)
	if err != nil {
		return nil, fmt.Errorf("firestore registry: emotion repository: %w", err)
	}
	bouquets, err := NewBouquetRepository(provider)
	if err != nil {
		return nil, fmt.Errorf("firestore registry: bouquet repository: %w", err)
	}
	users, err := NewUserStatsRepository(provider, time.Now)
	if err != nil {
		return nil, fmt.Errorf("firestore registry: user stats repository: %w", err)
	}
	return &Registry{
		provider: provider,
		emotions: emotions,
		bouquets: bouquets,
		users:    users,
		health:   health,
	}, nil
}

// Close releases the underlying Firestore client.
func (r *Registry) Close(ctx context.Context) error {
	return r.provider.Close(ctx)
}

func (r *Registry) Emotions() repositories.EmotionRepository { return r.emotions }

func (r *Registry) Bouquets() repositories.BouquetRepository { return r.bouquets }

func (r *Registry) Users() repositories.UserStatsRepository { return r.users }

func (r *Registry) Health() repositories.HealthRepository { return r.health }

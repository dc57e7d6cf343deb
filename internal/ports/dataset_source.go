package ports

import (
	"context"

	"github.com/emiliopalmerini/polymer-explorer/internal/domain"
)

// DatasetSource loads the experiment dataset at startup.
type DatasetSource interface {
	Load(ctx context.Context) (*domain.Dataset, error)
}

// SnapshotRepository stores imported datasets.
// Lookups return nil, nil when nothing matches.
type SnapshotRepository interface {
	Save(ctx context.Context, name, source string, ds *domain.Dataset) (*domain.Snapshot, error)
	Latest(ctx context.Context) (*domain.Snapshot, error)
	List(ctx context.Context) ([]domain.Snapshot, error)
	Load(ctx context.Context, id string) (*domain.Dataset, error)
	Delete(ctx context.Context, id string) error
}

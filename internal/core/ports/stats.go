package ports

import (
	"context"

	"taskmanager/internal/core/domain"
)

type StatsRepository interface {
	Stats(ctx context.Context) (domain.StoreStats, error)
}

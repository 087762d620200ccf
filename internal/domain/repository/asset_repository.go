package repository

import (
	"context"

	"github.com/danisatya/asset-management-api/internal/domain/entity"
)

// AssetRepository defines the interface for asset persistence.
// Create and Update return ErrDuplicate on a serial-number collision;
// the mutation is rolled back by the store in that case.
type AssetRepository interface {
	Create(ctx context.Context, a *entity.Asset) error
	GetByID(ctx context.Context, id string) (*entity.Asset, error)
	List(ctx context.Context, skip, limit int) ([]entity.Asset, error)
	Update(ctx context.Context, a *entity.Asset) error
	Delete(ctx context.Context, id string) error
}

package catalog

import (
	"context"

	"github.com/fekuna/omnipos-billing-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-billing-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, item *model.CatalogItem) error
	FindByID(ctx context.Context, id string) (*model.CatalogItem, error)
	FindByIDs(ctx context.Context, propertyID string, ids []string) ([]model.CatalogItem, error)
	FindAll(ctx context.Context, filters *dto.ItemFilters) ([]model.CatalogItem, int, error)
	Update(ctx context.Context, item *model.CatalogItem) error
	Delete(ctx context.Context, propertyID, id string) error

	IsCodeUnique(ctx context.Context, propertyID, code, excludeID string) (bool, error)
}

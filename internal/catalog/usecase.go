package catalog

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-billing-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/pkg/search"
)

var (
	ErrNotFound   = errors.New("catalog item not found")
	ErrCodeExists = errors.New("catalog item code already exists")
)

type UseCase interface {
	CreateItem(ctx context.Context, input *dto.CreateItemInput) (*model.CatalogItem, error)
	GetItem(ctx context.Context, propertyID, id string) (*model.CatalogItem, error)
	// GetItems returns the items keyed by id. Missing ids are absent from
	// the map.
	GetItems(ctx context.Context, propertyID string, ids []string) (map[string]model.CatalogItem, error)
	ListItems(ctx context.Context, filters *dto.ItemFilters) ([]model.CatalogItem, int, error)
	UpdateItem(ctx context.Context, input *dto.UpdateItemInput) (*model.CatalogItem, error)
	DeleteItem(ctx context.Context, propertyID, id string) error
}

// Searcher is the full-text index catalog items are mirrored into.
type Searcher interface {
	CreateIndex(ctx context.Context, index, mapping string) error
	Index(ctx context.Context, index, id string, doc any) error
	Delete(ctx context.Context, index, id string) error
	Search(ctx context.Context, index string, query map[string]any) (*search.SearchResponse, error)
}

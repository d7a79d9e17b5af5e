package handler

import (
	"context"

	"github.com/fekuna/omnipos-billing-service/internal/apierr"
	"github.com/fekuna/omnipos-billing-service/internal/auth"
	"github.com/fekuna/omnipos-billing-service/internal/catalog"
	"github.com/fekuna/omnipos-billing-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-billing-service/internal/model"
	billingv1 "github.com/fekuna/omnipos-billing-service/pkg/api/billingv1"
	"github.com/fekuna/omnipos-billing-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
)

var errTable = apierr.Table{
	{Err: catalog.ErrNotFound, Code: codes.NotFound, MessageID: "ErrNotFound",
		Data: func(error) map[string]any { return map[string]any{"Resource": "catalog item"} }},
	{Err: catalog.ErrCodeExists, Code: codes.AlreadyExists, MessageID: "ErrConflict",
		Data: func(error) map[string]any { return map[string]any{"Resource": "catalog item code"} }},
}

type CatalogHandler struct {
	uc     catalog.UseCase
	logger logger.ZapLogger
}

func NewCatalogHandler(uc catalog.UseCase, log logger.ZapLogger) *CatalogHandler {
	return &CatalogHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CatalogHandler) fail(op string, err error) error {
	if errTable.IsInternal(err) {
		h.logger.Error("catalog "+op+" failed", zap.Error(err))
	}
	return errTable.GRPC(err)
}

func (h *CatalogHandler) CreateItem(ctx context.Context, req *billingv1.CreateItemRequest) (*billingv1.ItemResponse, error) {
	propertyID := auth.GetPropertyID(ctx)
	if propertyID == "" {
		return nil, apierr.Unauthenticated()
	}

	item, err := h.uc.CreateItem(ctx, &dto.CreateItemInput{
		PropertyID:     propertyID,
		Code:           req.Code,
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		UnitPrice:      req.UnitPrice,
		TaxRatePercent: req.TaxRatePercent,
	})
	if err != nil {
		return nil, h.fail("create", err)
	}
	return &billingv1.ItemResponse{Item: MapItemToPB(item)}, nil
}

func (h *CatalogHandler) GetItem(ctx context.Context, req *billingv1.GetItemRequest) (*billingv1.ItemResponse, error) {
	propertyID := auth.GetPropertyID(ctx)
	if propertyID == "" {
		return nil, apierr.Unauthenticated()
	}

	item, err := h.uc.GetItem(ctx, propertyID, req.ID)
	if err != nil {
		return nil, h.fail("get", err)
	}
	return &billingv1.ItemResponse{Item: MapItemToPB(item)}, nil
}

func (h *CatalogHandler) ListItems(ctx context.Context, req *billingv1.ListItemsRequest) (*billingv1.ListItemsResponse, error) {
	propertyID := auth.GetPropertyID(ctx)
	if propertyID == "" {
		return nil, apierr.Unauthenticated()
	}

	filters := FiltersFromPB(propertyID, req)
	items, count, err := h.uc.ListItems(ctx, filters)
	if err != nil {
		return nil, h.fail("list", err)
	}

	out := make([]*billingv1.CatalogItem, len(items))
	for i := range items {
		out[i] = MapItemToPB(&items[i])
	}
	return &billingv1.ListItemsResponse{
		Items:    out,
		Total:    count,
		Page:     filters.Page,
		PageSize: filters.PageSize,
	}, nil
}

func (h *CatalogHandler) UpdateItem(ctx context.Context, req *billingv1.UpdateItemRequest) (*billingv1.ItemResponse, error) {
	propertyID := auth.GetPropertyID(ctx)
	if propertyID == "" {
		return nil, apierr.Unauthenticated()
	}

	item, err := h.uc.UpdateItem(ctx, &dto.UpdateItemInput{
		ID:             req.ID,
		PropertyID:     propertyID,
		Code:           req.Code,
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		UnitPrice:      req.UnitPrice,
		TaxRatePercent: req.TaxRatePercent,
		IsActive:       req.IsActive,
	})
	if err != nil {
		return nil, h.fail("update", err)
	}
	return &billingv1.ItemResponse{Item: MapItemToPB(item)}, nil
}

func (h *CatalogHandler) DeleteItem(ctx context.Context, req *billingv1.DeleteItemRequest) (*billingv1.Empty, error) {
	propertyID := auth.GetPropertyID(ctx)
	if propertyID == "" {
		return nil, apierr.Unauthenticated()
	}

	if err := h.uc.DeleteItem(ctx, propertyID, req.ID); err != nil {
		return nil, h.fail("delete", err)
	}
	return &billingv1.Empty{}, nil
}

func FiltersFromPB(propertyID string, req *billingv1.ListItemsRequest) *dto.ItemFilters {
	page, size := req.Page, req.PageSize
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}
	return &dto.ItemFilters{
		PropertyID:  propertyID,
		Category:    req.Category,
		IsActive:    req.IsActive,
		SearchQuery: req.Query,
		SortBy:      req.SortBy,
		SortOrder:   req.SortOrder,
		Page:        page,
		PageSize:    size,
	}
}

func MapItemToPB(item *model.CatalogItem) *billingv1.CatalogItem {
	if item == nil {
		return nil
	}
	out := &billingv1.CatalogItem{
		ID:             item.ID,
		Code:           item.Code,
		Name:           item.Name,
		Category:       string(item.Category),
		UnitPrice:      item.UnitPrice,
		TaxRatePercent: item.TaxRatePercent,
		IsActive:       item.IsActive,
		Timestamps: billingv1.Timestamps{
			CreatedAt: item.CreatedAt,
			UpdatedAt: item.UpdatedAt,
		},
	}
	if item.Description != nil {
		out.Description = *item.Description
	}
	return out
}

package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-billing-service/internal/catalog"
	"github.com/fekuna/omnipos-billing-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/internal/validation"
	"github.com/fekuna/omnipos-billing-service/pkg/cache"
	"github.com/fekuna/omnipos-billing-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	indexName = "catalog_items"
	listTTL   = 5 * time.Minute
)

const indexMapping = `{
	"mappings": {
		"properties": {
			"property_id": { "type": "keyword" },
			"code": { "type": "keyword" },
			"name": { "type": "text" },
			"description": { "type": "text" },
			"category": { "type": "keyword" },
			"unit_price": { "type": "double" },
			"tax_rate_percent": { "type": "double" },
			"is_active": { "type": "boolean" },
			"created_at": { "type": "date" }
		}
	}
}`

type catalogUseCase struct {
	repo   catalog.Repository
	cache  *cache.RedisClient
	es     catalog.Searcher
	logger logger.ZapLogger
}

// NewCatalogUseCase wires the catalog. es may be nil, in which case search
// goes straight to Postgres.
func NewCatalogUseCase(repo catalog.Repository, cache *cache.RedisClient, es catalog.Searcher, log logger.ZapLogger) catalog.UseCase {
	return &catalogUseCase{
		repo:   repo,
		cache:  cache,
		es:     es,
		logger: log,
	}
}

func validateItem(code, name, category string, price, rate decimal.Decimal, v validation.Violations) {
	validation.RequiredString("code", code, v)
	validation.RequiredString("name", name, v)
	c := model.LineItemCategory(category)
	validation.Enum("category", c, c.Valid(), model.Categories, v)
	validation.NonNegativeDecimal("unit_price", price, v)
	validation.NonNegativeDecimal("tax_rate_percent", rate, v)
}

func (uc *catalogUseCase) CreateItem(ctx context.Context, input *dto.CreateItemInput) (*model.CatalogItem, error) {
	v := validation.Violations{}
	validateItem(input.Code, input.Name, input.Category, input.UnitPrice, input.TaxRatePercent, v)
	if err := v.Err(); err != nil {
		return nil, err
	}

	code := strings.TrimSpace(input.Code)
	unique, err := uc.repo.IsCodeUnique(ctx, input.PropertyID, code, "")
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, catalog.ErrCodeExists
	}

	now := time.Now()
	item := &model.CatalogItem{
		BaseModel:      model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		PropertyID:     input.PropertyID,
		Code:           code,
		Name:           strings.TrimSpace(input.Name),
		Description:    optional(input.Description),
		Category:       model.LineItemCategory(input.Category),
		UnitPrice:      input.UnitPrice,
		TaxRatePercent: input.TaxRatePercent,
		IsActive:       true,
	}

	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	go uc.invalidateListCache(context.Background(), item.PropertyID)
	go uc.syncToElastic(context.Background(), item)

	return item, nil
}

func (uc *catalogUseCase) GetItem(ctx context.Context, propertyID, id string) (*model.CatalogItem, error) {
	item, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil || item.PropertyID != propertyID {
		return nil, catalog.ErrNotFound
	}
	return item, nil
}

func (uc *catalogUseCase) GetItems(ctx context.Context, propertyID string, ids []string) (map[string]model.CatalogItem, error) {
	items, err := uc.repo.FindByIDs(ctx, propertyID, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]model.CatalogItem, len(items))
	for _, it := range items {
		out[it.ID] = it
	}
	return out, nil
}

type cachedList struct {
	Items []model.CatalogItem
	Count int
}

func (uc *catalogUseCase) ListItems(ctx context.Context, filters *dto.ItemFilters) ([]model.CatalogItem, int, error) {
	cacheKey, err := uc.generateCacheKey(filters)
	if err == nil {
		val, err := uc.cache.Client.Get(ctx, cacheKey).Result()
		if err == nil {
			var result cachedList
			if err := json.Unmarshal([]byte(val), &result); err == nil {
				return result.Items, result.Count, nil
			}
		}
	}

	if filters.SearchQuery != "" && uc.es != nil {
		items, total, err := uc.searchElastic(ctx, filters)
		if err == nil {
			return items, total, nil
		}
		uc.logger.Error("catalog search failed, falling back to postgres", zap.Error(err))
	}

	items, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if cacheKey != "" {
		if data, err := json.Marshal(cachedList{Items: items, Count: count}); err == nil {
			if err := uc.cache.Client.Set(ctx, cacheKey, data, listTTL).Err(); err != nil {
				uc.logger.Warn("failed to cache catalog list", zap.Error(err))
			}
		}
	}

	return items, count, nil
}

func (uc *catalogUseCase) searchElastic(ctx context.Context, filters *dto.ItemFilters) ([]model.CatalogItem, int, error) {
	must := []map[string]interface{}{
		{
			"query_string": map[string]interface{}{
				"query":  fmt.Sprintf("*%s*", filters.SearchQuery),
				"fields": []string{"name^3", "code", "description"},
			},
		},
		{"term": map[string]interface{}{"property_id": filters.PropertyID}},
	}
	if filters.Category != "" {
		must = append(must, map[string]interface{}{"term": map[string]interface{}{"category": filters.Category}})
	}
	if filters.IsActive != nil {
		must = append(must, map[string]interface{}{"term": map[string]interface{}{"is_active": *filters.IsActive}})
	}

	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must},
		},
	}
	if filters.PageSize > 0 {
		page := filters.Page
		if page < 1 {
			page = 1
		}
		q["from"] = (page - 1) * filters.PageSize
		q["size"] = filters.PageSize
	}

	res, err := uc.es.Search(ctx, indexName, q)
	if err != nil {
		return nil, 0, err
	}

	items := make([]model.CatalogItem, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var it model.CatalogItem
		if err := json.Unmarshal(hit.Source, &it); err != nil {
			uc.logger.Warn("skipping malformed catalog document", zap.String("id", hit.ID), zap.Error(err))
			continue
		}
		items = append(items, it)
	}
	return items, res.Hits.Total.Value, nil
}

func (uc *catalogUseCase) UpdateItem(ctx context.Context, input *dto.UpdateItemInput) (*model.CatalogItem, error) {
	v := validation.Violations{}
	validateItem(input.Code, input.Name, input.Category, input.UnitPrice, input.TaxRatePercent, v)
	if err := v.Err(); err != nil {
		return nil, err
	}

	item, err := uc.GetItem(ctx, input.PropertyID, input.ID)
	if err != nil {
		return nil, err
	}

	code := strings.TrimSpace(input.Code)
	if item.Code != code {
		unique, err := uc.repo.IsCodeUnique(ctx, input.PropertyID, code, item.ID)
		if err != nil {
			return nil, err
		}
		if !unique {
			return nil, catalog.ErrCodeExists
		}
	}

	item.Code = code
	item.Name = strings.TrimSpace(input.Name)
	item.Description = optional(input.Description)
	item.Category = model.LineItemCategory(input.Category)
	item.UnitPrice = input.UnitPrice
	item.TaxRatePercent = input.TaxRatePercent
	item.IsActive = input.IsActive
	item.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	go uc.invalidateListCache(context.Background(), item.PropertyID)
	go uc.syncToElastic(context.Background(), item)

	return item, nil
}

func (uc *catalogUseCase) DeleteItem(ctx context.Context, propertyID, id string) error {
	item, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil || item.PropertyID != propertyID {
		return nil
	}

	if err := uc.repo.Delete(ctx, propertyID, id); err != nil {
		return err
	}

	go uc.invalidateListCache(context.Background(), propertyID)
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), indexName, id); err != nil {
				uc.logger.Error("failed to delete catalog item from index", zap.String("id", id), zap.Error(err))
			}
		}()
	}
	return nil
}

func (uc *catalogUseCase) syncToElastic(ctx context.Context, item *model.CatalogItem) {
	if uc.es == nil {
		return
	}
	if err := uc.es.CreateIndex(ctx, indexName, indexMapping); err != nil {
		uc.logger.Warn("failed to ensure catalog index", zap.Error(err))
	}
	if err := uc.es.Index(ctx, indexName, item.ID, item); err != nil {
		uc.logger.Error("failed to index catalog item", zap.String("id", item.ID), zap.Error(err))
	}
}

func (uc *catalogUseCase) generateCacheKey(filters *dto.ItemFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("catalog:list:%s:%x", filters.PropertyID, md5.Sum(data)), nil
}

func (uc *catalogUseCase) invalidateListCache(ctx context.Context, propertyID string) {
	pattern := fmt.Sprintf("catalog:list:%s:*", propertyID)
	if err := uc.cache.DeletePattern(ctx, pattern); err != nil {
		uc.logger.Warn("failed to invalidate catalog cache", zap.String("property_id", propertyID), zap.Error(err))
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

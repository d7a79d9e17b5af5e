package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fekuna/omnipos-billing-service/internal/catalog"
	"github.com/fekuna/omnipos-billing-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-billing-service/internal/model"
	"github.com/fekuna/omnipos-billing-service/internal/validation"
	"github.com/fekuna/omnipos-billing-service/pkg/cache"
	"github.com/fekuna/omnipos-billing-service/pkg/logger"
	"github.com/fekuna/omnipos-billing-service/pkg/search"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu       sync.Mutex
	items    map[string]model.CatalogItem
	findAlls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[string]model.CatalogItem{}}
}

func (r *fakeRepo) Create(_ context.Context, item *model.CatalogItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = *item
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (*model.CatalogItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (r *fakeRepo) FindByIDs(_ context.Context, propertyID string, ids []string) ([]model.CatalogItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CatalogItem
	for _, id := range ids {
		if it, ok := r.items[id]; ok && it.PropertyID == propertyID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *fakeRepo) FindAll(_ context.Context, f *dto.ItemFilters) ([]model.CatalogItem, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findAlls++
	var out []model.CatalogItem
	for _, it := range r.items {
		if it.PropertyID == f.PropertyID {
			out = append(out, it)
		}
	}
	return out, len(out), nil
}

func (r *fakeRepo) Update(_ context.Context, item *model.CatalogItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = *item
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, _, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *fakeRepo) IsCodeUnique(_ context.Context, propertyID, code, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.PropertyID == propertyID && it.Code == code && it.ID != excludeID {
			return false, nil
		}
	}
	return true, nil
}

type fakeSearcher struct {
	mu      sync.Mutex
	indexed map[string]any
	deleted []string
	hits    []model.CatalogItem
	err     error
}

func (s *fakeSearcher) CreateIndex(context.Context, string, string) error { return nil }

func (s *fakeSearcher) Index(_ context.Context, _, id string, doc any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexed == nil {
		s.indexed = map[string]any{}
	}
	s.indexed[id] = doc
	return nil
}

func (s *fakeSearcher) Delete(_ context.Context, _, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *fakeSearcher) Search(context.Context, string, map[string]any) (*search.SearchResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	res := &search.SearchResponse{}
	for _, it := range s.hits {
		src, _ := json.Marshal(it)
		res.Hits.Hits = append(res.Hits.Hits, search.Hit{ID: it.ID, Source: src})
	}
	res.Hits.Total.Value = len(s.hits)
	return res, nil
}

func (s *fakeSearcher) indexedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.indexed)
}

func setup(t *testing.T, es catalog.Searcher) (catalog.UseCase, *fakeRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc, err := cache.NewRedisClient(&cache.Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })

	repo := newFakeRepo()
	return NewCatalogUseCase(repo, rc, es, logger.NewNop()), repo, mr
}

func minibar() *dto.CreateItemInput {
	return &dto.CreateItemInput{
		PropertyID:     "prop-1",
		Code:           "MB-COLA",
		Name:           "Cola 330ml",
		Category:       string(model.CategoryMinibar),
		UnitPrice:      decimal.RequireFromString("120"),
		TaxRatePercent: decimal.RequireFromString("12"),
	}
}

func TestCreateItem(t *testing.T) {
	es := &fakeSearcher{}
	uc, repo, _ := setup(t, es)

	item, err := uc.CreateItem(context.Background(), minibar())
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.True(t, item.IsActive)
	assert.Nil(t, item.Description)
	assert.Contains(t, repo.items, item.ID)

	assert.Eventually(t, func() bool { return es.indexedCount() == 1 }, time.Second, 10*time.Millisecond)
}

func TestCreateItem_DuplicateCode(t *testing.T) {
	uc, _, _ := setup(t, nil)

	_, err := uc.CreateItem(context.Background(), minibar())
	require.NoError(t, err)

	_, err = uc.CreateItem(context.Background(), minibar())
	assert.ErrorIs(t, err, catalog.ErrCodeExists)

	other := minibar()
	other.PropertyID = "prop-2"
	_, err = uc.CreateItem(context.Background(), other)
	assert.NoError(t, err, "codes are unique per property")
}

func TestCreateItem_Validation(t *testing.T) {
	uc, _, _ := setup(t, nil)

	in := minibar()
	in.Name = ""
	in.Category = "casino"
	in.UnitPrice = decimal.RequireFromString("-1")

	_, err := uc.CreateItem(context.Background(), in)
	var v validation.Violations
	require.True(t, errors.As(err, &v))
	assert.ElementsMatch(t, []string{"name", "category", "unit_price"}, v.Fields())
}

func TestGetItem_OtherPropertyIsNotFound(t *testing.T) {
	uc, _, _ := setup(t, nil)
	item, err := uc.CreateItem(context.Background(), minibar())
	require.NoError(t, err)

	_, err = uc.GetItem(context.Background(), "prop-2", item.ID)
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	got, err := uc.GetItem(context.Background(), "prop-1", item.ID)
	require.NoError(t, err)
	assert.Equal(t, "MB-COLA", got.Code)
}

func TestGetItems(t *testing.T) {
	uc, _, _ := setup(t, nil)
	item, err := uc.CreateItem(context.Background(), minibar())
	require.NoError(t, err)

	got, err := uc.GetItems(context.Background(), "prop-1", []string{item.ID, "missing"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Contains(t, got, item.ID)
}

func TestListItems_CachesAndInvalidates(t *testing.T) {
	uc, repo, mr := setup(t, nil)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &model.CatalogItem{
		BaseModel:  model.BaseModel{ID: "item-1"},
		PropertyID: "prop-1",
		Code:       "MB-COLA",
	}))

	filters := &dto.ItemFilters{PropertyID: "prop-1"}
	items, count, err := uc.ListItems(ctx, filters)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, count)
	assert.Len(t, mr.Keys(), 1)

	_, _, err = uc.ListItems(ctx, filters)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.findAlls, "second call served from cache")

	second := minibar()
	second.Code = "MB-WATER"
	_, err = uc.CreateItem(ctx, second)
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return len(mr.Keys()) == 0 }, time.Second, 10*time.Millisecond)

	items, _, err = uc.ListItems(ctx, filters)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestListItems_SearchUsesIndex(t *testing.T) {
	es := &fakeSearcher{hits: []model.CatalogItem{{Code: "SPA-60", Name: "Massage 60"}}}
	uc, repo, _ := setup(t, es)

	items, total, err := uc.ListItems(context.Background(), &dto.ItemFilters{PropertyID: "prop-1", SearchQuery: "massage"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "SPA-60", items[0].Code)
	assert.Zero(t, repo.findAlls)
}

func TestListItems_SearchFallsBackToPostgres(t *testing.T) {
	es := &fakeSearcher{err: errors.New("cluster down")}
	uc, repo, _ := setup(t, es)

	_, _, err := uc.ListItems(context.Background(), &dto.ItemFilters{PropertyID: "prop-1", SearchQuery: "massage"})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.findAlls)
}

func TestUpdateItem(t *testing.T) {
	uc, _, _ := setup(t, nil)
	ctx := context.Background()
	item, err := uc.CreateItem(ctx, minibar())
	require.NoError(t, err)
	_, err = uc.CreateItem(ctx, &dto.CreateItemInput{
		PropertyID: "prop-1", Code: "MB-WATER", Name: "Water", Category: "minibar",
	})
	require.NoError(t, err)

	in := &dto.UpdateItemInput{
		ID:             item.ID,
		PropertyID:     "prop-1",
		Code:           "MB-WATER",
		Name:           "Cola",
		Category:       "minibar",
		UnitPrice:      decimal.RequireFromString("150"),
		TaxRatePercent: decimal.RequireFromString("12"),
	}
	_, err = uc.UpdateItem(ctx, in)
	assert.ErrorIs(t, err, catalog.ErrCodeExists)

	in.Code = "MB-COLA"
	updated, err := uc.UpdateItem(ctx, in)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("150").Equal(updated.UnitPrice))
	assert.False(t, updated.IsActive)
}

func TestDeleteItem(t *testing.T) {
	es := &fakeSearcher{}
	uc, repo, _ := setup(t, es)
	ctx := context.Background()
	item, err := uc.CreateItem(ctx, minibar())
	require.NoError(t, err)

	require.NoError(t, uc.DeleteItem(ctx, "prop-2", item.ID))
	assert.Contains(t, repo.items, item.ID, "other property cannot delete")

	require.NoError(t, uc.DeleteItem(ctx, "prop-1", item.ID))
	assert.NotContains(t, repo.items, item.ID)
	assert.Eventually(t, func() bool {
		es.mu.Lock()
		defer es.mu.Unlock()
		return len(es.deleted) == 1
	}, time.Second, 10*time.Millisecond)
}

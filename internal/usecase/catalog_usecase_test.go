package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"storefront/internal/cache"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"
)

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListActive(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]model.Product)
	return list, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, productID string) (model.Product, error) {
	args := m.Called(ctx, productID)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

var _ repo.ProductRepository = (*ProductRepoMock)(nil)

func newCatalogWithClock(products repo.ProductRepository, ttl time.Duration, now func() time.Time) *usecase.CatalogUsecase {
	return usecase.NewCatalogUsecase(
		products,
		cache.NewWithClock[[]model.Product](ttl, now),
		cache.NewWithClock[model.Product](ttl, now),
	)
}

// 2回目はキャッシュから。リポジトリは1回しか呼ばれない
func TestCatalogUsecase_ListProducts_CachesResult(t *testing.T) {
	products := new(ProductRepoMock)
	products.On("ListActive", mock.Anything).
		Return([]model.Product{{ID: "p1", Name: "mug", Price: 12}}, nil).Once()

	u := newCatalogWithClock(products, 5*time.Minute, time.Now)

	first, err := u.ListProducts(context.Background())
	assert.NoError(t, err)
	second, err := u.ListProducts(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, first, second)
	products.AssertNumberOfCalls(t, "ListActive", 1)
}

// TTL切れで再取得する
func TestCatalogUsecase_ListProducts_RefreshesAfterTTL(t *testing.T) {
	products := new(ProductRepoMock)
	products.On("ListActive", mock.Anything).
		Return([]model.Product{{ID: "p1", Name: "mug", Price: 12}}, nil)

	current := time.Now()
	u := newCatalogWithClock(products, time.Minute, func() time.Time { return current })

	_, _ = u.ListProducts(context.Background())
	current = current.Add(2 * time.Minute)
	_, _ = u.ListProducts(context.Background())

	products.AssertNumberOfCalls(t, "ListActive", 2)
}

func TestCatalogUsecase_GetProduct_CachesByID(t *testing.T) {
	products := new(ProductRepoMock)
	products.On("FindByID", mock.Anything, "p1").
		Return(model.Product{ID: "p1", Name: "mug", Price: 12}, nil).Once()

	u := newCatalogWithClock(products, 5*time.Minute, time.Now)

	got, err := u.GetProduct(context.Background(), "p1")
	assert.NoError(t, err)
	assert.Equal(t, "mug", got.Name)

	_, err = u.GetProduct(context.Background(), "p1")
	assert.NoError(t, err)
	products.AssertNumberOfCalls(t, "FindByID", 1)
}

func TestCatalogUsecase_GetProduct_NotFound(t *testing.T) {
	products := new(ProductRepoMock)
	products.On("FindByID", mock.Anything, "ghost").
		Return(model.Product{}, repo.ErrNotFound)

	u := newCatalogWithClock(products, 5*time.Minute, time.Now)

	_, err := u.GetProduct(context.Background(), "ghost")
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
}

// Invalidate後は再取得になる
func TestCatalogUsecase_Invalidate_DropsCache(t *testing.T) {
	products := new(ProductRepoMock)
	products.On("ListActive", mock.Anything).
		Return([]model.Product{{ID: "p1", Name: "mug", Price: 12}}, nil)

	u := newCatalogWithClock(products, 5*time.Minute, time.Now)

	_, _ = u.ListProducts(context.Background())
	u.Invalidate()
	_, _ = u.ListProducts(context.Background())

	products.AssertNumberOfCalls(t, "ListActive", 2)
}

package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/cache"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// CatalogUsecase はカタログの読み出し。キャッシュは注入する
// （パッケージ変数のグローバルキャッシュにはしない）。
type CatalogUsecase struct {
	products  repo.ProductRepository
	listCache *cache.TTLCache[[]model.Product]
	itemCache *cache.TTLCache[model.Product]
}

// DI
func NewCatalogUsecase(
	products repo.ProductRepository,
	listCache *cache.TTLCache[[]model.Product],
	itemCache *cache.TTLCache[model.Product],
) *CatalogUsecase {
	return &CatalogUsecase{
		products:  products,
		listCache: listCache,
		itemCache: itemCache,
	}
}

// ListProducts は公開中の商品一覧を返す（TTLキャッシュつき）。
func (u *CatalogUsecase) ListProducts(ctx context.Context) ([]model.Product, error) {
	key := cache.Key("products", "active")
	if v, ok := u.listCache.Get(key); ok {
		return v, nil
	}

	list, err := u.products.ListActive(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "catalog error")
	}

	u.listCache.Set(key, list)
	return list, nil
}

// GetProduct は商品詳細を返す（TTLキャッシュつき）。
func (u *CatalogUsecase) GetProduct(ctx context.Context, productID string) (model.Product, error) {
	if strings.TrimSpace(productID) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	key := cache.Key("products", "id", productID)
	if v, ok := u.itemCache.Get(key); ok {
		return v, nil
	}

	p, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "catalog error")
	}

	u.itemCache.Set(key, p)
	return p, nil
}

// Invalidate はキャッシュを全部捨てる。
func (u *CatalogUsecase) Invalidate() {
	u.listCache.InvalidateAll()
	u.itemCache.InvalidateAll()
}

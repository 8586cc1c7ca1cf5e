package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/domain/model"
	"storefront/internal/handler"
	"storefront/internal/identity"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"
)

// =====================
// インメモリのfake（HTTP層の薄いテストなのでmockではなくfakeで済ます）
// =====================

type memLocalStore struct {
	mu    sync.Mutex
	lines []model.CartLine
}

func (s *memLocalStore) Save(ctx context.Context, lines []model.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = lines
	return nil
}

func (s *memLocalStore) Load(ctx context.Context) []model.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines
}

type noopRemote struct{}

func (noopRemote) FetchByUser(ctx context.Context, userID string) (model.RemoteCartRecord, error) {
	return model.RemoteCartRecord{}, repo.ErrNotFound
}

func (noopRemote) Create(ctx context.Context, userID string, lines []model.CartLine) (model.RemoteCartRecord, error) {
	return model.RemoteCartRecord{UserID: userID, ItemsJSON: model.EncodeLines(lines)}, nil
}

func (noopRemote) Update(ctx context.Context, recordID string, lines []model.CartLine) (model.RemoteCartRecord, error) {
	return model.RemoteCartRecord{ID: recordID, ItemsJSON: model.EncodeLines(lines)}, nil
}

var _ repo.LocalStore = (*memLocalStore)(nil)
var _ repo.RemoteCartRepository = noopRemote{}

// =====================
// helper
// =====================

func newCartEcho(t *testing.T) *echo.Echo {
	t.Helper()

	s := usecase.NewCartSynchronizer(&memLocalStore{}, noopRemote{}, time.Hour, zap.NewNop())
	s.OnIdentityChanged(context.Background(), identity.Identity{})

	deadline := time.Now().Add(2 * time.Second)
	for s.State() != usecase.SyncReady {
		if time.Now().After(deadline) {
			t.Fatalf("synchronizer did not become ready")
		}
		time.Sleep(5 * time.Millisecond)
	}

	uc := usecase.NewCartUsecase(s, model.ShippingPolicy{FreeShippingThreshold: 100, ShippingCost: 10}, zap.NewNop())

	e := echo.New()
	handler.NewCartHandler(uc).RegisterRoutes(e)
	handler.NewCheckoutHandler(uc).RegisterRoutes(e)
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method string, path string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) usecase.CartOutput {
	t.Helper()
	var out usecase.CartOutput
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

// =====================
// /cart
// =====================

func TestCartHandler_AddAndGet(t *testing.T) {
	e := newCartEcho(t)

	rec := doJSON(t, e, http.MethodPost, "/cart/items",
		`{"product":{"id":"p1","name":"mug","price":20},"quantity":2,"color":"red"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	out := decodeCart(t, rec)
	require.Len(t, out.Items, 1)
	assert.Equal(t, int64(2), out.Items[0].Quantity)
	assert.InDelta(t, 40.0, out.Subtotal, 1e-9)
	assert.InDelta(t, 10.0, out.Shipping, 1e-9)

	rec = doJSON(t, e, http.MethodGet, "/cart", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	out = decodeCart(t, rec)
	assert.Equal(t, int64(2), out.Count)
}

// 同じ (product, color) の追加は数量加算
func TestCartHandler_AddSameItemMerges(t *testing.T) {
	e := newCartEcho(t)

	body := `{"product":{"id":"p1","name":"mug","price":20},"quantity":1,"color":"red"}`
	_ = doJSON(t, e, http.MethodPost, "/cart/items", body)
	rec := doJSON(t, e, http.MethodPost, "/cart/items", body)

	out := decodeCart(t, rec)
	require.Len(t, out.Items, 1)
	assert.Equal(t, int64(2), out.Items[0].Quantity)
}

func TestCartHandler_AddItem_InvalidBodyIs400(t *testing.T) {
	e := newCartEcho(t)

	rec := doJSON(t, e, http.MethodPost, "/cart/items",
		`{"product":{"id":""},"quantity":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, e, http.MethodPost, "/cart/items",
		`{"product":{"id":"p1","price":20},"quantity":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartHandler_UpdateQuantityAndRemove(t *testing.T) {
	e := newCartEcho(t)

	_ = doJSON(t, e, http.MethodPost, "/cart/items",
		`{"product":{"id":"p1","name":"mug","price":20},"quantity":1,"color":"red"}`)

	rec := doJSON(t, e, http.MethodPatch, "/cart/items/p1", `{"quantity":5}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	out := decodeCart(t, rec)
	require.Len(t, out.Items, 1)
	assert.Equal(t, int64(5), out.Items[0].Quantity)

	// 0への更新は削除と同じ
	rec = doJSON(t, e, http.MethodPatch, "/cart/items/p1", `{"quantity":0}`)
	out = decodeCart(t, rec)
	assert.Empty(t, out.Items)

	_ = doJSON(t, e, http.MethodPost, "/cart/items",
		`{"product":{"id":"p2","name":"cap","price":15},"quantity":1}`)
	rec = doJSON(t, e, http.MethodDelete, "/cart/items/p2", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	out = decodeCart(t, rec)
	assert.Empty(t, out.Items)
}

func TestCartHandler_Clear(t *testing.T) {
	e := newCartEcho(t)

	_ = doJSON(t, e, http.MethodPost, "/cart/items",
		`{"product":{"id":"p1","name":"mug","price":20},"quantity":3,"color":"red"}`)

	rec := doJSON(t, e, http.MethodPost, "/cart/clear", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	out := decodeCart(t, rec)
	assert.Empty(t, out.Items)
	assert.Equal(t, int64(0), out.Count)
}

// =====================
// /checkout
// =====================

func TestCheckoutHandler_ConfirmClearsCart(t *testing.T) {
	e := newCartEcho(t)

	_ = doJSON(t, e, http.MethodPost, "/cart/items",
		`{"product":{"id":"p1","name":"mug","price":20},"quantity":3,"color":"red"}`)

	rec := doJSON(t, e, http.MethodPost, "/checkout/confirm", `{"order_id":"order-1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	out := decodeCart(t, rec)
	assert.Empty(t, out.Items)
}

func TestCheckoutHandler_ConfirmRequiresOrderID(t *testing.T) {
	e := newCartEcho(t)

	rec := doJSON(t, e, http.MethodPost, "/checkout/confirm", `{"order_id":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

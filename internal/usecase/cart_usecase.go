package usecase

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"storefront/internal/domain/model"
)

// CartUsecase は /cart の業務ロジック。
// メモリ上のカートを同期的に変更し、永続化はSynchronizerに任せる。
// 小計・送料・合計は保存せず、読むたびに計算する。
type CartUsecase struct {
	sync   *CartSynchronizer
	policy model.ShippingPolicy
	log    *zap.Logger
}

// DI
func NewCartUsecase(sync *CartSynchronizer, policy model.ShippingPolicy, log *zap.Logger) *CartUsecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &CartUsecase{sync: sync, policy: policy, log: log}
}

type CartLineOutput struct {
	ProductID string   `json:"product_id"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Images    []string `json:"images"`
	Quantity  int64    `json:"quantity"`
	Color     string   `json:"color"`
}

type CartOutput struct {
	Items    []CartLineOutput `json:"items"`
	Subtotal float64          `json:"subtotal"`
	Shipping float64          `json:"shipping"`
	Total    float64          `json:"total"`
	Count    int64            `json:"count"`
}

type AddItemInput struct {
	Product  model.ProductSnapshot
	Quantity int64
	Color    string
}

// GetCart は現在のカートを返す。
func (u *CartUsecase) GetCart(ctx context.Context) (CartOutput, error) {
	return u.buildOutput(), nil
}

// AddItem はカートに追加する。同一キー (product, color) は数量加算で、明細は増やさない。
func (u *CartUsecase) AddItem(ctx context.Context, in AddItemInput) (CartOutput, error) {
	if strings.TrimSpace(in.Product.ID) == "" {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product")
	}
	if in.Quantity < 1 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	line := model.CartLine{
		ProductID: in.Product.ID,
		Snapshot:  in.Product,
		Quantity:  in.Quantity,
		Color:     in.Color, // 空はバリデータがDefaultに揃える
	}

	// 追加してからマージに任せる（既存キーは数量合算、Snapshotは先勝ち）
	err := u.sync.Apply(ctx, func(lines []model.CartLine) []model.CartLine {
		return append(lines, line)
	})
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "cart error")
	}

	return u.buildOutput(), nil
}

// RemoveItem は商品IDに一致する明細を色に関係なくすべて消す。
// 一意性キーより粗い粒度なのは元設計どおり。
func (u *CartUsecase) RemoveItem(ctx context.Context, productID string) (CartOutput, error) {
	if strings.TrimSpace(productID) == "" {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	err := u.sync.Apply(ctx, func(lines []model.CartLine) []model.CartLine {
		out := make([]model.CartLine, 0, len(lines))
		for _, l := range lines {
			if l.ProductID != productID {
				out = append(out, l)
			}
		}
		return out
	})
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "cart error")
	}

	return u.buildOutput(), nil
}

// UpdateQuantity は数量を変更する。1未満はRemoveItemと同じ。
// 1以上は商品IDが最初に一致した明細の数量を置き換える。
func (u *CartUsecase) UpdateQuantity(ctx context.Context, productID string, quantity int64) (CartOutput, error) {
	if strings.TrimSpace(productID) == "" {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	if quantity < 1 {
		return u.RemoveItem(ctx, productID)
	}

	err := u.sync.Apply(ctx, func(lines []model.CartLine) []model.CartLine {
		out := snapshotLines(lines)
		for i := range out {
			if out[i].ProductID == productID {
				out[i].Quantity = quantity
				break
			}
		}
		return out
	})
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "cart error")
	}

	return u.buildOutput(), nil
}

// ClearCart は明示的な全消去。
func (u *CartUsecase) ClearCart(ctx context.Context) (CartOutput, error) {
	if err := u.sync.Clear(ctx); err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "cart error")
	}
	return u.buildOutput(), nil
}

// ConfirmPayment は決済完了イベントの入口。カートを消すだけで、決済自体は扱わない。
func (u *CartUsecase) ConfirmPayment(ctx context.Context, orderID string) (CartOutput, error) {
	if strings.TrimSpace(orderID) == "" {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid order_id")
	}

	u.log.Info("決済完了。カートを消去", zap.String("order_id", orderID))
	return u.ClearCart(ctx)
}

func (u *CartUsecase) buildOutput() CartOutput {
	lines := u.sync.Lines()
	totals := model.ComputeTotals(lines, u.policy)

	items := make([]CartLineOutput, 0, len(lines))
	var count int64
	for _, l := range lines {
		items = append(items, CartLineOutput{
			ProductID: l.ProductID,
			Name:      l.Snapshot.Name,
			Price:     l.Snapshot.Price,
			Images:    l.Snapshot.Images,
			Quantity:  l.Quantity,
			Color:     l.Color,
		})
		count += l.Quantity
	}

	return CartOutput{
		Items:    items,
		Subtotal: totals.Subtotal,
		Shipping: totals.Shipping,
		Total:    totals.Total,
		Count:    count,
	}
}

package model

import "math"

// 送料ポリシー。しきい値以上で送料無料。
type ShippingPolicy struct {
	FreeShippingThreshold float64
	ShippingCost          float64
}

type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// ComputeTotals は明細列から小計・送料・合計を計算する。
// 純粋関数。読み出しのたびに呼んでよい（O(n)）。
// 壊れた価格/数量は0として扱い、NaNを伝播させない。
func ComputeTotals(lines []CartLine, policy ShippingPolicy) Totals {
	var subtotal float64
	for _, l := range lines {
		price := l.Snapshot.Price
		if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
			price = 0
		}
		qty := l.Quantity
		if qty < 0 {
			qty = 0
		}
		subtotal += price * float64(qty)
	}

	shipping := policy.ShippingCost
	if subtotal >= policy.FreeShippingThreshold {
		shipping = 0
	}

	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal + shipping,
	}
}

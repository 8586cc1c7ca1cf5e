package model

import (
	"encoding/json"
	"math"
	"strings"
)

// ValidateAndDedupe は明細列を検証し、同一キーをマージして返す。
// - ProductIDが空 / 価格が非有限か負 / 数量が1未満の明細は捨てる（例外は投げない）
// - 同一キー (ProductID, Color) は数量を合算して1明細にする。Snapshotは先勝ち
// - 出力順は初出順
// 純粋関数であり、自身の出力に再適用しても結果は変わらない。
func ValidateAndDedupe(lines []CartLine) []CartLine {
	out := make([]CartLine, 0, len(lines))
	index := make(map[LineKey]int, len(lines))

	for _, l := range lines {
		if !validLine(l) {
			continue
		}
		if l.Color == "" {
			l.Color = DefaultColor
		}

		k := l.Key()
		if i, ok := index[k]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		index[k] = len(out)
		out = append(out, l)
	}

	return out
}

func validLine(l CartLine) bool {
	if strings.TrimSpace(l.ProductID) == "" {
		return false
	}
	if math.IsNaN(l.Snapshot.Price) || math.IsInf(l.Snapshot.Price, 0) || l.Snapshot.Price < 0 {
		return false
	}
	if l.Quantity < 1 {
		return false
	}
	return true
}

// DecodeLines はストレージ/リモート由来のJSONを明細列に復元する。
// 過去形式や型の壊れたデータは明細単位で捨てるだけで、エラーは返さない。
// ストレージの破損でUIを落とさないための仕様。
func DecodeLines(data []byte) []CartLine {
	if len(strings.TrimSpace(string(data))) == 0 {
		return []CartLine{}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		// 配列ですらないものは空扱い
		return []CartLine{}
	}

	lines := make([]CartLine, 0, len(raw))
	for _, r := range raw {
		var loose looseLine
		if err := json.Unmarshal(r, &loose); err != nil {
			continue
		}
		lines = append(lines, loose.toCartLine())
	}

	return ValidateAndDedupe(lines)
}

// 型のズレを許容する中間形。数値でないprice/quantityはここで弾かれる。
type looseLine struct {
	ProductID string        `json:"productId"`
	Snapshot  looseSnapshot `json:"productSnapshot"`
	Quantity  any           `json:"quantity"`
	Color     string        `json:"color"`
}

type looseSnapshot struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Price  any      `json:"price"`
	Images []string `json:"images"`
}

func (l looseLine) toCartLine() CartLine {
	return CartLine{
		ProductID: l.ProductID,
		Snapshot: ProductSnapshot{
			ID:     l.Snapshot.ID,
			Name:   l.Snapshot.Name,
			Price:  asPrice(l.Snapshot.Price),
			Images: l.Snapshot.Images,
		},
		Quantity: asQuantity(l.Quantity),
		Color:    l.Color,
	}
}

// 数値以外はNaNにしてvalidLineで落とす
func asPrice(v any) float64 {
	f, ok := v.(float64)
	if !ok {
		return math.NaN()
	}
	return f
}

// 整数でない数量は0にしてvalidLineで落とす（丸めない）
func asQuantity(v any) int64 {
	f, ok := v.(float64)
	if !ok {
		return 0
	}
	if f != math.Trunc(f) {
		return 0
	}
	return int64(f)
}

package model

import "encoding/json"

// 色未指定のときの番兵値
const DefaultColor = "Default"

// ProductSnapshot はカート追加時点の商品情報。
// カタログ側の変更に影響されないよう明細ごとに保持する。
type ProductSnapshot struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Price  float64  `json:"price"`
	Images []string `json:"images"`
}

// カートの明細。一意性は (ProductID, Color)。
type CartLine struct {
	ProductID string          `json:"productId"`
	Snapshot  ProductSnapshot `json:"productSnapshot"`
	Quantity  int64           `json:"quantity"`
	Color     string          `json:"color"`
}

// 明細の同一性キー
type LineKey struct {
	ProductID string
	Color     string
}

func (l CartLine) Key() LineKey {
	color := l.Color
	if color == "" {
		color = DefaultColor
	}
	return LineKey{ProductID: l.ProductID, Color: color}
}

// EncodeLines は明細列をローカル/リモート保存用のJSONにする。
// nilでも必ず配列になる。
func EncodeLines(lines []CartLine) string {
	if lines == nil {
		lines = []CartLine{}
	}
	b, err := json.Marshal(lines)
	if err != nil {
		return "[]"
	}
	return string(b)
}

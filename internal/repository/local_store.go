package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// LocalStore は端末ローカルの永続スロット。
// Loadは失敗しない：欠損・破損は空カートとして返す（ログに残すだけ）。
type LocalStore interface {
	Save(ctx context.Context, lines []model.CartLine) error
	Load(ctx context.Context) []model.CartLine
}

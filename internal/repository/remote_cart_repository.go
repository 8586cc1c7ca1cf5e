package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// RemoteCartRepository はリモート側のカートレコード操作。
// レコードはuserIdの等価検索で引く（レコードidではない）。
// 更新は常に全明細の置き換え（差分送信はしない）。
type RemoteCartRepository interface {
	// 見つからなければErrNotFound
	FetchByUser(ctx context.Context, userID string) (model.RemoteCartRecord, error)
	Create(ctx context.Context, userID string, lines []model.CartLine) (model.RemoteCartRecord, error)
	Update(ctx context.Context, recordID string, lines []model.CartLine) (model.RemoteCartRecord, error)
}

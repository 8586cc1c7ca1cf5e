package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/domain/model"
)

// アプリ固定のスロットキー。identityごとには分けない。
const cartSlotKey = "device_cart"

// LocalStoreGorm はカートスナップショットをローカルDBの1行に保存する。
type LocalStoreGorm struct {
	db  *gorm.DB
	log *zap.Logger
}

// DI
func NewLocalStoreGorm(db *gorm.DB, log *zap.Logger) *LocalStoreGorm {
	return &LocalStoreGorm{db: db, log: log}
}

// Save は検証済み明細列をスロットに上書き保存する。
func (s *LocalStoreGorm) Save(ctx context.Context, lines []model.CartLine) error {
	snap := model.CartSnapshot{
		SlotKey:   cartSlotKey,
		ItemsJSON: model.EncodeLines(lines),
		UpdatedAt: time.Now(),
	}

	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slot_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"items_json", "updated_at"}),
		}).
		Create(&snap).Error
}

// Load はスロットを読み出す。欠損・破損は空カート扱いで、エラーは返さない。
func (s *LocalStoreGorm) Load(ctx context.Context) []model.CartLine {
	var snap model.CartSnapshot

	err := s.db.WithContext(ctx).
		Where("slot_key = ?", cartSlotKey).
		First(&snap).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []model.CartLine{}
	}
	if err != nil {
		s.log.Warn("ローカルカートの読み出しに失敗", zap.Error(err))
		return []model.CartLine{}
	}

	// 壊れたJSONはDecodeLinesが明細単位で捨てる
	return model.DecodeLines([]byte(snap.ItemsJSON))
}

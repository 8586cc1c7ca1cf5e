package model

import "time"

// 端末ローカルのカート保存スロット。slot_key固定で常に1行。
// 「この端末で最後に見たカート」をidentityに関係なく保持する。
type CartSnapshot struct {
	SlotKey   string    `gorm:"primaryKey;type:varchar(64)" json:"slot_key"`
	ItemsJSON string    `gorm:"type:text;not null;column:items_json" json:"items_json"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

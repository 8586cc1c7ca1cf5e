package db

import (
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Connect はローカル保存用のDBに接続して *gorm.DB を返す。
// DATABASE_URL があれば最優先でPostgresを使う（店舗サーバー構成向け）。
// 通常は端末内のSQLiteファイル。
func Connect(sqlitePath string) (*gorm.DB, error) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	if sqlitePath == "" {
		sqlitePath = "storefront.db"
	}
	return gorm.Open(sqlite.Open(sqlitePath), &gorm.Config{})
}

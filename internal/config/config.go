package config

import (
	"fmt"
	"os"
	"strconv"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	SQLitePath  string // ローカル保存のSQLiteファイル
	DatabaseURL string // 指定されていればPostgresを使う（店舗サーバー構成）

	FirestoreProjectID      string // GCPプロジェクト
	FirebaseCredentialsFile string // サービスアカウント。空ならADC

	JWTSecret         string // セッショントークン署名シークレット
	SessionTTLMinutes int    // セッショントークンの有効期間

	FreeShippingThreshold float64 // これ以上で送料無料
	ShippingCost          float64 // 送料
	CartDebounceMillis    int     // リモート書き込みのデバウンス窓
	CatalogCacheTTLSecs   int     // カタログキャッシュTTL

	GoEnv string // dev/prod
}

// Loadは環境変数
func Load() (Config, error) {
	cfg := Config{
		Port: os.Getenv("PORT"),

		SQLitePath:  getenv("SQLITE_PATH", "storefront.db"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		FirestoreProjectID:      os.Getenv("FIRESTORE_PROJECT_ID"),
		FirebaseCredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		GoEnv: os.Getenv("GO_ENV"),
	}

	var err error
	if cfg.SessionTTLMinutes, err = atoiOr("SESSION_TTL_MINUTES", 60); err != nil {
		return Config{}, err
	}
	if cfg.FreeShippingThreshold, err = atofOr("FREE_SHIPPING_THRESHOLD", 100); err != nil {
		return Config{}, err
	}
	if cfg.ShippingCost, err = atofOr("SHIPPING_COST", 10); err != nil {
		return Config{}, err
	}
	if cfg.CartDebounceMillis, err = atoiOr("CART_DEBOUNCE_MS", 1000); err != nil {
		return Config{}, err
	}
	if cfg.CatalogCacheTTLSecs, err = atoiOr("CATALOG_CACHE_TTL_SECONDS", 300); err != nil {
		return Config{}, err
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.FirestoreProjectID == "" {
		return Config{}, fmt.Errorf("FIRESTORE_PROJECT_ID is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.GoEnv == "" {
		return Config{}, fmt.Errorf("GO_ENV is required")
	}

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiOr(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func atofOr(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return f, nil
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/handler"
	"storefront/internal/identity"
	"storefront/internal/infra/db"
	fbinfra "storefront/internal/infra/firebase"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/server"
	"storefront/internal/usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type jwtIssuer struct {
	secret []byte
	ttl    time.Duration
}

func (i *jwtIssuer) Issue(userID string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.ttl)

	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	// .envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg.GoEnv)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//ローカル保存のDB
	gormDB, err := db.Connect(cfg.SQLitePath)
	if err != nil {
		logger.Fatal("ローカルDB接続に失敗", zap.Error(err))
	}
	if err := gormDB.AutoMigrate(&model.CartSnapshot{}); err != nil {
		logger.Fatal("マイグレーションに失敗", zap.Error(err))
	}

	//リモート側クライアント（Firestore / Firebase Auth）
	clients, err := fbinfra.NewClients(ctx, cfg.FirestoreProjectID, cfg.FirebaseCredentialsFile)
	if err != nil {
		logger.Fatal("Firebase初期化に失敗", zap.Error(err))
	}
	defer clients.Close()

	//Repository生成
	localStore := infraRepo.NewLocalStoreGorm(gormDB, logger)
	remoteCarts := infraRepo.NewRemoteCartFirestore(clients.Firestore)
	products := infraRepo.NewProductFirestore(clients.Firestore)

	//identityイベント源と同期エンジン
	idents := identity.NewBroadcaster()
	syncer := usecase.NewCartSynchronizer(
		localStore,
		remoteCarts,
		time.Duration(cfg.CartDebounceMillis)*time.Millisecond,
		logger,
	)

	// 購読時に現在値（ゲスト）が即時通知され、最初のInitial Loadが走る
	idents.Subscribe(func(id identity.Identity) {
		syncer.OnIdentityChanged(context.Background(), id)
	})

	//Usecase生成
	policy := model.ShippingPolicy{
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		ShippingCost:          cfg.ShippingCost,
	}
	cartUC := usecase.NewCartUsecase(syncer, policy, logger)

	cacheTTL := time.Duration(cfg.CatalogCacheTTLSecs) * time.Second
	catalogUC := usecase.NewCatalogUsecase(
		products,
		cache.New[[]model.Product](cacheTTL),
		cache.New[model.Product](cacheTTL),
	)

	issuer := &jwtIssuer{
		secret: []byte(cfg.JWTSecret),
		ttl:    time.Duration(cfg.SessionTTLMinutes) * time.Minute,
	}
	verifier := identity.NewFirebaseVerifier(clients.Auth)
	sessionUC := usecase.NewSessionUsecase(verifier, idents, issuer, nil)

	//Handler生成
	cartH := handler.NewCartHandler(cartUC)
	productH := handler.NewProductHandler(catalogUC)
	sessionH := handler.NewSessionHandler(sessionUC)
	checkoutH := handler.NewCheckoutHandler(cartUC)

	//Server起動
	e := server.New(cfg, cartH, productH, sessionH, checkoutH)

	addr := ":8080"
	if v := cfg.Port; v != "" {
		if v[0] != ':' {
			addr = ":" + v
		} else {
			addr = v
		}
	}

	go func() {
		if err := e.Start(addr); err != nil {
			logger.Info("サーバー停止", zap.Error(err))
		}
	}()

	<-ctx.Done()

	//停止時：HTTPを閉じてから、保留中のリモート書き込みをフラッシュ
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTPのシャットダウンに失敗", zap.Error(err))
	}
	syncer.Shutdown(shutdownCtx)
}

func newLogger(goEnv string) (*zap.Logger, error) {
	if goEnv == "dev" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"storefront/internal/identity"
)

// セッショントークンの発行者（実装はmainでJWTに束ねる）
type TokenIssuer interface {
	Issue(userID string, now time.Time) (token string, expiresAt time.Time, err error)
}

// SessionUsecase はUIのログイン/ログアウトをidentityイベントに変換する。
// 資格情報そのものは扱わない（Firebase Authが持つ）。
type SessionUsecase struct {
	verifier identity.TokenVerifier
	idents   *identity.Broadcaster
	issuer   TokenIssuer
	clock    func() time.Time
}

// DI
func NewSessionUsecase(
	verifier identity.TokenVerifier,
	idents *identity.Broadcaster,
	issuer TokenIssuer,
	clock func() time.Time,
) *SessionUsecase {
	if clock == nil {
		clock = time.Now
	}
	return &SessionUsecase{
		verifier: verifier,
		idents:   idents,
		issuer:   issuer,
		clock:    clock,
	}
}

type LoginOutput struct {
	UserID      string    `json:"user_id"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Login はFirebaseのIDトークンを検証し、セッショントークンを発行して
// identity変更イベントを流す。検証に失敗したらイベントは流さない。
func (u *SessionUsecase) Login(ctx context.Context, idToken string) (LoginOutput, error) {
	if strings.TrimSpace(idToken) == "" {
		return LoginOutput{}, NewHTTPError(http.StatusBadRequest, "invalid token")
	}

	ident, err := u.verifier.Verify(ctx, idToken)
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	access, expiresAt, err := u.issuer.Issue(ident.UserID, u.clock())
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "token error")
	}

	u.idents.Set(ident)

	return LoginOutput{
		UserID:      ident.UserID,
		AccessToken: access,
		ExpiresAt:   expiresAt,
	}, nil
}

// Logout はゲストに戻す。端末のカートは消さない。
func (u *SessionUsecase) Logout(ctx context.Context) error {
	u.idents.Set(identity.Identity{})
	return nil
}

// Current は現在のidentityを返す。
func (u *SessionUsecase) Current() identity.Identity {
	return u.idents.Current()
}

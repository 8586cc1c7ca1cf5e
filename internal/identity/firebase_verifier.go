package identity

import (
	"context"
	"errors"

	firebaseauth "firebase.google.com/go/v4/auth"
)

// TokenVerifier はUIから渡されたIDトークンを検証してIdentityに変える。
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (Identity, error)
}

// FirebaseVerifier はFirebase AuthのIDトークン検証。
type FirebaseVerifier struct {
	auth *firebaseauth.Client
}

func NewFirebaseVerifier(auth *firebaseauth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{auth: auth}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (Identity, error) {
	if v == nil || v.auth == nil {
		return Identity{}, errors.New("firebase verifier: auth client is nil")
	}

	tok, err := v.auth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return Identity{}, err
	}
	return Identity{UserID: tok.UID}, nil
}

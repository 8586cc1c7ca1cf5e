package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// Clients はリモート側の外部クライアントをまとめて持つ。
// Firestore（カート/カタログ）とFirebase Auth（IDトークン検証）。
type Clients struct {
	Firestore *firestore.Client
	Auth      *firebaseauth.Client
}

// NewClients はクライアントを初期化する。
// credentialsFileが空ならADC（Application Default Credentials）を使う。
func NewClients(ctx context.Context, projectID string, credentialsFile string) (*Clients, error) {
	if projectID == "" {
		return nil, fmt.Errorf("firebase: projectID is empty")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase: new app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: auth client: %w", err)
	}

	fsClient, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase: firestore client: %w", err)
	}

	return &Clients{Firestore: fsClient, Auth: authClient}, nil
}

func (c *Clients) Close() error {
	if c == nil || c.Firestore == nil {
		return nil
	}
	return c.Firestore.Close()
}

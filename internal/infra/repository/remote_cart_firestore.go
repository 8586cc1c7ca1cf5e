package repository

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

const cartsCollection = "carts"

// RemoteCartFirestore はFirestore実装のRemoteCartRepository。
//
// コレクション設計:
// - collection: carts
// - docId: 生成uuid
// - fields: userId, itemsJson, updatedAt
// - 検索はuserIdの等価クエリ（1ユーザー1レコード）
type RemoteCartFirestore struct {
	client *firestore.Client
}

func NewRemoteCartFirestore(client *firestore.Client) *RemoteCartFirestore {
	return &RemoteCartFirestore{client: client}
}

func (r *RemoteCartFirestore) col() *firestore.CollectionRef {
	return r.client.Collection(cartsCollection)
}

type remoteCartDoc struct {
	UserID    string    `firestore:"userId"`
	ItemsJSON string    `firestore:"itemsJson"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

// FetchByUser はuserIdの等価検索で1件引く。無ければrepo.ErrNotFound。
func (r *RemoteCartFirestore) FetchByUser(ctx context.Context, userID string) (model.RemoteCartRecord, error) {
	if r == nil || r.client == nil {
		return model.RemoteCartRecord{}, errors.New("remote_cart_firestore: firestore client is nil")
	}
	if userID == "" {
		return model.RemoteCartRecord{}, errors.New("remote_cart_firestore: userID is empty")
	}

	it := r.col().Where("userId", "==", userID).Limit(1).Documents(ctx)
	defer it.Stop()

	snap, err := it.Next()
	if err == iterator.Done {
		return model.RemoteCartRecord{}, repo.ErrNotFound
	}
	if err != nil {
		return model.RemoteCartRecord{}, err
	}

	return recordFromSnapshot(snap), nil
}

// Create はユーザーのレコードを新規作成する（docIdはuuid）。
func (r *RemoteCartFirestore) Create(ctx context.Context, userID string, lines []model.CartLine) (model.RemoteCartRecord, error) {
	if r == nil || r.client == nil {
		return model.RemoteCartRecord{}, errors.New("remote_cart_firestore: firestore client is nil")
	}
	if userID == "" {
		return model.RemoteCartRecord{}, errors.New("remote_cart_firestore: userID is empty")
	}

	doc := remoteCartDoc{
		UserID:    userID,
		ItemsJSON: model.EncodeLines(lines),
		UpdatedAt: time.Now().UTC(),
	}

	id := uuid.NewString()
	if _, err := r.col().Doc(id).Set(ctx, doc); err != nil {
		return model.RemoteCartRecord{}, err
	}

	return model.RemoteCartRecord{ID: id, UserID: userID, ItemsJSON: doc.ItemsJSON}, nil
}

// Update は全明細の置き換え。差分ではなくitemsJsonごと書き換える。
func (r *RemoteCartFirestore) Update(ctx context.Context, recordID string, lines []model.CartLine) (model.RemoteCartRecord, error) {
	if r == nil || r.client == nil {
		return model.RemoteCartRecord{}, errors.New("remote_cart_firestore: firestore client is nil")
	}
	if recordID == "" {
		return model.RemoteCartRecord{}, errors.New("remote_cart_firestore: recordID is empty")
	}

	itemsJSON := model.EncodeLines(lines)
	_, err := r.col().Doc(recordID).Update(ctx, []firestore.Update{
		{Path: "itemsJson", Value: itemsJSON},
		{Path: "updatedAt", Value: time.Now().UTC()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return model.RemoteCartRecord{}, repo.ErrNotFound
		}
		return model.RemoteCartRecord{}, err
	}

	return model.RemoteCartRecord{ID: recordID, ItemsJSON: itemsJSON}, nil
}

// recordFromSnapshot は型のずれた古いdocにも耐えるよう防御的に読む。
// 壊れたitemsJsonは下流のDecodeLinesが明細単位で捨てる。
func recordFromSnapshot(snap *firestore.DocumentSnapshot) model.RemoteCartRecord {
	rec := model.RemoteCartRecord{ID: snap.Ref.ID}

	raw := snap.Data()
	if raw == nil {
		return rec
	}
	if v, ok := raw["userId"].(string); ok {
		rec.UserID = v
	}
	if v, ok := raw["itemsJson"].(string); ok {
		rec.ItemsJSON = v
	}
	return rec
}

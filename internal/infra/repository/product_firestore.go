package repository

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

const productsCollection = "products"

// ProductFirestore はカタログ読み出し。書き込みはこのサービスの範囲外。
type ProductFirestore struct {
	client *firestore.Client
}

func NewProductFirestore(client *firestore.Client) *ProductFirestore {
	return &ProductFirestore{client: client}
}

func (r *ProductFirestore) col() *firestore.CollectionRef {
	return r.client.Collection(productsCollection)
}

// 公開中の商品を一覧する
func (r *ProductFirestore) ListActive(ctx context.Context) ([]model.Product, error) {
	if r == nil || r.client == nil {
		return nil, errors.New("product_firestore: firestore client is nil")
	}

	it := r.col().Where("isActive", "==", true).Documents(ctx)
	defer it.Stop()

	products := []model.Product{}
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var p model.Product
		if err := snap.DataTo(&p); err != nil {
			// 形の壊れたdocは飛ばす
			continue
		}
		p.ID = snap.Ref.ID
		products = append(products, p)
	}

	return products, nil
}

func (r *ProductFirestore) FindByID(ctx context.Context, productID string) (model.Product, error) {
	if r == nil || r.client == nil {
		return model.Product{}, errors.New("product_firestore: firestore client is nil")
	}
	if productID == "" {
		return model.Product{}, repo.ErrNotFound
	}

	snap, err := r.col().Doc(productID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return model.Product{}, repo.ErrNotFound
		}
		return model.Product{}, err
	}

	var p model.Product
	if err := snap.DataTo(&p); err != nil {
		return model.Product{}, err
	}
	p.ID = snap.Ref.ID
	return p, nil
}

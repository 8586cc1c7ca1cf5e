package model

// カタログの商品。Firestoreの products コレクションに対応。
type Product struct {
	ID          string   `json:"id" firestore:"-"`
	Name        string   `json:"name" firestore:"name"`
	Description string   `json:"description" firestore:"description"`
	Price       float64  `json:"price" firestore:"price"`
	Images      []string `json:"images" firestore:"images"`
	Colors      []string `json:"colors" firestore:"colors"`
	IsActive    bool     `json:"is_active" firestore:"isActive"`
}

// Snapshot はカート明細に埋め込む形に落とす。
func (p Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ID:     p.ID,
		Name:   p.Name,
		Price:  p.Price,
		Images: p.Images,
	}
}

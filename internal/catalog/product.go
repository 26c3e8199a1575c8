package catalog

import (
	"context"
	"time"
)

// Product is a single catalog item. Reads are public (storefront), every
// mutation requires an authenticated admin.
type Product struct {
	ID            int       `json:"id"`
	Name          string    `json:"nombre"`
	Price         float64   `json:"precio"`
	Category      string    `json:"categoria"`
	Stock         int       `json:"stock"`
	ImageURL      string    `json:"imagen,omitempty"`
	NewCollection bool      `json:"nueva_coleccion"`
	CreatedAt     time.Time `json:"created_at"`
}

type Api interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id int) (*Product, error)
	Add(ctx context.Context, product Product) (*Product, error)
	Update(ctx context.Context, product Product) (*Product, error)
	Delete(ctx context.Context, id int) error
}

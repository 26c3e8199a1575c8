package catalog

import (
	"context"
	"time"
)

type mockRepo struct {
	Products []Product
	nextID   int
}

func NewMockProductsRepo() *mockRepo {
	return &mockRepo{
		Products: make([]Product, 0),
		nextID:   1,
	}
}

func (m *mockRepo) List(_ context.Context) ([]Product, error) {
	return m.Products, nil
}

func (m *mockRepo) Get(_ context.Context, id int) (*Product, error) {
	for i := range m.Products {
		if m.Products[i].ID == id {
			return &m.Products[i], nil
		}
	}
	return nil, ErrProductNotFound
}

func (m *mockRepo) Add(_ context.Context, product Product) (*Product, error) {
	product.ID = m.nextID
	product.CreatedAt = time.Now()
	m.nextID++
	m.Products = append(m.Products, product)
	return &product, nil
}

func (m *mockRepo) Update(_ context.Context, product Product) (*Product, error) {
	for i := range m.Products {
		if m.Products[i].ID == product.ID {
			product.CreatedAt = m.Products[i].CreatedAt
			m.Products[i] = product
			return &m.Products[i], nil
		}
	}
	return nil, ErrProductNotFound
}

func (m *mockRepo) Delete(_ context.Context, id int) error {
	for i, product := range m.Products {
		if product.ID == id {
			m.Products = append(m.Products[:i], m.Products[i+1:]...)
			return nil
		}
	}
	return ErrProductNotFound
}

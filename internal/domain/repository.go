package domain

import "context"

// ProductStore is the only component allowed to address the products table.
// Every method is a round-trip to the store; failures come back as *StoreError.
type ProductStore interface {
	Create(ctx context.Context, product NewProduct) (*Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)

	ListAll(ctx context.Context) ([]Product, error)
	ListFiltered(ctx context.Context, filter ProductFilter) ([]Product, error)

	Update(ctx context.Context, id string, patch ProductPatch) (*Product, error)

	Delete(ctx context.Context, id string) error
}

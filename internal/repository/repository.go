package repository

import (
	"context"

	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/domain"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/query"
)

// ProductRepository is the storage contract shared by the file-backed and
// MongoDB-backed product stores. Every method is safe for concurrent use.
type ProductRepository interface {
	// List returns one page of products matching the params
	List(ctx context.Context, params query.Params) (*query.Page, error)
	// GetAll returns every product in storage order
	GetAll(ctx context.Context) ([]*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	// Add stores the product and sets its ID. It fails with a conflict
	// error when the code is already taken.
	Add(ctx context.Context, product *domain.Product) error
	// Update merges the supplied fields over the stored product. The id
	// is never changed; a code already used by another product is a conflict.
	Update(ctx context.Context, id string, in *domain.ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// CartRepository is the storage contract for carts. Line item operations
// are atomic per cart.
type CartRepository interface {
	Create(ctx context.Context) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	// AddItem increments the line item for productID, appending it when absent
	AddItem(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error)
	// SetQuantity overwrites the quantity of an existing line item
	SetQuantity(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error)
	// RemoveItem drops the line item if present; absence is not an error
	RemoveItem(ctx context.Context, cartID, productID string) (*domain.Cart, error)
	ReplaceItems(ctx context.Context, cartID string, items []domain.LineItem) (*domain.Cart, error)
	Empty(ctx context.Context, cartID string) (*domain.Cart, error)
}

package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/domain"
)

// CartsFile is the name of the cart document inside the data directory
const CartsFile = "carts.json"

type fileCartRepository struct {
	doc   *jsonFile[*domain.Cart]
	mutex sync.RWMutex
}

// NewFileCartRepository returns a sequential-scan cart store backed by
// dir/carts.json. The file is created when missing.
func NewFileCartRepository(dir string) (CartRepository, error) {
	doc, err := newJSONFile[*domain.Cart](dir, CartsFile)
	if err != nil {
		return nil, err
	}
	return &fileCartRepository{doc: doc}, nil
}

func (r *fileCartRepository) Create(ctx context.Context) (*domain.Cart, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	carts, err := r.doc.read()
	if err != nil {
		return nil, err
	}

	cart := &domain.Cart{ID: uuid.NewString(), Products: []domain.LineItem{}}
	if err := r.doc.write(append(carts, cart)); err != nil {
		return nil, err
	}
	return cart.Clone(), nil
}

func (r *fileCartRepository) GetByID(ctx context.Context, id string) (*domain.Cart, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	carts, err := r.doc.read()
	if err != nil {
		return nil, err
	}

	for _, c := range carts {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, domain.NewNotFoundError("cart", id)
}

func (r *fileCartRepository) AddItem(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error) {
	return r.mutate(cartID, func(c *domain.Cart) error {
		return c.Add(productID, quantity)
	})
}

func (r *fileCartRepository) SetQuantity(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error) {
	return r.mutate(cartID, func(c *domain.Cart) error {
		i := c.IndexOf(productID)
		if i == -1 {
			return domain.NewNotFoundError("line item", productID)
		}
		c.Products[i].Quantity = quantity
		return nil
	})
}

func (r *fileCartRepository) RemoveItem(ctx context.Context, cartID, productID string) (*domain.Cart, error) {
	return r.mutate(cartID, func(c *domain.Cart) error {
		c.Remove(productID)
		return nil
	})
}

func (r *fileCartRepository) ReplaceItems(ctx context.Context, cartID string, items []domain.LineItem) (*domain.Cart, error) {
	return r.mutate(cartID, func(c *domain.Cart) error {
		merged, err := domain.MergeLineItems(items)
		if err != nil {
			return err
		}
		c.Products = merged
		return nil
	})
}

func (r *fileCartRepository) Empty(ctx context.Context, cartID string) (*domain.Cart, error) {
	return r.mutate(cartID, func(c *domain.Cart) error {
		c.Products = []domain.LineItem{}
		return nil
	})
}

// mutate applies fn to the cart inside the store's critical section and
// persists the result. Nothing is written when fn fails.
func (r *fileCartRepository) mutate(cartID string, fn func(c *domain.Cart) error) (*domain.Cart, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	carts, err := r.doc.read()
	if err != nil {
		return nil, err
	}

	for i, c := range carts {
		if c.ID != cartID {
			continue
		}

		updated := c.Clone()
		if err := fn(updated); err != nil {
			return nil, err
		}

		carts[i] = updated
		if err := r.doc.write(carts); err != nil {
			return nil, err
		}
		return updated.Clone(), nil
	}

	return nil, domain.NewNotFoundError("cart", cartID)
}

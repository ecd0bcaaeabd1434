package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/domain"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/query"
)

// ProductsFile is the name of the product document inside the data directory
const ProductsFile = "products.json"

type fileProductRepository struct {
	doc   *jsonFile[*domain.Product]
	mutex sync.RWMutex
}

// NewFileProductRepository returns a sequential-scan product store backed
// by dir/products.json. The file is created when missing.
func NewFileProductRepository(dir string) (ProductRepository, error) {
	doc, err := newJSONFile[*domain.Product](dir, ProductsFile)
	if err != nil {
		return nil, err
	}
	return &fileProductRepository{doc: doc}, nil
}

func (r *fileProductRepository) List(ctx context.Context, params query.Params) (*query.Page, error) {
	products, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return query.Apply(products, params), nil
}

func (r *fileProductRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.doc.read()
}

func (r *fileProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	products, err := r.doc.read()
	if err != nil {
		return nil, err
	}

	if i := indexOfProduct(products, id); i >= 0 {
		return products[i], nil
	}
	return nil, domain.NewNotFoundError("product", id)
}

func (r *fileProductRepository) Add(ctx context.Context, product *domain.Product) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	products, err := r.doc.read()
	if err != nil {
		return err
	}

	if codeTaken(products, product.Code, "") {
		return duplicateCode(product.Code)
	}

	product.ID = uuid.NewString()
	if product.Thumbnails == nil {
		product.Thumbnails = []string{}
	}

	return r.doc.write(append(products, product.Clone()))
}

func (r *fileProductRepository) Update(ctx context.Context, id string, in *domain.ProductInput) (*domain.Product, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	products, err := r.doc.read()
	if err != nil {
		return nil, err
	}

	i := indexOfProduct(products, id)
	if i == -1 {
		return nil, domain.NewNotFoundError("product", id)
	}

	updated := products[i].Clone()
	in.ApplyTo(updated)
	updated.ID = id

	if in.Code != nil && codeTaken(products, updated.Code, id) {
		return nil, duplicateCode(updated.Code)
	}

	products[i] = updated
	if err := r.doc.write(products); err != nil {
		return nil, err
	}
	return updated.Clone(), nil
}

func (r *fileProductRepository) Delete(ctx context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	products, err := r.doc.read()
	if err != nil {
		return err
	}

	i := indexOfProduct(products, id)
	if i == -1 {
		return domain.NewNotFoundError("product", id)
	}

	return r.doc.write(append(products[:i], products[i+1:]...))
}

func indexOfProduct(products []*domain.Product, id string) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// codeTaken reports whether a product other than exceptID uses code
func codeTaken(products []*domain.Product, code, exceptID string) bool {
	for _, p := range products {
		if p.Code == code && p.ID != exceptID {
			return true
		}
	}
	return false
}

func duplicateCode(code string) error {
	return domain.NewConflictError("code", "the code %q already exists for another product", code)
}

package service

import (
	"context"

	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/domain"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/repository"
	"github.com/shopspring/decimal"
)

type CartService interface {
	CreateCart(ctx context.Context) (*domain.Cart, error)
	GetCart(ctx context.Context, id string) (*domain.Cart, error)
	// GetCartView returns the cart joined against current product data
	GetCartView(ctx context.Context, id string) (*CartView, error)
	AddProduct(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error)
	SetQuantity(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error)
	RemoveProduct(ctx context.Context, cartID, productID string) (*domain.Cart, error)
	ReplaceProducts(ctx context.Context, cartID string, items []domain.LineItem) (*domain.Cart, error)
	EmptyCart(ctx context.Context, cartID string) (*domain.Cart, error)
}

// CartLine is a line item resolved against the catalog. A line whose
// product no longer exists is kept with Missing set, no Item and a zero
// subtotal.
type CartLine struct {
	Product  string          `json:"product"`
	Quantity int             `json:"quantity"`
	Item     *domain.Product `json:"item"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Missing  bool            `json:"missing"`
}

// CartView is the populated form of a cart
type CartView struct {
	ID       string          `json:"id"`
	Products []CartLine      `json:"products"`
	Total    decimal.Decimal `json:"total"`
}

type cartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	logger   hclog.Logger
}

func NewCartService(
	carts repository.CartRepository,
	products repository.ProductRepository,
	logger hclog.Logger) CartService {
	return &cartService{carts: carts, products: products, logger: logger}
}

func (s *cartService) CreateCart(ctx context.Context) (*domain.Cart, error) {
	cart, err := s.carts.Create(ctx)
	if err != nil {
		s.logger.Error("Unable to create cart", "error", err)
		return nil, err
	}

	s.logger.Debug("Cart created", "id", cart.ID)
	return cart, nil
}

func (s *cartService) GetCart(ctx context.Context, id string) (*domain.Cart, error) {
	s.logger.Debug("Getting cart", "id", id)

	cart, err := s.carts.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Unable to get cart", "id", id, "error", err)
		return nil, err
	}
	return cart, nil
}

func (s *cartService) GetCartView(ctx context.Context, id string) (*CartView, error) {
	cart, err := s.GetCart(ctx, id)
	if err != nil {
		return nil, err
	}

	products, err := s.products.GetAll(ctx)
	if err != nil {
		s.logger.Error("Unable to read products for cart", "id", id, "error", err)
		return nil, err
	}

	byID := make(map[string]*domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	view := &CartView{ID: cart.ID, Products: make([]CartLine, 0, len(cart.Products)), Total: decimal.Zero}
	for _, item := range cart.Products {
		line := CartLine{Product: item.Product, Quantity: item.Quantity, Subtotal: decimal.Zero}

		product, ok := byID[item.Product]
		if !ok {
			s.logger.Warn("Cart references a missing product", "cart", cart.ID, "product", item.Product)
			line.Missing = true
			view.Products = append(view.Products, line)
			continue
		}

		line.Item = product
		line.Subtotal = decimal.NewFromFloat(product.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		view.Total = view.Total.Add(line.Subtotal)
		view.Products = append(view.Products, line)
	}

	return view, nil
}

// AddProduct rejects unknown products before touching the cart store
func (s *cartService) AddProduct(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error) {
	s.logger.Debug("Adding product to cart", "cart", cartID, "product", productID, "quantity", quantity)

	if quantity < 1 || quantity > domain.MaxQuantity {
		return nil, domain.NewValidationError("quantity", "quantity must be a positive integer no larger than %d", domain.MaxQuantity)
	}

	if _, err := s.products.GetByID(ctx, productID); err != nil {
		s.logger.Error("Unable to add product to cart", "cart", cartID, "product", productID, "error", err)
		return nil, err
	}

	cart, err := s.carts.AddItem(ctx, cartID, productID, quantity)
	if err != nil {
		s.logger.Error("Unable to add product to cart", "cart", cartID, "product", productID, "error", err)
		return nil, err
	}
	return cart, nil
}

func (s *cartService) SetQuantity(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error) {
	s.logger.Debug("Setting line item quantity", "cart", cartID, "product", productID, "quantity", quantity)

	if quantity < 1 || quantity > domain.MaxQuantity {
		return nil, domain.NewValidationError("quantity", "quantity must be a positive integer no larger than %d", domain.MaxQuantity)
	}

	cart, err := s.carts.SetQuantity(ctx, cartID, productID, quantity)
	if err != nil {
		s.logger.Error("Unable to set quantity", "cart", cartID, "product", productID, "error", err)
		return nil, err
	}
	return cart, nil
}

func (s *cartService) RemoveProduct(ctx context.Context, cartID, productID string) (*domain.Cart, error) {
	s.logger.Debug("Removing product from cart", "cart", cartID, "product", productID)

	cart, err := s.carts.RemoveItem(ctx, cartID, productID)
	if err != nil {
		s.logger.Error("Unable to remove product from cart", "cart", cartID, "product", productID, "error", err)
		return nil, err
	}
	return cart, nil
}

// ReplaceProducts validates every item against the catalog before the
// cart's line items are swapped out in one write
func (s *cartService) ReplaceProducts(ctx context.Context, cartID string, items []domain.LineItem) (*domain.Cart, error) {
	s.logger.Debug("Replacing cart products", "cart", cartID, "items", len(items))

	products, err := s.products.GetAll(ctx)
	if err != nil {
		s.logger.Error("Unable to read products for cart", "cart", cartID, "error", err)
		return nil, err
	}

	known := make(map[string]struct{}, len(products))
	for _, p := range products {
		known[p.ID] = struct{}{}
	}

	for i, item := range items {
		if item.Product == "" {
			return nil, domain.NewValidationError("products", "products[%d] is missing a product reference", i)
		}
		if item.Quantity < 1 || item.Quantity > domain.MaxQuantity {
			return nil, domain.NewValidationError("products", "products[%d] quantity must be a positive integer no larger than %d", i, domain.MaxQuantity)
		}
		if _, ok := known[item.Product]; !ok {
			return nil, domain.NewValidationError("products", "products[%d] references a nonexistent product: %s", i, item.Product)
		}
	}

	cart, err := s.carts.ReplaceItems(ctx, cartID, items)
	if err != nil {
		s.logger.Error("Unable to replace cart products", "cart", cartID, "error", err)
		return nil, err
	}
	return cart, nil
}

func (s *cartService) EmptyCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	s.logger.Debug("Emptying cart", "cart", cartID)

	cart, err := s.carts.Empty(ctx, cartID)
	if err != nil {
		s.logger.Error("Unable to empty cart", "cart", cartID, "error", err)
		return nil, err
	}
	return cart, nil
}

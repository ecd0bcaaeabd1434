package service

import (
	"context"

	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/broadcast"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/domain"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/events"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/query"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/repository"
)

// Notifier is told about every successful catalog mutation
type Notifier interface {
	CatalogChanged(ctx context.Context, src broadcast.Source)
}

// EventPublisher receives a domain event for every successful mutation
type EventPublisher interface {
	Publish(event events.ProductEvent)
}

type ProductService interface {
	ListProducts(ctx context.Context, params query.Params) (*query.Page, error)
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	GetAllProducts(ctx context.Context) ([]*domain.Product, error)
	CreateProduct(ctx context.Context, in *domain.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, in *domain.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	// AddThumbnail appends a thumbnail URL to the product
	AddThumbnail(ctx context.Context, id, url string) (*domain.Product, error)
}

type productService struct {
	repo      repository.ProductRepository
	validator *domain.Validation
	notifier  Notifier
	events    EventPublisher
	logger    hclog.Logger
}

func NewProductService(
	repo repository.ProductRepository,
	notifier Notifier,
	publisher EventPublisher,
	logger hclog.Logger) ProductService {
	return &productService{
		repo:      repo,
		validator: domain.NewValidation(),
		notifier:  notifier,
		events:    publisher,
		logger:    logger,
	}
}

func (s *productService) ListProducts(ctx context.Context, params query.Params) (*query.Page, error) {
	params = params.Normalize()
	s.logger.Debug("Listing products", "query", params.Query, "sort", params.Sort, "page", params.Page, "limit", params.Limit)

	page, err := s.repo.List(ctx, params)
	if err != nil {
		s.logger.Error("Unable to list products", "error", err)
		return nil, err
	}
	return page, nil
}

func (s *productService) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	s.logger.Debug("Getting product by ID", "id", id)

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Unable to get the product by ID", "id", id, "error", err)
		return nil, err
	}
	return product, nil
}

func (s *productService) GetAllProducts(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("Unable to get products", "error", err)
		return nil, err
	}
	return products, nil
}

func (s *productService) CreateProduct(ctx context.Context, in *domain.ProductInput) (*domain.Product, error) {
	if field := in.MissingField(); field != "" {
		return nil, domain.NewValidationError(field, "Missing required field: %s", field)
	}

	product := in.NewProduct()
	s.logger.Debug("Adding new product", "code", product.Code)

	if err := s.validator.ValidateProduct(product); err != nil {
		return nil, err
	}

	if err := s.repo.Add(ctx, product); err != nil {
		s.logger.Error("Unable to add product", "code", product.Code, "error", err)
		return nil, err
	}

	s.changed(ctx, events.ProductCreated, product.ID, product)
	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id string, in *domain.ProductInput) (*domain.Product, error) {
	s.logger.Debug("Updating product", "id", id)

	if in.ThumbnailsMalformed {
		return nil, domain.NewValidationError("thumbnails", "thumbnails must be a list of text values")
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Unable to find product to update", "id", id, "error", err)
		return nil, err
	}

	// validate the merged record before anything is written
	merged := current.Clone()
	in.ApplyTo(merged)
	if err := s.validator.ValidateProduct(merged); err != nil {
		return nil, err
	}

	product, err := s.repo.Update(ctx, id, in)
	if err != nil {
		s.logger.Error("Unable to update product", "id", id, "error", err)
		return nil, err
	}

	s.changed(ctx, events.ProductUpdated, id, product)
	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	s.logger.Debug("Deleting product", "id", id)

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Unable to find product to delete", "id", id, "error", err)
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Unable to delete product", "id", id, "error", err)
		return err
	}

	s.changed(ctx, events.ProductDeleted, id, product)
	return nil
}

func (s *productService) AddThumbnail(ctx context.Context, id, url string) (*domain.Product, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	thumbnails := append(append([]string{}, current.Thumbnails...), url)
	return s.UpdateProduct(ctx, id, &domain.ProductInput{Thumbnails: thumbnails, HasThumbnails: true})
}

// changed pushes the new catalog to realtime sessions and emits the domain event
func (s *productService) changed(ctx context.Context, t events.Type, id string, product *domain.Product) {
	if s.notifier != nil {
		s.notifier.CatalogChanged(ctx, s)
	}
	if s.events != nil {
		s.events.Publish(events.ProductEvent{Type: t, ProductID: id, Product: product.Clone()})
	}
}

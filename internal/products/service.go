package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/huntboard/huntboard/internal/platform/httpx"
)

// Service handles product business logic.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a new product, applying catalog defaults.
func (s *Service) Create(ctx context.Context, createdBy int64, req CreateProductRequest) (*Product, error) {
	if req.Price <= 0 {
		return nil, fmt.Errorf("%w: Price must be a positive number", httpx.ErrValidation)
	}

	colors := req.Colors
	if len(colors) == 0 {
		colors = []string{"black"}
	}
	image := req.Image
	if image == "" {
		image = DefaultImage
	}

	product := Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Company:     req.Company,
		Colors:      colors,
		Image:       image,
		Featured:    req.Featured,
		CreatedBy:   createdBy,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return created, nil
}

// Get returns a single product.
func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	product, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, fmt.Errorf("%w: no product with id %d", httpx.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

// List returns all products.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

// Update applies the allow-listed fields to a product.
func (s *Service) Update(ctx context.Context, id int64, req UpdateProductRequest) (*Product, error) {
	updates := make(map[string]any)
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, fmt.Errorf("%w: Price must be a positive number", httpx.ErrValidation)
		}
		updates["price"] = *req.Price
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Company != nil {
		updates["company"] = *req.Company
	}
	if req.Colors != nil {
		updates["colors"] = req.Colors
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.Featured != nil {
		updates["featured"] = *req.Featured
	}
	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	product, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, fmt.Errorf("%w: no product with id %d", httpx.ErrNotFound, id)
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

// Delete removes a product.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return fmt.Errorf("%w: no product with id %d", httpx.ErrNotFound, id)
		}
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

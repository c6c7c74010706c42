package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/markclone/shop-api/internal/domain"
	redisinfra "github.com/markclone/shop-api/internal/infrastructure/redis"
	s3infra "github.com/markclone/shop-api/internal/infrastructure/s3"
	"github.com/markclone/shop-api/internal/pkg/id"
	"github.com/markclone/shop-api/internal/pkg/validate"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldName        = "name"
	fieldDescription = "description"
	fieldPrice       = "price"
	fieldQuantity    = "quantity"
	fieldImageKey    = "image_key"
)

type Service interface {
	Create(ctx context.Context, ownerID string, req domain.CreateProductRequest) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, categoryID string) ([]domain.Product, error)
	Update(ctx context.Context, ownerID, productID string, req domain.UpdateProductRequest) error
	Delete(ctx context.Context, ownerID, productID string) error
	UploadImage(ctx context.Context, ownerID, productID, filename string, r io.Reader) error
	GetImage(ctx context.Context, productID string) (io.ReadCloser, string, error)
}

type productStore interface {
	Put(ctx context.Context, p *domain.Product) error
	Get(ctx context.Context, productID string) (*domain.Product, error)
	Scan(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, categoryID string) ([]domain.Product, error)
	Update(ctx context.Context, productID string, updates map[string]interface{}) error
	Delete(ctx context.Context, productID string) error
}

type listingCache interface {
	GetCategory(ctx context.Context, categoryID string) ([]domain.Product, error)
	SetCategory(ctx context.Context, categoryID string, products []domain.Product) error
	InvalidateCategory(ctx context.Context, categoryID string) error
}

type imageStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

type service struct {
	repo   productStore
	cache  listingCache
	images imageStore
}

type ServiceDeps struct {
	ProductRepo productStore
	Cache       listingCache
	ImageStore  imageStore
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.ProductRepo, cache: deps.Cache, images: deps.ImageStore}
}

func (s *service) Create(ctx context.Context, ownerID string, req domain.CreateProductRequest) (*domain.Product, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	p := &domain.Product{
		ProductID:   id.New(),
		UserID:      ownerID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		CategoryID:  req.CategoryID,
		DateAdded:   time.Now().UTC(),
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, p.CategoryID)
	return p, nil
}

func (s *service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.Scan(ctx)
}

func (s *service) ListByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	if cached, err := s.cache.GetCategory(ctx, categoryID); err == nil {
		return cached, nil
	} else if !errors.Is(err, redisinfra.ErrCacheMiss) {
		slog.Warn("product cache read failed", "category_id", categoryID, "err", err)
	}
	products, err := s.repo.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetCategory(ctx, categoryID, products); err != nil {
		slog.Warn("product cache write failed", "category_id", categoryID, "err", err)
	}
	return products, nil
}

func (s *service) Update(ctx context.Context, ownerID, productID string, req domain.UpdateProductRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	p, err := s.ownedProduct(ctx, ownerID, productID)
	if err != nil {
		return err
	}
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates[fieldName] = *req.Name
	}
	if req.Description != nil {
		updates[fieldDescription] = *req.Description
	}
	if req.Price != nil {
		updates[fieldPrice] = *req.Price
	}
	if req.Quantity != nil {
		updates[fieldQuantity] = *req.Quantity
	}
	if len(updates) == 0 {
		return fmt.Errorf("no updatable fields provided: %w", domain.ErrBadRequest)
	}
	if err := s.repo.Update(ctx, productID, updates); err != nil {
		return err
	}
	s.invalidate(ctx, p.CategoryID)
	return nil
}

func (s *service) Delete(ctx context.Context, ownerID, productID string) error {
	p, err := s.ownedProduct(ctx, ownerID, productID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, productID); err != nil {
		return err
	}
	if p.ImageKey != "" {
		if err := s.images.Delete(ctx, p.ImageKey); err != nil {
			slog.Warn("failed to delete product image", "product_id", productID, "key", p.ImageKey, "err", err)
		}
	}
	s.invalidate(ctx, p.CategoryID)
	return nil
}

func (s *service) UploadImage(ctx context.Context, ownerID, productID, filename string, r io.Reader) error {
	p, err := s.ownedProduct(ctx, ownerID, productID)
	if err != nil {
		return err
	}
	key := productID + "/" + filename
	if _, err := s.images.Upload(ctx, key, r, s3infra.ContentTypeForKey(key)); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, productID, map[string]interface{}{fieldImageKey: key}); err != nil {
		return err
	}
	s.invalidate(ctx, p.CategoryID)
	return nil
}

func (s *service) GetImage(ctx context.Context, productID string) (io.ReadCloser, string, error) {
	p, err := s.repo.Get(ctx, productID)
	if err != nil {
		return nil, "", fmt.Errorf("product not found: %w", domain.ErrNotFound)
	}
	if p.ImageKey == "" {
		return nil, "", fmt.Errorf("product has no image: %w", domain.ErrNotFound)
	}
	body, err := s.images.Download(ctx, p.ImageKey)
	if err != nil {
		return nil, "", err
	}
	return body, s3infra.ContentTypeForKey(p.ImageKey), nil
}

// ownedProduct loads a product and checks ownership. A missing product and a
// foreign product collapse into the same rejection so callers cannot probe
// for other sellers' product ids.
func (s *service) ownedProduct(ctx context.Context, ownerID, productID string) (*domain.Product, error) {
	p, err := s.repo.Get(ctx, productID)
	if err != nil || p.UserID != ownerID {
		return nil, fmt.Errorf("product might not exist or user can't edit the product: %w", domain.ErrForbidden)
	}
	return p, nil
}

func (s *service) invalidate(ctx context.Context, categoryID string) {
	if err := s.cache.InvalidateCategory(ctx, categoryID); err != nil {
		slog.Warn("product cache invalidation failed", "category_id", categoryID, "err", err)
	}
}

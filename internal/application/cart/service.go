package cart

import (
	"context"
	"fmt"

	"github.com/markclone/shop-api/internal/domain"
	"github.com/markclone/shop-api/internal/pkg/validate"
)

// DynamoDB attribute name for the cart list on the user row.
const fieldCart = "cart"

type Service interface {
	Add(ctx context.Context, userID string, item domain.CartItem) error
	Get(ctx context.Context, userID string) ([]domain.CartItem, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type service struct {
	repo userStore
}

func NewService(repo userStore) Service {
	return &service{repo: repo}
}

// Add appends an item to the user's cart. The whole list is rewritten; two
// concurrent adds for the same user race with last-write-wins, same as the
// login refresh-token write.
func (s *service) Add(ctx context.Context, userID string, item domain.CartItem) error {
	if err := validate.Struct(item); err != nil {
		return fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	cart := append(u.Cart, item)
	return s.repo.Update(ctx, userID, map[string]interface{}{fieldCart: cart})
}

func (s *service) Get(ctx context.Context, userID string) ([]domain.CartItem, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if u.Cart == nil {
		return []domain.CartItem{}, nil
	}
	return u.Cart, nil
}

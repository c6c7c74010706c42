package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/markclone/shop-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	return m.Called(ctx, userID, updates).Error(0)
}

func item() domain.CartItem {
	return domain.CartItem{ProductID: "p1", Name: "Keyboard", Price: 99.9, Quantity: 2}
}

func TestAdd_InvalidItem(t *testing.T) {
	svc := NewService(nil)

	it := item()
	it.Quantity = 0
	err := svc.Add(context.Background(), "u1", it)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestAdd_UserNotFound(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	svc := NewService(us)
	err := svc.Add(context.Background(), "missing", item())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestAdd_AppendsToExistingCart(t *testing.T) {
	us := &mockUserStore{}
	existing := domain.CartItem{ProductID: "p0", Name: "Mouse", Price: 20, Quantity: 1}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{
		UserID: "u1",
		Cart:   []domain.CartItem{existing},
	}, nil)
	us.On("Update", mock.Anything, "u1", mock.MatchedBy(func(m map[string]interface{}) bool {
		cart, ok := m["cart"].([]domain.CartItem)
		return ok && len(cart) == 2 && cart[0] == existing && cart[1] == item()
	})).Return(nil)

	svc := NewService(us)
	err := svc.Add(context.Background(), "u1", item())

	require.NoError(t, err)
	us.AssertExpectations(t)
}

func TestAdd_FirstItemOnNilCart(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1"}, nil)
	us.On("Update", mock.Anything, "u1", mock.MatchedBy(func(m map[string]interface{}) bool {
		cart, ok := m["cart"].([]domain.CartItem)
		return ok && len(cart) == 1
	})).Return(nil)

	svc := NewService(us)
	err := svc.Add(context.Background(), "u1", item())

	require.NoError(t, err)
}

func TestGet_NilCartComesBackEmpty(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1"}, nil)

	svc := NewService(us)
	cart, err := svc.Get(context.Background(), "u1")

	require.NoError(t, err)
	assert.NotNil(t, cart)
	assert.Empty(t, cart)
}

func TestGet_ReturnsStoredItems(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").Return(&domain.User{
		UserID: "u1",
		Cart:   []domain.CartItem{item()},
	}, nil)

	svc := NewService(us)
	cart, err := svc.Get(context.Background(), "u1")

	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, item(), cart[0])
}

func TestGet_UserNotFound(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "missing").Return(nil, domain.ErrNotFound)

	svc := NewService(us)
	_, err := svc.Get(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

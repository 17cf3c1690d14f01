package cart

import (
	"context"
	"errors"
	"testing"

	"donpollo_back_end/internal/apperr"
	"donpollo_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	carts map[string]*Cart
	saves int
}

func newMemStore() *memStore {
	return &memStore{carts: map[string]*Cart{}}
}

func (m *memStore) Load(_ context.Context, sid string) (*Cart, error) {
	c, ok := m.carts[sid]
	if !ok {
		return &Cart{}, nil
	}
	cp := &Cart{Items: append([]models.CartItem(nil), c.Items...)}
	return cp, nil
}

func (m *memStore) Save(_ context.Context, sid string, c *Cart) error {
	m.saves++
	m.carts[sid] = &Cart{Items: append([]models.CartItem(nil), c.Items...)}
	return nil
}

func (m *memStore) Clear(_ context.Context, sid string) error {
	delete(m.carts, sid)
	return nil
}

type productMap map[int64]models.Product

func (p productMap) GetProduct(_ context.Context, id int64) (models.Product, error) {
	if prod, ok := p[id]; ok {
		return prod, nil
	}
	return models.Product{}, apperr.ErrNotFound
}

type brokenProducts struct{}

func (brokenProducts) GetProduct(context.Context, int64) (models.Product, error) {
	return models.Product{}, errors.New("connexion perdue")
}

func TestServiceAddPersistsPerSession(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, productMap{1: product(1, 15000, 50)})
	ctx := context.Background()

	_, err := svc.Add(ctx, "a", 1)
	require.NoError(t, err)
	_, err = svc.Add(ctx, "a", 1)
	require.NoError(t, err)

	a, err := svc.Get(ctx, "a")
	require.NoError(t, err)
	require.Len(t, a.Items, 1)
	assert.Equal(t, 2, a.Items[0].Quantity)

	b, err := svc.Get(ctx, "b")
	require.NoError(t, err)
	assert.True(t, b.IsEmpty(), "les paniers ne sont pas partagés entre sessions")
}

func TestServiceAddUnknownOrSoldOutIsNoop(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, productMap{2: product(2, 12000, 0)})
	ctx := context.Background()

	c, err := svc.Add(ctx, "a", 404)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	c, err = svc.Add(ctx, "a", 2)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	assert.Zero(t, store.saves)
}

func TestServiceAddPropagatesStoreFailure(t *testing.T) {
	svc := NewService(newMemStore(), brokenProducts{})

	_, err := svc.Add(context.Background(), "a", 1)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, apperr.ErrNotFound))
}

func TestServiceSetQuantityAndRemove(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, productMap{1: product(1, 15000, 3)})
	ctx := context.Background()

	_, err := svc.Add(ctx, "a", 1)
	require.NoError(t, err)

	c, err := svc.SetQuantity(ctx, "a", 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Items[0].Quantity)

	c, err = svc.SetQuantity(ctx, "a", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Items[0].Quantity)

	c, err = svc.Remove(ctx, "a", 1)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	require.NoError(t, svc.Clear(ctx, "a"))
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"donpollo_back_end/internal/cart"
	"donpollo_back_end/internal/models"

	"github.com/redis/go-redis/v9"
)

const CartTTL = 30 * 24 * time.Hour

// CartStore garde chaque panier sous "cart:<session>" en JSON
type CartStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCartStore(rdb *redis.Client, ttl time.Duration) *CartStore {
	if ttl <= 0 {
		ttl = CartTTL
	}
	return &CartStore{rdb: rdb, ttl: ttl}
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

func (s *CartStore) Load(ctx context.Context, sessionID string) (*cart.Cart, error) {
	data, err := s.rdb.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &cart.Cart{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lecture panier: %w", err)
	}

	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("décodage panier: %w", err)
	}
	return &cart.Cart{Items: items}, nil
}

// Save réarme le TTL à chaque modification ; un panier vide supprime la clé
func (s *CartStore) Save(ctx context.Context, sessionID string, c *cart.Cart) error {
	if c.IsEmpty() {
		return s.Clear(ctx, sessionID)
	}

	data, err := json.Marshal(c.Items)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, cartKey(sessionID), data, s.ttl).Err()
}

func (s *CartStore) Clear(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, cartKey(sessionID)).Err()
}

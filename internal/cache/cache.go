package cache

import (
	"context"
	"encoding/json"
	"time"

	"donpollo_back_end/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	ListingKey = "products:available"
	ListingTTL = 10 * time.Minute
)

// ProductListing met en cache la vitrine publique ; invalidée à chaque écriture
// sur le catalogue et après chaque commande (le stock a changé)
type ProductListing struct {
	rdb *redis.Client
	ttl time.Duration
	log zerolog.Logger
}

func NewProductListing(rdb *redis.Client, log zerolog.Logger) *ProductListing {
	return &ProductListing{rdb: rdb, ttl: ListingTTL, log: log}
}

func (l *ProductListing) GetListing(ctx context.Context) ([]models.Product, bool) {
	data, err := l.rdb.Get(ctx, ListingKey).Bytes()
	if err != nil {
		return nil, false
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		l.log.Warn().Err(err).Msg("⚠️ Cache vitrine illisible")
		return nil, false
	}
	return products, true
}

func (l *ProductListing) SetListing(ctx context.Context, products []models.Product) {
	data, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := l.rdb.Set(ctx, ListingKey, data, l.ttl).Err(); err != nil {
		l.log.Warn().Err(err).Msg("⚠️ Écriture cache vitrine échouée")
	}
}

func (l *ProductListing) InvalidateListing(ctx context.Context) {
	if err := l.rdb.Del(ctx, ListingKey).Err(); err != nil {
		l.log.Warn().Err(err).Msg("⚠️ Invalidation cache vitrine échouée")
	}
}

package cart

import (
	"context"
	"errors"
	"fmt"

	"donpollo_back_end/internal/apperr"
	"donpollo_back_end/internal/models"
)

// Store conserve le panier d'une session (Redis en production)
type Store interface {
	Load(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, sessionID string, c *Cart) error
	Clear(ctx context.Context, sessionID string) error
}

// ProductReader lit le stock courant au moment de l'ajout
type ProductReader interface {
	GetProduct(ctx context.Context, id int64) (models.Product, error)
}

type Service struct {
	store    Store
	products ProductReader
}

func NewService(store Store, products ProductReader) *Service {
	return &Service{store: store, products: products}
}

func (s *Service) Get(ctx context.Context, sessionID string) (*Cart, error) {
	return s.store.Load(ctx, sessionID)
}

// Add : un produit inexistant ou épuisé laisse le panier intact, sans erreur
func (s *Service) Add(ctx context.Context, sessionID string, productID int64) (*Cart, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	p, err := s.products.GetProduct(ctx, productID)
	if errors.Is(err, apperr.ErrNotFound) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lecture produit %d: %w", productID, err)
	}

	if !c.Add(p) {
		return c, nil
	}
	return c, s.store.Save(ctx, sessionID, c)
}

func (s *Service) SetQuantity(ctx context.Context, sessionID string, productID int64, qty int) (*Cart, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !c.SetQuantity(productID, qty) {
		return c, nil
	}
	return c, s.store.Save(ctx, sessionID, c)
}

func (s *Service) Remove(ctx context.Context, sessionID string, productID int64) (*Cart, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !c.Remove(productID) {
		return c, nil
	}
	return c, s.store.Save(ctx, sessionID, c)
}

func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.store.Clear(ctx, sessionID)
}

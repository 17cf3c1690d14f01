package apperr

import (
	"errors"
	"fmt"
)

// Erreurs métier partagées par les services ; la couche HTTP les traduit en codes de statut
var (
	ErrNotFound          = errors.New("ressource introuvable")
	ErrValidation        = errors.New("données invalides")
	ErrConflict          = errors.New("numéro déjà utilisé")
	ErrAuth              = errors.New("identifiants invalides")
	ErrUnauthorized      = errors.New("accès réservé aux administrateurs")
	ErrEmptyCart         = errors.New("panier vide")
	ErrInsufficientStock = errors.New("stock insuffisant")
)

// ValidationError précise le champ rejeté
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Invalid construit une ValidationError
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// MissingProductError : une ligne de commande vise un produit supprimé depuis l'ajout au panier
type MissingProductError struct {
	ProductID int64
	Name      string
}

func (e *MissingProductError) Error() string {
	return fmt.Sprintf("le produit %q n'est plus disponible", e.Name)
}

func (e *MissingProductError) Unwrap() error {
	return ErrNotFound
}

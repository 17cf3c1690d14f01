package database

import (
	"context"
	"database/sql"
	"fmt"

	"donpollo_back_end/internal/models"
	"donpollo_back_end/internal/utils"
)

const (
	countAdminSQL    = `SELECT COUNT(*) FROM admins WHERE username = ?`
	insertAdminSQL   = `INSERT INTO admins (username, password_hash) VALUES (?, ?)`
	countProductsSQL = `SELECT COUNT(*) FROM products`
	seedProductSQL   = `INSERT INTO products (name, description, price, stock, image) VALUES (?, ?, ?, ?, ?)`
)

// Seed crée le compte admin (mot de passe haché) et le catalogue d'exemple si la table est vide
func Seed(ctx context.Context, db *sql.DB, username, password string, products []models.Product) error {
	var n int
	if err := db.QueryRowContext(ctx, countAdminSQL, username).Scan(&n); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if n == 0 {
		hash, err := utils.HashPassword(password)
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx, insertAdminSQL, username, hash); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}

	if err := db.QueryRowContext(ctx, countProductsSQL).Scan(&n); err != nil {
		return fmt.Errorf("seed produits: %w", err)
	}
	if n > 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, p := range products {
		if _, err := tx.ExecContext(ctx, seedProductSQL, p.Name, p.Description, p.Price, p.Stock, p.Image); err != nil {
			tx.Rollback()
			return fmt.Errorf("seed produit %s: %w", p.Name, err)
		}
	}
	return tx.Commit()
}

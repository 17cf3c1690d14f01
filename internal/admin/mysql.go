package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"donpollo_back_end/internal/apperr"
	"donpollo_back_end/internal/models"
)

const credentialSQL = `SELECT id, username, password_hash FROM admins WHERE username = ?`

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

func (r *MySQLRepository) Credential(ctx context.Context, username string) (models.AdminCredential, error) {
	var c models.AdminCredential
	err := r.db.QueryRowContext(ctx, credentialSQL, username).Scan(&c.ID, &c.Username, &c.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return c, fmt.Errorf("admin %q: %w", username, apperr.ErrNotFound)
	}
	return c, err
}

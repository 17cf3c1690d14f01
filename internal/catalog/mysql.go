package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"donpollo_back_end/internal/apperr"
	"donpollo_back_end/internal/models"
)

const (
	productColumns = `id, name, description, price, stock, image`

	listAvailableSQL   = `SELECT ` + productColumns + ` FROM products WHERE stock > 0 ORDER BY id`
	searchAvailableSQL = `SELECT ` + productColumns + ` FROM products
		WHERE stock > 0 AND (LOWER(name) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ?) ORDER BY id`
	listAllSQL    = `SELECT ` + productColumns + ` FROM products ORDER BY id`
	getProductSQL = `SELECT ` + productColumns + ` FROM products WHERE id = ?`
	insertSQL     = `INSERT INTO products (name, description, price, stock, image) VALUES (?, ?, ?, ?, ?)`
	updateSQL     = `UPDATE products SET name = ?, description = ?, price = ?, stock = ?, image = ? WHERE id = ?`
	deleteSQL     = `DELETE FROM products WHERE id = ?`
	setImageSQL   = `UPDATE products SET image = ? WHERE id = ?`
)

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

func (r *MySQLRepository) ListAvailable(ctx context.Context) ([]models.Product, error) {
	return r.query(ctx, listAvailableSQL)
}

// SearchAvailable : sous-chaîne insensible à la casse sur le nom et la description
func (r *MySQLRepository) SearchAvailable(ctx context.Context, term string) ([]models.Product, error) {
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	return r.query(ctx, searchAvailableSQL, pattern, pattern)
}

func (r *MySQLRepository) ListAvailableByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	q := `SELECT ` + productColumns + ` FROM products WHERE stock > 0 AND id IN (` + placeholders + `) ORDER BY id`
	return r.query(ctx, q, args...)
}

func (r *MySQLRepository) ListAll(ctx context.Context) ([]models.Product, error) {
	return r.query(ctx, listAllSQL)
}

func (r *MySQLRepository) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, getProductSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return p, fmt.Errorf("produit %d: %w", id, apperr.ErrNotFound)
	}
	return p, err
}

func (r *MySQLRepository) Insert(ctx context.Context, p *models.Product) error {
	res, err := r.db.ExecContext(ctx, insertSQL, p.Name, nullString(p.Description), p.Price, p.Stock, p.Image)
	if err != nil {
		return err
	}
	p.ID, err = res.LastInsertId()
	return err
}

func (r *MySQLRepository) Update(ctx context.Context, p models.Product) error {
	res, err := r.db.ExecContext(ctx, updateSQL, p.Name, nullString(p.Description), p.Price, p.Stock, p.Image, p.ID)
	if err != nil {
		return err
	}
	return expectOne(res, p.ID)
}

// Delete ne vérifie pas les lignes de commande qui référencent le produit
func (r *MySQLRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, deleteSQL, id)
	if err != nil {
		return err
	}
	return expectOne(res, id)
}

func (r *MySQLRepository) SetImage(ctx context.Context, id int64, image string) error {
	res, err := r.db.ExecContext(ctx, setImageSQL, image, id)
	if err != nil {
		return err
	}
	return expectOne(res, id)
}

func (r *MySQLRepository) query(ctx context.Context, q string, args ...any) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (models.Product, error) {
	var (
		p     models.Product
		desc  sql.NullString
		image sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Name, &desc, &p.Price, &p.Stock, &image); err != nil {
		return p, err
	}
	p.Description = desc.String
	p.Image = image.String
	return p, nil
}

// expectOne : la DSN active clientFoundRows, donc 0 ligne = produit absent
func expectOne(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("produit %d: %w", id, apperr.ErrNotFound)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"donpollo_back_end/internal/apperr"
	"donpollo_back_end/internal/models"

	"github.com/go-sql-driver/mysql"
)

const (
	orderColumns = `id, order_number, customer_name, customer_phone, customer_address, payment_method, total, status, created_at`
	lineColumns  = `id, order_id, product_id, product_name, quantity, unit_price, subtotal`

	insertOrderSQL = `INSERT INTO orders (order_number, customer_name, customer_phone, customer_address, payment_method, total, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	insertLineSQL  = `INSERT INTO order_lines (order_id, product_id, product_name, quantity, unit_price, subtotal) VALUES (?, ?, ?, ?, ?, ?)`
	// décrément conditionnel : 0 ligne touchée = stock insuffisant, la transaction est annulée
	decrementStockSQL = `UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?`
	insertInvoiceSQL  = `INSERT INTO invoices (order_id, invoice_number, created_at) VALUES (?, ?, ?)`
	productExistsSQL  = `SELECT 1 FROM products WHERE id = ?`

	confirmationSQL = `SELECT o.id, o.order_number, o.customer_name, o.customer_phone, o.customer_address, o.payment_method, o.total, o.status, o.created_at, i.invoice_number
		FROM orders o JOIN invoices i ON i.order_id = o.id WHERE o.order_number = ?`
	orderByIDSQL   = `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`
	listOrdersSQL  = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC, id DESC`
	linesSQL       = `SELECT ` + lineColumns + ` FROM order_lines WHERE order_id = ? ORDER BY id`
	listInvoiceSQL = `SELECT i.invoice_number, o.order_number, o.customer_name, o.total, i.created_at
		FROM invoices i JOIN orders o ON o.id = i.order_id ORDER BY i.created_at DESC, i.id DESC`
	statsSQL = `SELECT
		(SELECT COUNT(*) FROM products),
		(SELECT COUNT(*) FROM orders),
		(SELECT COUNT(*) FROM invoices),
		(SELECT COALESCE(SUM(total), 0) FROM orders)`
)

const mysqlDuplicateEntry = 1062

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

func (r *MySQLRepository) execTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %w; rollback err: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}

// Create écrit commande, lignes, décréments de stock et facture dans une transaction
func (r *MySQLRepository) Create(ctx context.Context, order *models.Order, lines []models.OrderLine, invoice *models.Invoice) error {
	var orderID, invoiceID int64
	lineIDs := make([]int64, len(lines))

	err := r.execTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, insertOrderSQL,
			order.OrderNumber, order.CustomerName, order.CustomerPhone, order.CustomerAddress,
			order.PaymentMethod, order.Total, order.Status, order.CreatedAt)
		if err != nil {
			return mapWriteErr("insertion commande", err)
		}
		if orderID, err = res.LastInsertId(); err != nil {
			return err
		}

		for i, line := range lines {
			res, err := tx.ExecContext(ctx, insertLineSQL,
				orderID, line.ProductID, line.ProductName, line.Quantity, line.UnitPrice, line.Subtotal)
			if err != nil {
				return mapWriteErr("insertion ligne", err)
			}
			if lineIDs[i], err = res.LastInsertId(); err != nil {
				return err
			}

			res, err = tx.ExecContext(ctx, decrementStockSQL, line.Quantity, line.ProductID, line.Quantity)
			if err != nil {
				return fmt.Errorf("décrément stock produit %d: %w", line.ProductID, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if n == 0 {
				return stockFailure(ctx, tx, line)
			}
		}

		res, err = tx.ExecContext(ctx, insertInvoiceSQL, orderID, invoice.InvoiceNumber, invoice.CreatedAt)
		if err != nil {
			return mapWriteErr("insertion facture", err)
		}
		invoiceID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return err
	}

	order.ID = orderID
	invoice.ID = invoiceID
	invoice.OrderID = orderID
	for i := range lines {
		lines[i].ID = lineIDs[i]
		lines[i].OrderID = orderID
	}
	return nil
}

// stockFailure distingue un produit supprimé d'un stock insuffisant
func stockFailure(ctx context.Context, tx *sql.Tx, line models.OrderLine) error {
	var one int
	err := tx.QueryRowContext(ctx, productExistsSQL, line.ProductID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return &apperr.MissingProductError{ProductID: line.ProductID, Name: line.ProductName}
	}
	if err != nil {
		return fmt.Errorf("lecture produit %d: %w", line.ProductID, err)
	}
	return fmt.Errorf("produit %d (%s): %w", line.ProductID, line.ProductName, apperr.ErrInsufficientStock)
}

func (r *MySQLRepository) FindByNumber(ctx context.Context, number string) (models.Confirmation, error) {
	var conf models.Confirmation
	o := &conf.Order
	err := r.db.QueryRowContext(ctx, confirmationSQL, number).Scan(
		&o.ID, &o.OrderNumber, &o.CustomerName, &o.CustomerPhone, &o.CustomerAddress,
		&o.PaymentMethod, &o.Total, &o.Status, &o.CreatedAt, &conf.InvoiceNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return conf, fmt.Errorf("commande %s: %w", number, apperr.ErrNotFound)
	}
	if err != nil {
		return conf, err
	}

	conf.Lines, err = r.lines(ctx, o.ID)
	return conf, err
}

func (r *MySQLRepository) FindByID(ctx context.Context, id int64) (models.OrderDetail, error) {
	var detail models.OrderDetail
	o, err := scanOrder(r.db.QueryRowContext(ctx, orderByIDSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return detail, fmt.Errorf("commande %d: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return detail, err
	}

	detail.Order = o
	detail.Lines, err = r.lines(ctx, id)
	return detail, err
}

func (r *MySQLRepository) List(ctx context.Context) ([]models.Order, error) {
	rows, err := r.db.QueryContext(ctx, listOrdersSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *MySQLRepository) ListInvoices(ctx context.Context) ([]models.InvoiceRow, error) {
	rows, err := r.db.QueryContext(ctx, listInvoiceSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invoices := []models.InvoiceRow{}
	for rows.Next() {
		var inv models.InvoiceRow
		if err := rows.Scan(&inv.InvoiceNumber, &inv.OrderNumber, &inv.CustomerName, &inv.Total, &inv.CreatedAt); err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (r *MySQLRepository) Stats(ctx context.Context) (models.DashboardStats, error) {
	var s models.DashboardStats
	err := r.db.QueryRowContext(ctx, statsSQL).Scan(&s.Products, &s.Orders, &s.Invoices, &s.Revenue)
	return s, err
}

func (r *MySQLRepository) lines(ctx context.Context, orderID int64) ([]models.OrderLine, error) {
	rows, err := r.db.QueryContext(ctx, linesSQL, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []models.OrderLine{}
	for rows.Next() {
		var l models.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.ProductName, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.OrderNumber, &o.CustomerName, &o.CustomerPhone, &o.CustomerAddress,
		&o.PaymentMethod, &o.Total, &o.Status, &o.CreatedAt)
	return o, err
}

// mapWriteErr traduit la violation d'unicité MySQL en apperr.ErrConflict
func mapWriteErr(op string, err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return fmt.Errorf("%s: %w", op, apperr.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

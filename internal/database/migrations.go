package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT NULL,
		price DECIMAL(12,2) NOT NULL,
		stock INT NOT NULL DEFAULT 0,
		image VARCHAR(512) NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		order_number VARCHAR(32) NOT NULL UNIQUE,
		customer_name VARCHAR(255) NOT NULL,
		customer_phone VARCHAR(64) NOT NULL,
		customer_address TEXT NOT NULL,
		payment_method VARCHAR(64) NOT NULL,
		total DECIMAL(12,2) NOT NULL,
		status VARCHAR(32) NOT NULL DEFAULT 'pending',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS order_lines (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		order_id BIGINT NOT NULL,
		product_id BIGINT NOT NULL,
		product_name VARCHAR(255) NOT NULL,
		quantity INT NOT NULL,
		unit_price DECIMAL(12,2) NOT NULL,
		subtotal DECIMAL(12,2) NOT NULL,
		INDEX idx_order_lines_order (order_id),
		FOREIGN KEY (order_id) REFERENCES orders(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS invoices (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		order_id BIGINT NOT NULL UNIQUE,
		invoice_number VARCHAR(32) NOT NULL UNIQUE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (order_id) REFERENCES orders(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS admins (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(64) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate crée les tables manquantes ; chaque instruction est réessayée retries fois
func Migrate(ctx context.Context, db *sql.DB, retries int) error {
	for _, stmt := range schema {
		var err error
		for i := 0; i <= retries; i++ {
			if _, err = db.ExecContext(ctx, stmt); err == nil {
				break
			}
			if i < retries {
				time.Sleep(time.Second)
			}
		}
		if err != nil {
			return fmt.Errorf("migration: %w", err)
		}
	}
	return nil
}

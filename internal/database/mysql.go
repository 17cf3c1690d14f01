package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"time"

	"donpollo_back_end/internal/config"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
)

const (
	connectAttempts = 10
	connectDelay    = 3 * time.Second
)

// DSN construit la chaîne de connexion. parseTime pour scanner les DATETIME,
// clientFoundRows pour qu'un UPDATE sans changement compte quand même la ligne.
func DSN(cfg config.MySQLConfig) (string, error) {
	var mc *mysql.Config
	if cfg.DSN != "" {
		parsed, err := mysql.ParseDSN(cfg.DSN)
		if err != nil {
			return "", fmt.Errorf("MYSQL_DSN invalide: %w", err)
		}
		mc = parsed
	} else {
		mc = mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(cfg.Host, cfg.Port)
		mc.DBName = cfg.Name
	}

	mc.ParseTime = true
	mc.ClientFoundRows = true
	mc.Loc = time.Local
	if mc.Params == nil {
		mc.Params = map[string]string{}
	}
	mc.Params["charset"] = "utf8mb4"
	return mc.FormatDSN(), nil
}

// OpenMySQL ouvre la base et réessaie tant qu'elle ne répond pas (démarrage docker-compose)
func OpenMySQL(ctx context.Context, cfg config.MySQLConfig, log zerolog.Logger) (*sql.DB, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	for i := 0; i < connectAttempts; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err == nil {
			log.Info().Str("db", cfg.Name).Msg("✅ Connecté à MySQL")
			return db, nil
		}

		log.Warn().Err(err).Int("attempt", i+1).Msg("❌ MySQL injoignable, nouvel essai")
		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(connectDelay):
		}
	}

	db.Close()
	return nil, fmt.Errorf("connexion MySQL impossible après %d essais: %w", connectAttempts, err)
}

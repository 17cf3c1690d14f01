package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort     = "8080"
	DefaultShopName = "Don Pollo"
	DefaultCartTTL  = 30 * 24 * time.Hour
)

type MySQLConfig struct {
	DSN      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Enabled indique si une base MySQL est configurée ; sinon le serveur tourne en mémoire
func (m MySQLConfig) Enabled() bool {
	return m.DSN != "" || m.Host != ""
}

type RedisConfig struct {
	Host     string
	Password string
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type ElasticConfig struct {
	URL      string
	User     string
	Password string
	Index    string
}

type ScyllaConfig struct {
	Hosts    []string
	Keyspace string
	Username string
	Password string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	NotifyTo string
}

type Config struct {
	Port          string
	Env           string
	LogLevel      string
	ShopName      string
	SessionSecret string
	SessionSecure bool
	SessionMaxAge int
	CORSOrigins   []string
	AdminUser     string
	AdminPassword string
	CartTTL       time.Duration

	MySQL   MySQLConfig
	Redis   RedisConfig
	MinIO   MinIOConfig
	Elastic ElasticConfig
	Scylla  ScyllaConfig
	SMTP    SMTPConfig
}

// IsProduction vrai si APP_ENV=production
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load charge le fichier .env puis lit l'environnement
func Load() (Config, error) {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé, on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}
	return FromEnv()
}

// FromEnv construit la configuration à partir des variables d'environnement
func FromEnv() (Config, error) {
	cfg := Config{
		Port:          getEnv("PORT", DefaultPort),
		Env:           getEnv("APP_ENV", "dev"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		ShopName:      getEnv("SHOP_NAME", DefaultShopName),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionSecure: strings.EqualFold(os.Getenv("SESSION_SECURE"), "true"),
		SessionMaxAge: 86400 * 30,
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		AdminUser:     getEnv("ADMIN_USER", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
		CartTTL:       DefaultCartTTL,
		MySQL: MySQLConfig{
			DSN:      os.Getenv("MYSQL_DSN"),
			Host:     os.Getenv("DB_HOST"),
			Port:     getEnv("DB_PORT", "3306"),
			User:     getEnv("DB_USER", "root"),
			Password: os.Getenv("DB_PASS"),
			Name:     getEnv("DB_NAME", "pollo_tienda"),
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		MinIO: MinIOConfig{
			Endpoint:  os.Getenv("MINIO_ENDPOINT"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    getEnv("MINIO_BUCKET", "donpollo-images"),
			UseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
		},
		Elastic: ElasticConfig{
			URL:      os.Getenv("ELASTIC_URL"),
			User:     os.Getenv("ELASTIC_USER"),
			Password: os.Getenv("ELASTIC_PASSWORD"),
			Index:    getEnv("ELASTIC_INDEX", "products"),
		},
		Scylla: ScyllaConfig{
			Hosts:    splitList(os.Getenv("SCYLLA_HOSTS")),
			Keyspace: os.Getenv("SCYLLA_KS_AUDIT_KEYSPACE"),
			Username: os.Getenv("SCYLLA_KS_AUDIT_ROLE"),
			Password: os.Getenv("SCYLLA_KS_AUDIT_PASSWORD"),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     587,
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("SMTP_FROM", "noreply@donpollo.co"),
			NotifyTo: os.Getenv("SHOP_NOTIFY_EMAIL"),
		},
	}

	if cfg.SessionSecret == "" {
		return Config{}, fmt.Errorf("SESSION_SECRET manquant")
	}

	if v := os.Getenv("SMTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("SMTP_PORT invalide: %w", err)
		}
		cfg.SMTP.Port = port
	}

	if v := os.Getenv("CART_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl <= 0 {
			return Config{}, fmt.Errorf("CART_TTL invalide: %q", v)
		}
		cfg.CartTTL = ttl
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

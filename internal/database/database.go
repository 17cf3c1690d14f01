package database

import (
	"context"
	"fmt"
	"time"

	"donpollo_back_end/internal/config"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gocql/gocql"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// Les services annexes (recherche, images, audit) sont optionnels :
// chaque connecteur n'est appelé que si sa variable d'endpoint est définie.

// =============================================
// ELASTICSEARCH
// =============================================
func ConnectElastic(cfg config.ElasticConfig, log zerolog.Logger) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("création client Elasticsearch: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("connexion Elasticsearch: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("connexion Elasticsearch: %s", res.Status())
	}

	log.Info().Str("url", cfg.URL).Msg("✅ Connecté à Elasticsearch")
	return client, nil
}

// =============================================
// MINIO
// =============================================
func ConnectMinIO(ctx context.Context, cfg config.MinIOConfig, log zerolog.Logger) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connexion MinIO: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("vérification bucket MinIO: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("création bucket MinIO: %w", err)
		}
		log.Info().Str("bucket", cfg.Bucket).Msg("🪣 Bucket créé")
	}

	log.Info().Str("endpoint", cfg.Endpoint).Msg("✅ Connecté à MinIO")
	return client, nil
}

// =============================================
// SCYLLA DB (journal d'audit)
// =============================================
func ConnectScylla(cfg config.ScyllaConfig, log zerolog.Logger) (*gocql.Session, error) {
	if cfg.Keyspace == "" {
		return nil, fmt.Errorf("SCYLLA_KS_AUDIT_KEYSPACE non configuré")
	}

	cluster := gocql.NewCluster(cfg.Hosts...)
	cluster.Keyspace = cfg.Keyspace
	cluster.Consistency = gocql.Quorum
	cluster.Timeout = 5 * time.Second
	cluster.NumConns = 4
	cluster.ReconnectInterval = time.Second
	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())
	if cfg.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("session ScyllaDB %s: %w", cfg.Keyspace, err)
	}

	log.Info().Str("keyspace", cfg.Keyspace).Msg("✅ Session ScyllaDB ouverte")
	return session, nil
}

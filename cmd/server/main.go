package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"donpollo_back_end/internal/admin"
	"donpollo_back_end/internal/cache"
	"donpollo_back_end/internal/cart"
	"donpollo_back_end/internal/catalog"
	"donpollo_back_end/internal/config"
	"donpollo_back_end/internal/database"
	"donpollo_back_end/internal/handlers"
	"donpollo_back_end/internal/logger"
	"donpollo_back_end/internal/memstore"
	"donpollo_back_end/internal/models"
	"donpollo_back_end/internal/orders"
	"donpollo_back_end/internal/routes"
	"donpollo_back_end/internal/services"
	"donpollo_back_end/internal/session"
	"donpollo_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("❌ Configuration invalide")
	}
	log := logger.New(cfg.LogLevel, cfg.Env)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Stockage ---
	var (
		catalogRepo catalog.Repository
		orderRepo   orders.Repository
		adminRepo   admin.Repository
		carts       cart.Store
		rdb         *redis.Client
		mem         *memstore.Store
	)

	if cfg.MySQL.Enabled() {
		db := mustMySQL(ctx, cfg, log)
		defer db.Close()
		catalogRepo = catalog.NewMySQLRepository(db)
		orderRepo = orders.NewMySQLRepository(db)
		adminRepo = admin.NewMySQLRepository(db)
	} else {
		log.Warn().Msg("⚠️ MYSQL_DSN / DB_HOST absents : catalogue et commandes en mémoire")
		mem = memstore.New()
		hash, err := utils.HashPassword(cfg.AdminPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("❌ Hachage du mot de passe admin")
		}
		mem.Seed(cfg.AdminUser, hash, catalog.SampleProducts())
		catalogRepo, orderRepo, adminRepo = mem, mem, mem
	}

	if cfg.Redis.Host != "" {
		rdb, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("❌ Redis")
		}
		defer rdb.Close()
		carts = cache.NewCartStore(rdb, cfg.CartTTL)
		log.Info().Str("host", cfg.Redis.Host).Msg("✅ Connecté à Redis")
	} else {
		log.Warn().Msg("⚠️ REDIS_HOST absent : paniers en mémoire, pas de limitation des connexions")
		if mem == nil {
			mem = memstore.New()
		}
		carts = mem
	}

	// --- Services annexes ---
	var catalogOpts []catalog.Option
	if rdb != nil {
		catalogOpts = append(catalogOpts, catalog.WithCache(cache.NewProductListing(rdb, log)))
	}
	if cfg.Elastic.URL != "" {
		if es, err := database.ConnectElastic(cfg.Elastic, log); err != nil {
			log.Warn().Err(err).Msg("⚠️ Elasticsearch indisponible, recherche en base")
		} else {
			index := services.NewProductIndex(es, cfg.Elastic.Index)
			if err := index.EnsureIndex(ctx); err != nil {
				log.Warn().Err(err).Msg("⚠️ Index Elasticsearch non créé, recherche en base")
			} else {
				catalogOpts = append(catalogOpts, catalog.WithIndex(index))
			}
		}
	}
	if cfg.MinIO.Endpoint != "" {
		if mc, err := database.ConnectMinIO(ctx, cfg.MinIO, log); err != nil {
			log.Warn().Err(err).Msg("⚠️ MinIO indisponible, upload d'images désactivé")
		} else {
			catalogOpts = append(catalogOpts, catalog.WithImages(services.NewImageStore(mc, cfg.MinIO.Bucket, cfg.MinIO.Endpoint, cfg.MinIO.UseSSL)))
		}
	}

	var auditor services.Auditor = services.NewLogAuditor(log)
	if len(cfg.Scylla.Hosts) > 0 {
		if scylla, err := database.ConnectScylla(cfg.Scylla, log); err != nil {
			log.Warn().Err(err).Msg("⚠️ ScyllaDB indisponible, audit dans les logs")
		} else {
			defer scylla.Close()
			auditor = services.NewScyllaAuditor(scylla, log)
		}
	}

	catalogSvc := catalog.NewService(catalogRepo, log, catalogOpts...)
	if n, err := catalogSvc.Reindex(ctx); err != nil {
		log.Warn().Err(err).Msg("⚠️ Réindexation échouée")
	} else if n > 0 {
		log.Info().Int("products", n).Msg("🔎 Catalogue indexé")
	}

	hooks := []orders.PlacedHook{
		func(ctx context.Context, _ models.Confirmation) { catalogSvc.InvalidateListing(ctx) },
	}
	if cfg.SMTP.Host != "" && cfg.SMTP.NotifyTo != "" {
		hooks = append(hooks, services.NewOrderNotifier(cfg.SMTP, cfg.ShopName, log).OrderPlaced)
		log.Info().Str("to", cfg.SMTP.NotifyTo).Msg("📧 Notification des commandes activée")
	}
	processor := orders.NewProcessor(orderRepo, carts, log, orders.WithHooks(hooks...))

	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionMaxAge, cfg.SessionSecure)
	h := handlers.New(handlers.Deps{
		Catalog:  catalogSvc,
		Carts:    cart.NewService(carts, catalogSvc),
		Orders:   processor,
		Admin:    admin.NewService(adminRepo, log),
		Sessions: sessions,
		Log:      log,
		ShopName: cfg.ShopName,
	})
	router := routes.NewRouter(h, routes.Options{
		Sessions:    sessions,
		Auditor:     auditor,
		Redis:       rdb,
		CORSOrigins: cfg.CORSOrigins,
		Log:         log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("shop", cfg.ShopName).Msg("🚀 Serveur lancé")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("❌ Serveur HTTP")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Arrêt demandé")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("⚠️ Arrêt forcé")
	}
	log.Info().Msg("👋 Bye")
}

func mustMySQL(ctx context.Context, cfg config.Config, log zerolog.Logger) *sql.DB {
	db, err := database.OpenMySQL(ctx, cfg.MySQL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ MySQL")
	}
	if err := database.Migrate(ctx, db, 3); err != nil {
		log.Fatal().Err(err).Msg("❌ Migrations")
	}
	if err := database.Seed(ctx, db, cfg.AdminUser, cfg.AdminPassword, catalog.SampleProducts()); err != nil {
		log.Fatal().Err(err).Msg("❌ Données initiales")
	}
	return db
}

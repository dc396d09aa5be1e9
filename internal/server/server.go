package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"vibespace/internal/handlers"
	"vibespace/internal/repositories"
	"vibespace/internal/routes"
	"vibespace/internal/services"
)

// NewServer wires the whole stack: Postgres tenant store, Redis share
// store, the pure engines, handlers and routes.
func NewServer(logger *zap.Logger) (*http.Server, error) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil || port == 0 {
		port = 8080
	}

	pool, err := connectDatabase(logger)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", envDefault("REDIS_HOST", "localhost"), envDefault("REDIS_PORT", "6379")),
	})
	{
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		logger.Info("connected to Redis")
	}

	tenantRepo := repositories.NewTenantRepository(pool)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tenantRepo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
	}
	shareRepo := repositories.NewShareRepository(rdb)

	schemaService := services.NewSchemaService()
	duplicateService := services.NewDuplicateService()
	docsService := services.NewDocsService()
	shareService := services.NewShareService()
	searchService := services.NewSearchService()

	databaseHandler := handlers.NewDatabaseHandler(tenantRepo, schemaService, duplicateService, logger)
	tableHandler := handlers.NewTableHandler(tenantRepo, schemaService, logger)
	linkHandler := handlers.NewLinkHandler(tenantRepo, schemaService, logger)
	docsHandler := handlers.NewDocsHandler(tenantRepo, docsService, logger)
	shareHandler := handlers.NewShareHandler(tenantRepo, shareRepo, docsService, shareService, logger)
	searchHandler := handlers.NewSearchHandler(tenantRepo, searchService, logger)
	sessionHandler := handlers.NewSessionHandler()

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{envDefault("CORS_ORIGIN", "*")},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Workspace-Pin"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	routes.NewSessionRoutes(sessionHandler).RegisterRoutes(api)
	routes.NewSchemaRoutes(databaseHandler, tableHandler, linkHandler).RegisterRoutes(api)
	routes.NewDocsRoutes(docsHandler, shareHandler).RegisterRoutes(api)
	routes.NewShareRoutes(shareHandler).RegisterRoutes(api)
	routes.NewSearchRoutes(searchHandler).RegisterRoutes(api)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}, nil
}

func connectDatabase(logger *zap.Logger) (*pgxpool.Pool, error) {
	host := os.Getenv("DB_HOST")
	if host == "" {
		return nil, fmt.Errorf("DB_HOST environment variable is required")
	}
	dbPort := envDefault("DB_PORT", "5432")
	user := os.Getenv("DB_USERNAME")
	if user == "" {
		return nil, fmt.Errorf("DB_USERNAME environment variable is required")
	}
	password := os.Getenv("DB_PASSWORD")
	if password == "" {
		return nil, fmt.Errorf("DB_PASSWORD environment variable is required")
	}
	database := os.Getenv("DB_DATABASE")
	if database == "" {
		return nil, fmt.Errorf("DB_DATABASE environment variable is required")
	}

	userInfo := url.UserPassword(user, password)
	dsn := fmt.Sprintf(
		"postgres://%s@%s:%s/%s?sslmode=disable",
		userInfo.String(),
		host,
		dbPort,
		url.PathEscape(database),
	)

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string (check your .env file): %w", err)
	}
	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection pool established",
		zap.String("host", host),
		zap.String("database", database),
	)
	return pool, nil
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package app

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"storefront-layout-backend/internal/config"
	"storefront-layout-backend/internal/models"
	"storefront-layout-backend/internal/repository"
	"storefront-layout-backend/pkg/logger"
)

// Store is an open layout repository together with the connection behind it.
type Store struct {
	Repository repository.LayoutRepository

	db          *gorm.DB
	mongoClient *mongo.Client
}

// OpenStore connects to the backend selected by cfg.StoreDriver. Postgres
// tables are migrated on open.
func OpenStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		logger.Warn("Using in-memory layout store, layouts will not survive a restart", nil)
		return &Store{Repository: repository.NewMemoryLayoutRepository()}, nil
	case config.StoreDriverMongo:
		return openMongo(ctx, cfg)
	default:
		return openPostgres(cfg)
	}
}

func openPostgres(cfg *config.Config) (*Store, error) {
	logger.Info("Connecting to database", nil)

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.NewGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	store := &Store{db: db}
	if err := runMigrations(db); err != nil {
		store.Close()
		return nil, err
	}

	store.Repository = repository.NewLayoutRepository(db)
	return store, nil
}

func runMigrations(db *gorm.DB) error {
	logger.Info("Running database migrations", nil)

	if err := db.AutoMigrate(&models.LayoutRecord{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Database migration completed", nil)
	return nil
}

func openMongo(ctx context.Context, cfg *config.Config) (*Store, error) {
	logger.Info("Connecting to MongoDB", map[string]interface{}{
		"database":   cfg.MongoDatabase,
		"collection": cfg.MongoCollection,
	})

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := repository.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}

	collection := client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)
	return &Store{
		Repository:  repository.NewMongoLayoutRepository(collection),
		mongoClient: client,
	}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}

	if s.mongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.mongoClient.Disconnect(ctx); err != nil {
			return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
		}
	}

	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}

package server

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/wichananm65/elite-shop-backend/internal/config"
	"github.com/wichananm65/elite-shop-backend/internal/order"
	"github.com/wichananm65/elite-shop-backend/internal/product"
	"github.com/wichananm65/elite-shop-backend/internal/storage"
	"github.com/wichananm65/elite-shop-backend/internal/user"
)

// Stores bundles the repositories backing one storage driver.
type Stores struct {
	Driver   string
	Users    user.Repository
	Products product.Repository
	Orders   order.Repository

	close func(context.Context) error
}

// MemoryStores returns empty in-memory repositories.
func MemoryStores() *Stores {
	return &Stores{
		Driver:   config.DriverMemory,
		Users:    user.NewInMemoryRepository(nil),
		Products: product.NewInMemoryRepository(nil),
		Orders:   order.NewInMemoryRepository(),
	}
}

// OpenStores connects to the configured driver and prepares its schema
// (indexes for mongo, tables for postgres).
func OpenStores(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Stores, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		log.Warn("using in-memory store, data is lost on restart")
		return MemoryStores(), nil

	case config.DriverPostgres:
		db, err := storage.OpenPostgres(cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		if err := storage.MigratePostgres(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		log.Info("connected to postgres")
		return postgresStores(db), nil

	case config.DriverMongo:
		m, err := storage.ConnectMongo(cfg.MongoDB.URI, cfg.MongoDB.Database)
		if err != nil {
			return nil, err
		}
		if err := m.EnsureIndexes(ctx); err != nil {
			_ = m.Close(ctx)
			return nil, err
		}
		log.Info("connected to mongodb", zap.String("database", cfg.MongoDB.Database))
		db := m.Database()
		return &Stores{
			Driver:   config.DriverMongo,
			Users:    user.NewMongoRepository(db),
			Products: product.NewMongoRepository(db),
			Orders:   order.NewMongoRepository(db),
			close:    m.Close,
		}, nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
}

func postgresStores(db *sql.DB) *Stores {
	return &Stores{
		Driver:   config.DriverPostgres,
		Users:    user.NewPostgresRepository(db),
		Products: product.NewPostgresRepository(db),
		Orders:   order.NewPostgresRepository(db),
		close:    func(context.Context) error { return db.Close() },
	}
}

func (s *Stores) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

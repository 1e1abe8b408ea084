package server

import (
	"context"
	"fmt"

	"github.com/exercise-tracker/apiserver/config"
	"github.com/exercise-tracker/apiserver/internal/db"
	"github.com/exercise-tracker/apiserver/internal/services"
	"github.com/exercise-tracker/apiserver/internal/store"
)

// UserStore is a user repository that owns a connection.
type UserStore interface {
	services.UserRepository
	Close(ctx context.Context) error
}

// OpenStore connects the backend named by cfg.StoreDriver.
func OpenStore(ctx context.Context, cfg config.Config) (UserStore, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		return store.NewMemoryUserRepository(), nil
	case config.StorePostgres:
		conn, err := db.Open(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return store.NewUserRepository(conn), nil
	case config.StoreMongo:
		client, err := db.OpenMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, fmt.Errorf("open mongo: %w", err)
		}
		return store.NewMongoUserRepository(client, cfg.Mongo.Database), nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

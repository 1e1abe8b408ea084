package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/exercise-tracker/apiserver/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultMongoConnectTimeout = 10 * time.Second

// OpenMongo connects to MongoDB and verifies the primary is reachable.
func OpenMongo(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("MONGO_URL is required")
	}

	ctx, cancel := context.WithTimeout(ctx, defaultMongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URL))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client, nil
}

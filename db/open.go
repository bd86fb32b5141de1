package db

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Storage backends understood by OpenStores.
const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// OpenStores returns the stores for backend. The mongo backend connects to uri
// and makes sure the unique email index exists.
func OpenStores(ctx context.Context, backend, uri string) (Stores, error) {
	switch backend {
	case BackendMemory:
		log.Warn().Msg("using in-memory storage; data is lost on exit")
		return NewMemoryStores(), nil
	case BackendMongo, "":
		if err := ConnectMongoDB(uri); err != nil {
			return Stores{}, err
		}
		if err := EnsureIndexes(ctx, MongoDatabase); err != nil {
			return Stores{}, err
		}
		return NewMongoStores(MongoDatabase), nil
	default:
		return Stores{}, fmt.Errorf("unknown storage backend %q", backend)
	}
}

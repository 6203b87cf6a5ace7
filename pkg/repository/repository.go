package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Cache is a flat key-value store for raw response bodies.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Clear(ctx context.Context) error
}

type Repository struct {
	Cache
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		Cache: NewSQLCache(db),
	}
}

func NewMemoryRepository() *Repository {
	return &Repository{
		Cache: NewMemoryCache(),
	}
}

func NewRedisRepository(client *redis.Client) *Repository {
	return &Repository{
		Cache: NewRedisCache(client),
	}
}

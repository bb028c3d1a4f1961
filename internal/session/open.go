package session

import (
	"context"
	"log"

	"order-desk/internal/db"
)

// OpenStore picks the token store: PostgreSQL when databaseURL is set, the
// local SQLite file otherwise. The returned func releases the connection.
func OpenStore(ctx context.Context, databaseURL, sqlitePath string) (Store, func(), error) {
	if databaseURL != "" {
		pool, err := db.NewPool(ctx, databaseURL)
		if err != nil {
			return nil, nil, err
		}
		store, err := NewPostgresStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil
	}

	store, err := OpenSQLite(sqlitePath)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {
		if err := store.Close(); err != nil {
			log.Printf("closing session database: %v", err)
		}
	}, nil
}

package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/player-enrich/internal/db"
	"github.com/sells-group/player-enrich/internal/store"
)

// openStore opens the configured run store. It returns nil when persistence
// is disabled.
func openStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL, db.PoolConfig{
		MaxConns: cfg.Store.MaxConns,
		MinConns: cfg.Store.MinConns,
	})
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	return st, nil
}

// requireStore is openStore for commands that cannot run without one.
func requireStore(ctx context.Context) (store.Store, error) {
	st, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, eris.New("no run store configured (set store.driver to sqlite or postgres)")
	}
	return st, nil
}

package main

import (
	"context"
	"database/sql"
	"time"

	"cribbage/internal/ports/nakama"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule is the symbol Nakama looks up in the plugin. It registers the cribbage match and RPCs.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	start := time.Now()
	if err := nakama.InitModule(ctx, logger, db, nk, initializer); err != nil {
		logger.Error("InitModule: Cribbage module failed to load: %v", err)
		return err
	}
	logger.Info("InitModule: Cribbage module loaded in %v.", time.Since(start))
	return nil
}

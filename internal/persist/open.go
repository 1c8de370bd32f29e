package persist

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tylerhaar7/Pixel-Survivors/internal/config"
)

// Backend is a store that also keeps run history.
type Backend interface {
	MetaStore
	History
}

// Open builds the backend named by cfg.Backend. The PostgreSQL backend
// connects and applies pending migrations before returning.
func Open(ctx context.Context, cfg config.PersistConfig, profile string, log *zap.Logger) (Backend, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemoryStore(), nil
	case "file":
		path := cfg.SavePath()
		log.Info("using file store", zap.String("path", path))
		return NewFileStore(path, log), nil
	case "postgres":
		db, err := NewDB(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		if _, err := RunMigrations(ctx, db.Pool, log); err != nil {
			db.Close()
			return nil, err
		}
		log.Info("using postgres store", zap.String("profile", profile))
		return NewPGStore(db, profile), nil
	}
	return nil, fmt.Errorf("unknown persist backend %q", cfg.Backend)
}

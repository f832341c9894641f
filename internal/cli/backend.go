package cli

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/pie-flavor/yahtzee/internal/archive"
	"github.com/pie-flavor/yahtzee/internal/config"
	"github.com/pie-flavor/yahtzee/internal/database"
)

// openArchive builds the backend named by ARCHIVE_BACKEND. The returned
// close func releases its connections.
func openArchive(cfg *config.Config) (archive.Archive, func() error, error) {
	switch cfg.ArchiveBackend {
	case config.BackendMemory:
		return archive.NewMemory(), func() error { return nil }, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		a, err := archive.NewRedis(&archive.RedisConfig{RedisClient: client})
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return a, client.Close, nil

	case config.BackendSQLite:
		db, err := database.OpenMigrated(cfg.DatabasePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open database %s: %w", cfg.DatabasePath, err)
		}
		return archive.NewSQLite(db), db.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown archive backend %q", cfg.ArchiveBackend)
}

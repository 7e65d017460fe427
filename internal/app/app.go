package app

import (
	"database/sql"

	"go-leave/internal/config"
	"go-leave/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Infra holds the shared connections of a process.
type Infra struct {
	GormDB *gorm.DB
	SQLDB  *sql.DB
	Redis  *redis.Client
}

// Close releases every connection that was opened.
func (i *Infra) Close() {
	if i.Redis != nil {
		_ = i.Redis.Close()
	}
	if i.SQLDB != nil {
		_ = i.SQLDB.Close()
	}
}

// ConnectDatabase opens the configured database and brings its schema up to date.
func ConnectDatabase(cfg config.Config, logger *zap.Logger) (*Infra, error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	if err := Migrate(cfg.Database, gormDB, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	logger.Info("database schema ready", zap.String("driver", cfg.Database.Driver))

	return &Infra{GormDB: gormDB, SQLDB: sqlDB}, nil
}

// BuildApp connects infrastructure and registers every module on router.
// Redis is optional; without it idempotent replay and the managers cache are off.
func BuildApp(router *gin.Engine, cfg config.Config, logger *zap.Logger) (*Infra, error) {
	infra, err := ConnectDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	if cfg.RedisAddr != "" {
		rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.Database.MaxRetries, logger)
		if err != nil {
			infra.Close()
			return nil, err
		}
		infra.Redis = rdb
	} else {
		logger.Warn("REDIS_ADDR not set, idempotency and caching disabled")
	}

	if err := registerModules(router, cfg, infra, logger); err != nil {
		infra.Close()
		return nil, err
	}

	return infra, nil
}

package app

import (
	"database/sql"
	"errors"

	"peopleflow-hr/internal/shared/connection"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type connections struct {
	gormDB *gorm.DB
	sqlDB  *sql.DB
	redis  *redis.Client
}

// connectInfra opens Postgres and, when withRedis is set and REDIS_ADDR is
// configured, Redis.
func connectInfra(cfg Config, withRedis bool) (*connections, error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB, cfg.ConnectRetries)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	in := &connections{gormDB: gormDB, sqlDB: sqlDB}
	if withRedis && cfg.RedisAddr != "" {
		rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.ConnectRetries)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		in.redis = rdb
	}
	return in, nil
}

func (in *connections) Close() error {
	var errs []error
	if in.redis != nil {
		errs = append(errs, in.redis.Close())
	}
	errs = append(errs, in.sqlDB.Close())
	return errors.Join(errs...)
}

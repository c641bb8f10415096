package app

import (
	"peopleflow-hr/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects infrastructure, migrates the schema and registers every
// module on router. The returned cleanup closes the connections.
func BuildApp(router *gin.Engine, cfg Config) (func(), error) {
	logger := zap.L().Named("app")

	in, err := connectInfra(cfg, true)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")
	if in.redis == nil {
		logger.Warn("REDIS_ADDR not set, running without cache and idempotency")
	}

	if err := Migrate(in.gormDB); err != nil {
		_ = in.Close()
		return nil, err
	}

	router.Use(
		corsMiddleware(cfg.CORSAllowedOrigins),
		middleware.RequestID(),
		middleware.ContextLogger(zap.L()),
	)

	if err := registerModules(router, in, cfg); err != nil {
		_ = in.Close()
		return nil, err
	}

	cleanup := func() {
		if err := in.Close(); err != nil {
			logger.Warn("closing connections failed", zap.Error(err))
		}
	}
	return cleanup, nil
}

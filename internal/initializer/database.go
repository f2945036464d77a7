package initializer

import (
	"betting-service/config"
	"betting-service/infra/postgres"

	"go.uber.org/zap"
)

func InitDatabase(appConfig config.Config) *postgres.Repository {
	cfg := appConfig.Postgres
	connString := postgres.ConnString(cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DB, cfg.SSLMode)

	repo, err := postgres.NewRepository(connString)
	if err != nil {
		zap.L().Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	return repo
}

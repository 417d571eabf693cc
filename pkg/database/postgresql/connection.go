package postgresql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func ConnectDB(dsn string, logger *zap.Logger) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbpool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Fatal("Ошибка создания пула соединений к БД", zap.Error(err))
	}

	if err := dbpool.Ping(ctx); err != nil {
		logger.Fatal("Не удалось пинговать БД", zap.Error(err))
	}

	logger.Info("✅ Подключено к PostgreSQL")
	return dbpool
}

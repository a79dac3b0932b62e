package agora

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reynal240212/agora-finance/internal/config"
	"github.com/reynal240212/agora-finance/internal/migrations"
	"github.com/reynal240212/agora-finance/internal/storage"
	"github.com/reynal240212/agora-finance/internal/storage/jsonfile"
	"github.com/reynal240212/agora-finance/internal/storage/postgresql"
	redisstore "github.com/reynal240212/agora-finance/internal/storage/redis"
)

// openStore открывает бэкенд из storage.driver и возвращает функцию закрытия.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.RecordStore, func() error, error) {
	const op = "agora.openStore"

	switch cfg.Driver {
	case "postgres":
		pg, err := postgresql.New(ctx, cfg.StorageConnectionString)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		if err = migrations.Run(pg.DB, cfg.MigrationsPath); err != nil {
			_ = pg.Close()
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		if err = pg.CheckDatabaseReady(ctx); err != nil {
			_ = pg.Close()
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		logger.Info("record store opened", slog.String("driver", "postgres"))
		return pg, pg.Close, nil
	case "redis":
		rs, err := redisstore.New(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		logger.Info("record store opened", slog.String("driver", "redis"), slog.String("address", cfg.RedisConnection.AddressRedis))
		return rs, rs.Close, nil
	default:
		logger.Info("record store opened",
			slog.String("driver", "json"),
			slog.String("users_file", cfg.UsersFile),
			slog.String("subscriptions_file", cfg.SubscriptionsFile),
		)
		return jsonfile.New(cfg.UsersFile, cfg.SubscriptionsFile), func() error { return nil }, nil
	}
}

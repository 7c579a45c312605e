package main

import (
	"database/sql"
	"log/slog"
	"os"

	_ "github.com/lib/pq"

	"github.com/Salvatore112/pvz-task/internal/config"
	"github.com/Salvatore112/pvz-task/internal/server"
	"github.com/Salvatore112/pvz-task/internal/storage"
	"github.com/Salvatore112/pvz-task/lib/logger"
)

func main() {
	cfg := config.NewConfig()
	slog.SetDefault(logger.Setup(cfg.Env))

	opts := storage.StorageOpts{
		DriverType: cfg.Driver,
		DriverPath: cfg.DbPath,
	}

	if cfg.Driver == config.PostgresDriverType {
		db, err := sql.Open("postgres", cfg.DbPath)
		if err != nil {
			slog.Error("failed to open database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer db.Close()
		opts.Database = db
	}

	store := storage.NewStorage(opts)
	if store == nil {
		slog.Error("unknown storage driver", slog.String("driver", cfg.Driver))
		os.Exit(1)
	}

	if err := store.Migrate(cfg.MigrationsPath); err != nil {
		slog.Error("migration failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv := server.NewServer(server.ServerOpts{
		Storage: store,
		Config:  cfg,
	})

	slog.Info("starting server",
		slog.String("addr", cfg.Listen),
		slog.String("driver", cfg.Driver),
	)

	if err := srv.Run(cfg.Listen); err != nil {
		slog.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/davomat-uz/davomat-server/internal/app"
	"github.com/davomat-uz/davomat-server/internal/config"
	"github.com/davomat-uz/davomat-server/internal/db"
	"github.com/davomat-uz/davomat-server/internal/jobs"
	"github.com/davomat-uz/davomat-server/internal/logging"
	"github.com/davomat-uz/davomat-server/internal/observability"
	"github.com/davomat-uz/davomat-server/internal/service"
	"github.com/davomat-uz/davomat-server/internal/store"
	storecache "github.com/davomat-uz/davomat-server/internal/store/cache"
	"github.com/davomat-uz/davomat-server/internal/store/pg"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var release = "dev" // подставляется при сборке через -ldflags

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("нет .env, используем переменные окружения")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("конфигурация: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("логгер: %v", err)
	}
	defer lg.Closer()

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, release)
	if err != nil {
		lg.Base.Warn("sentry init failed", zap.Error(err))
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		lg.Base.Fatal("db open", zap.Error(err))
	}
	defer func() { _ = database.Close() }()

	if err := db.Migrate(database); err != nil {
		lg.Base.Fatal("migrate", zap.Error(err))
	}

	pgStore := pg.New(database)

	var st store.Store = pgStore
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			lg.Base.Warn("redis недоступен, кэш выключен", zap.Error(err))
		} else {
			st = storecache.New(pgStore, rdb, cfg.CacheTTL, lg.Base)
			defer func() { _ = rdb.Close() }()
		}
	}

	stats := service.NewStats(st, lg)

	runner := jobs.New(ctx)
	jobs.StartDBPing(runner, database)
	jobs.StartProjectionRefresh(runner, stats, pgStore, 10*time.Minute)

	app.StartHTTP(ctx, cfg.HTTPAddr, database, stats, lg)
	lg.Base.Info("davomat-server started",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("env", cfg.Env))

	<-ctx.Done()
	lg.Base.Info("shutting down")
	// даём HTTP-серверу время на graceful shutdown
	time.Sleep(500 * time.Millisecond)
	_ = os.Stdout.Sync()
}

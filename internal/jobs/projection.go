package jobs

import (
	"context"
	"database/sql"
	"time"

	"github.com/davomat-uz/davomat-server/internal/metrics"
	"github.com/davomat-uz/davomat-server/internal/service"
)

// StartProjectionRefresh — фоновый пересчёт денормализованной копии итогов.
// Дашборд читает её для быстрых списков; правда всегда на стороне
// пересчёта на чтении, поэтому интервал можно держать щедрым.
func StartProjectionRefresh(r *Runner, stats *service.Stats, sink service.ProjectionSink, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	r.Every(interval, "projection_refresh", func(ctx context.Context) error {
		return stats.RefreshProjections(ctx, sink)
	})
}

// StartDBPing — периодический пинг базы в метрики.
func StartDBPing(r *Runner, db *sql.DB) {
	r.Every(30*time.Second, "db_ping", func(ctx context.Context) error {
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		t0 := time.Now()
		if err := db.PingContext(pctx); err != nil {
			return err
		}
		metrics.ObserveDBPing(time.Since(t0))
		return nil
	})
}

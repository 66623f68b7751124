package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/davomat-uz/davomat-server/internal/logging"
	"github.com/davomat-uz/davomat-server/internal/metrics"
	"github.com/davomat-uz/davomat-server/internal/service"
)

type HTTPServer struct {
	srv *http.Server
}

// StartHTTP поднимает API дашборда вместе с /healthz и /metrics.
// db может быть nil (in-memory вариант) — тогда healthz отвечает ok без
// пинга.
func StartHTTP(ctx context.Context, addr string, db *sql.DB, stats *service.Stats, log *logging.Log) *HTTPServer {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 800*time.Millisecond)
			defer cancel()
			t0 := time.Now()
			if err := db.PingContext(ctx); err != nil {
				http.Error(w, "db not ok: "+err.Error(), http.StatusServiceUnavailable)
				return
			}
			metrics.ObserveDBPing(time.Since(t0))
		}
		_, _ = w.Write([]byte("ok"))
	})

	mux.Handle("/metrics", metrics.Handler())

	api := &API{Stats: stats, Log: log}
	api.Mount(mux)

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		_ = srv.ListenAndServe() // закрываем аккуратно при Shutdown
	}()

	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
	}()

	return &HTTPServer{srv: srv}
}

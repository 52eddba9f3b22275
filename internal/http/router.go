// Package httpapi assembles the service's HTTP surface: public reads, the
// authenticated write plane, and the operational endpoints.
package httpapi

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	attesthandler "trustledger/internal/attestation/handler"
	loanshandler "trustledger/internal/loans/handler"
	"trustledger/internal/platform/metrics"
	"trustledger/internal/platform/redis"
	scorehandler "trustledger/internal/score/handler"
	trusthandler "trustledger/internal/trust/handler"
	mwauth "trustledger/pkg/platform/middleware/auth"
	"trustledger/pkg/platform/middleware/requestid"
	"trustledger/pkg/platform/middleware/requesttime"
)

// Deps collects everything the router mounts. DB and Redis may be nil when
// the service runs on in-memory stores.
type Deps struct {
	Trust       *trusthandler.Handler
	Attestation *attesthandler.Handler
	Loans       *loanshandler.Handler
	Score       *scorehandler.Handler

	TokenValidator mwauth.TokenValidator
	HTTPMetrics    *metrics.HTTP
	Logger         *slog.Logger

	DB    *sql.DB
	Redis *redis.Client
}

// NewRouter wires the full route tree. Reads need no caller identity; every
// write goes through the bearer-token middleware so services always see an
// authenticated address.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(deps.HTTPMetrics.Middleware)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", healthHandler(deps.DB, deps.Redis))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		deps.Trust.RegisterPublic(r)
		deps.Attestation.RegisterPublic(r)
		deps.Loans.RegisterPublic(r)
		deps.Score.RegisterPublic(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(mwauth.RequireAuth(deps.TokenValidator, deps.Logger))
		deps.Trust.Register(r)
		deps.Attestation.Register(r)
		deps.Loans.Register(r)
		deps.Score.Register(r)
	})

	return r
}

func healthHandler(db *sql.DB, rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				http.Error(w, "postgres unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		if rdb != nil {
			if err := rdb.Health(ctx); err != nil {
				http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

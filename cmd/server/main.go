package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	attestadapters "trustledger/internal/attestation/adapters"
	attesthandler "trustledger/internal/attestation/handler"
	attestmetrics "trustledger/internal/attestation/metrics"
	attestports "trustledger/internal/attestation/ports"
	attestservice "trustledger/internal/attestation/service"
	atteststore "trustledger/internal/attestation/store"
	"trustledger/internal/audit"
	auditkafka "trustledger/internal/audit/kafka"
	httpapi "trustledger/internal/http"
	"trustledger/internal/jwttoken"
	loanshandler "trustledger/internal/loans/handler"
	loansmetrics "trustledger/internal/loans/metrics"
	loansservice "trustledger/internal/loans/service"
	loansstore "trustledger/internal/loans/store"
	"trustledger/internal/platform/config"
	"trustledger/internal/platform/httpserver"
	"trustledger/internal/platform/logger"
	platformmetrics "trustledger/internal/platform/metrics"
	"trustledger/internal/platform/postgres"
	"trustledger/internal/platform/redis"
	scoreadapters "trustledger/internal/score/adapters"
	scorehandler "trustledger/internal/score/handler"
	scoremetrics "trustledger/internal/score/metrics"
	scoreports "trustledger/internal/score/ports"
	scoreservice "trustledger/internal/score/service"
	truststore "trustledger/internal/trust/store"

	trusthandler "trustledger/internal/trust/handler"
	trustmetrics "trustledger/internal/trust/metrics"
	trustservice "trustledger/internal/trust/service"

	id "trustledger/pkg/domain"
)

// ownerSeeder is implemented by every trust store variant. Seeding only takes
// effect on first boot; an existing owner is never overwritten.
type ownerSeeder interface {
	EnsureOwner(ctx context.Context, owner id.Address) error
}

// main wires stores, services, and transport, then runs the HTTP server and
// the audit worker until a shutdown signal arrives.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(cfg.PostgresURL)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.Error("schema setup failed", "error", err)
			os.Exit(1)
		}
	}

	rdb, err := redis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	// Audit pipeline: services emit into the publisher, the worker drains into
	// the store and, when configured, mirrors to Kafka.
	auditPub := audit.NewPublisher(0, log)
	var auditStore audit.Store
	var sinks []audit.Sink
	if db != nil {
		auditStore = audit.NewPostgresStore(db)
	} else {
		auditStore = audit.NewInMemoryStore()
	}
	if len(cfg.KafkaBrokers) > 0 {
		sink, err := auditkafka.NewSink(ctx, cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			log.Error("kafka audit sink setup failed", "error", err)
			os.Exit(1)
		}
		defer sink.Close()
		sinks = append(sinks, sink)
	}
	auditWorker := audit.NewWorker(auditStore, auditPub.Inbox(), log, sinks...)

	// Trust registry, optionally cached in Redis.
	trustMetrics := trustmetrics.New()
	var inner truststore.Inner
	if db != nil {
		inner = truststore.NewPostgres(db)
	} else {
		inner = truststore.NewInMemoryStore()
	}
	var trustStore trustservice.Store = inner
	var seeder ownerSeeder = inner
	if rdb != nil {
		cached := truststore.NewCached(inner, rdb.Client, cfg.TrustCacheTTL, trustMetrics)
		trustStore, seeder = cached, cached
	}
	if cfg.OwnerAddress != "" {
		owner, err := id.ParseAddress(cfg.OwnerAddress)
		if err != nil {
			log.Error("invalid REGISTRY_OWNER", "error", err)
			os.Exit(1)
		}
		if err := seeder.EnsureOwner(ctx, owner); err != nil {
			log.Error("owner seeding failed", "error", err)
			os.Exit(1)
		}
	}
	trustSvc, err := trustservice.New(trustStore, log, trustMetrics, auditPub)
	if err != nil {
		log.Error("trust service setup failed", "error", err)
		os.Exit(1)
	}

	// Attestation ledger, consulting the local registry by default.
	var attestStore attestservice.Store
	if db != nil {
		attestStore = atteststore.NewPostgres(db)
	} else {
		attestStore = atteststore.NewInMemoryStore()
	}
	localOracle := func() attestports.TrustOracle {
		return attestadapters.NewLocalTrustOracle(trustSvc)
	}
	attestSvc, err := attestservice.New(attestStore, localOracle(), trustSvc, log, attestmetrics.New(), auditPub)
	if err != nil {
		log.Error("attestation service setup failed", "error", err)
		os.Exit(1)
	}

	// Loan-compliance ledger.
	var loanStore loansservice.Store
	if db != nil {
		loanStore = loansstore.NewPostgres(db)
	} else {
		loanStore = loansstore.NewInMemoryStore()
	}
	loansSvc, err := loansservice.New(loanStore, log, loansmetrics.New(), auditPub)
	if err != nil {
		log.Error("loans service setup failed", "error", err)
		os.Exit(1)
	}

	// Score calculator, reading the local attestation ledger by default.
	localSource := func() scoreports.AttestationSource {
		return scoreadapters.NewLocalAttestationSource(attestSvc)
	}
	scoreSvc, err := scoreservice.New(localSource(), trustSvc, log, scoremetrics.New(), auditPub)
	if err != nil {
		log.Error("score service setup failed", "error", err)
		os.Exit(1)
	}

	tokens := jwttoken.NewService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)

	router := httpapi.NewRouter(httpapi.Deps{
		Trust:          trusthandler.New(trustSvc, log),
		Attestation:    attesthandler.New(attestSvc, localOracle, log),
		Loans:          loanshandler.New(loansSvc, log),
		Score:          scorehandler.New(scoreSvc, localSource, log),
		TokenValidator: tokens,
		HTTPMetrics:    platformmetrics.NewHTTP(),
		Logger:         log,
		DB:             db,
		Redis:          rdb,
	})
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return auditWorker.Run(gctx)
	})
	g.Go(func() error {
		log.Info("trustledger listening", "addr", cfg.Addr, "postgres", db != nil, "redis", rdb != nil, "kafka", len(cfg.KafkaBrokers) > 0)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

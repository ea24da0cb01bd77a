package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"

	"badgehub/internal/assertion"
	"badgehub/internal/audit"
	"badgehub/internal/award"
	"badgehub/internal/catalog"
	"badgehub/internal/identity"
	"badgehub/internal/issuer"
	"badgehub/internal/platform/config"
	"badgehub/internal/platform/httpserver"
	"badgehub/internal/platform/logger"
	"badgehub/internal/platform/metrics"
	platformredis "badgehub/internal/platform/redis"
	"badgehub/internal/revocation"
	"badgehub/internal/storage"
	httptransport "badgehub/internal/transport/http"
	"badgehub/internal/users"
	dErrors "badgehub/pkg/domain-errors"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("configuration error", "error", err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := buildStores(ctx, cfg, log)
	if err != nil {
		log.Error("storage setup failed", "error", err.Error())
		os.Exit(1)
	}

	m := metrics.New()
	auditor := audit.NewPublisher(log)
	sink, closeSink, err := buildAuditSink(cfg)
	if err != nil {
		log.Error("audit sink setup failed", "error", err.Error())
		os.Exit(1)
	}
	defer closeSink()

	identitySvc := identity.NewService(stores.identities)
	userSvc := users.NewService(stores.users, identitySvc)
	catalogSvc := catalog.NewService(stores.badges, stores.criteria, stores.media, cfg.BaseURL)
	issuerSvc := issuer.NewService(stores.issuers, stores.media, cfg.BaseURL)
	revocationSvc := revocation.NewService(stores.revocations, stores.awards, auditor, m)
	awardSvc := award.NewService(stores.awards, stores.badges, stores.users, stores.media,
		identitySvc, auditor, m, cfg.BaseURL)
	assertionSvc := assertion.NewService(awardSvc, catalogSvc, revocationSvc, stores.users, m)

	// An unconfigured issuer is a deployment mistake, surfaced loudly at
	// startup; the organization endpoint keeps erroring until fixed.
	if _, err := issuerSvc.Get(ctx); dErrors.Is(err, dErrors.CodeNotConfigured) {
		log.Warn("no issuer configured; /organization/ will fail until one is saved")
	}

	handler := httptransport.NewHandler(log, userSvc, catalogSvc, issuerSvc,
		awardSvc, revocationSvc, assertionSvc, stores.media)
	router := httptransport.NewRouter(handler, log)
	srv := httpserver.New(cfg.Addr, router)

	worker := audit.NewWorker(sink, auditor.Events(), log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting badgehub", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		err := worker.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err.Error())
		os.Exit(1)
	}
}

type storeSet struct {
	users       storage.UserStore
	identities  storage.IdentityStore
	badges      storage.BadgeStore
	criteria    storage.CriterionStore
	awards      storage.AwardStore
	issuers     storage.IssuerStore
	revocations storage.RevocationStore
	media       storage.MediaStore
}

// buildStores selects PostgreSQL persistence when a database URL is
// configured and falls back to in-memory stores otherwise. A Redis URL
// swaps in the shared revocation registry regardless of the primary store.
func buildStores(ctx context.Context, cfg config.Server, log *slog.Logger) (storeSet, error) {
	var stores storeSet
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return storeSet{}, err
		}
		if err := db.PingContext(ctx); err != nil {
			return storeSet{}, err
		}
		if err := storage.RunMigrations(ctx, db); err != nil {
			return storeSet{}, err
		}
		stores = storeSet{
			users:       storage.NewPostgresUserStore(db),
			identities:  storage.NewPostgresIdentityStore(db),
			badges:      storage.NewPostgresBadgeStore(db),
			criteria:    storage.NewPostgresCriterionStore(db),
			awards:      storage.NewPostgresAwardStore(db),
			issuers:     storage.NewPostgresIssuerStore(db),
			revocations: storage.NewPostgresRevocationStore(db),
			media:       storage.NewPostgresMediaStore(db),
		}
	} else {
		log.Warn("no database configured, using in-memory stores")
		stores = storeSet{
			users:       storage.NewInMemoryUserStore(),
			identities:  storage.NewInMemoryIdentityStore(),
			badges:      storage.NewInMemoryBadgeStore(),
			criteria:    storage.NewInMemoryCriterionStore(),
			awards:      storage.NewInMemoryAwardStore(),
			issuers:     storage.NewInMemoryIssuerStore(),
			revocations: storage.NewInMemoryRevocationStore(),
			media:       storage.NewInMemoryMediaStore(),
		}
	}

	if cfg.RedisURL != "" {
		client, err := platformredis.New(cfg.RedisURL)
		if err != nil {
			return storeSet{}, err
		}
		stores.revocations = revocation.NewRedisStore(client.Client)
	}
	return stores, nil
}

func buildAuditSink(cfg config.Server) (audit.Sink, func(), error) {
	if len(cfg.KafkaBrokers) > 0 {
		sink, err := audit.NewKafkaSink(cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			return nil, nil, err
		}
		return sink, sink.Close, nil
	}
	return audit.NewMemorySink(), func() {}, nil
}

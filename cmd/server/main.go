package main

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bakery-be/internal/analytics"
	"bakery-be/internal/cart"
	"bakery-be/internal/checkout"
	"bakery-be/internal/config"
	"bakery-be/internal/db"
	"bakery-be/internal/httpapi"
	"bakery-be/internal/logger"
	"bakery-be/internal/metrics"
	"bakery-be/internal/middleware"
	"bakery-be/internal/order"
	"bakery-be/internal/payment"
	"bakery-be/internal/product"
	"bakery-be/internal/store"
	"bakery-be/internal/user"
	"bakery-be/internal/voucher"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const (
	recordTTL       = 30 * 24 * time.Hour
	productCacheTTL = time.Minute
	shutdownTimeout = 10 * time.Second
)

var (
	initDBFunc      = db.InitDB
	startServerFunc = func(srv *http.Server) error { return srv.ListenAndServe() }
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	var database *sql.DB
	if cfg.HasDatabase() {
		database = initDBFunc(cfg)
		defer database.Close()
	}

	srv := newServer(cfg, database)
	defer srv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go srv.limiter.Run(ctx)

	httpServer := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("bakery server listening", zap.String("addr", httpServer.Addr))
		errCh <- startServerFunc(httpServer)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// server is the wired application. Close releases the analytics publisher.
type server struct {
	http.Handler
	limiter *middleware.RateLimiter
	closers []io.Closer
}

func (s *server) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// newServer wires every component. Without a database the catalog is the
// built-in one and the admin order mirror lives in the record store.
func newServer(cfg *config.Config, database *sql.DB) *server {
	log := logger.L()
	srv := &server{limiter: middleware.NewRateLimiter()}

	var backend store.Store = store.NewMemoryStore()
	if cfg.RedisAddr != "" {
		backend = store.NewRedisStore(store.NewRedisClient(cfg.RedisAddr), recordTTL)
		log.Info("record store: redis", zap.String("addr", cfg.RedisAddr))
	}
	records := store.NewGuarded(backend, store.BreakerSettings{Name: "records"})

	var (
		source   product.Catalog = product.DefaultCatalog()
		admin    order.Ledger    = order.NewAdminStoreLedger(records)
		profiles user.ProfileRepository
	)
	if database != nil {
		source = product.NewRepository(database)
		admin = order.NewRepository(database)
		profiles = user.NewRepository(database)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	trackers := []analytics.Tracker{analytics.LogTracker{}, analytics.NewPrometheusTracker(reg)}
	if client := analytics.NewClient(cfg.KafkaBrokers); client.Enabled() {
		kt := analytics.NewKafkaTracker(client.NewWriter(cfg.AnalyticsTopic), 0)
		trackers = append(trackers, kt)
		srv.closers = append(srv.closers, kt)
		log.Info("analytics: kafka", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.AnalyticsTopic))
	}
	tracker := analytics.Multi(trackers...)
	notifier := analytics.LogNotifier{}

	products := product.NewService(source, productCacheTTL)
	vouchers := voucher.NewDefaultResolver()
	carts := cart.NewService(products, vouchers, records)
	drafts := checkout.NewStore(records)
	orders := order.NewService(order.NewStoreLedger(records), admin)

	payments := payment.NewService(payment.Deps{
		Carts:     carts,
		Drafts:    drafts,
		Assembler: order.NewAssembler(products),
		Orders:    orders,
		Vouchers:  vouchers,
		Tracker:   tracker,
		Notifier:  notifier,
	}, payment.Config{
		Window:          cfg.PaymentWindow,
		ProcessingDelay: cfg.PaymentProcessing,
	})

	api := httpapi.NewHandler(httpapi.Deps{
		Products: products,
		Carts:    carts,
		Drafts:   drafts,
		Vouchers: vouchers,
		Payments: payments,
		Orders:   orders,
		Users:    user.NewService(records, profiles),
		Tracker:  tracker,
		Notifier: notifier,
	})

	srv.Handler = setupRouter(api, routerDeps{
		Auth:     middleware.NewAuthenticator(cfg.JWTSecret),
		Limiter:  srv.limiter,
		Metrics:  metrics.NewHTTP(reg),
		Gatherer: reg,
	})
	return srv
}

type routerDeps struct {
	Auth     *middleware.Authenticator
	Limiter  *middleware.RateLimiter
	Metrics  *metrics.HTTP
	Gatherer prometheus.Gatherer
}

func setupRouter(api *httpapi.Handler, d routerDeps) chi.Router {
	r := chi.NewRouter()
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	if d.Metrics != nil {
		r.Use(middleware.Instrument(d.Metrics))
	}
	if d.Auth != nil {
		r.Use(d.Auth.Middleware)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	if d.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(d.Gatherer))
	}

	r.Group(func(r chi.Router) {
		if d.Limiter != nil {
			r.Use(d.Limiter.Limit(middleware.TierGeneral))
		}
		api.Register(r, d.Limiter)
	})
	return r
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"stayvia/backend"
	"stayvia/bookings"
	"stayvia/config"
	"stayvia/db"
	"stayvia/drafts"
	"stayvia/jobs"
	"stayvia/mailer"
	"stayvia/middleware"
	"stayvia/pay"
	"stayvia/ratelim"
	"stayvia/rdx"
	"stayvia/receipts"
	"stayvia/routes"
	"stayvia/verify"
)

const defaultRedisAddr = "localhost:6379"

// openDraftStore connects the configured draft store. The returned memory
// store is non-nil only for the in-process store, which the janitor sweeps.
func openDraftStore(ctx context.Context, cfg config.Config) (drafts.Store, *drafts.MemoryStore, error) {
	switch cfg.DraftStore {
	case config.StoreRedis:
		addr := cfg.RedisAddr
		if addr == "" {
			addr = defaultRedisAddr
		}
		if err := rdx.Init(ctx, addr, cfg.RedisPassword); err != nil {
			return nil, nil, err
		}
		return drafts.NewRedisStore(), nil, nil
	case config.StoreMongo:
		if err := db.Init(ctx, cfg.MongoURI, cfg.MongoDB); err != nil {
			return nil, nil, err
		}
		store := drafts.NewMongoStore(db.DraftsCollection)
		if err := store.EnsureIndexes(ctx); err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	}
	mem := drafts.NewMemoryStore()
	return mem, mem, nil
}

// checkoutLocker uses redis whenever a redis server is configured so that
// the in-flight guard holds across instances.
func checkoutLocker(ctx context.Context, cfg config.Config) pay.Locker {
	if rdx.Conn == nil && cfg.RedisAddr != "" {
		if err := rdx.Init(ctx, cfg.RedisAddr, cfg.RedisPassword); err != nil {
			logrus.WithError(err).Warn("redis unavailable; checkout lock is local to this instance")
			return pay.NewLocalLocker()
		}
	}
	if rdx.Conn != nil {
		return pay.RedisLocker{}
	}
	return pay.NewLocalLocker()
}

func receiptSender(cfg config.Config, client *backend.Client) receipts.Sender {
	if !cfg.SMTP.Enabled() {
		return receipts.BackendSender{Client: client}
	}
	s, err := mailer.New(cfg.SMTP, cfg.Location)
	if err != nil {
		logrus.WithError(err).Warn("SMTP not usable; receipts are sent by the backend")
		return receipts.BackendSender{Client: client}
	}
	return s
}

func main() {
	cfg := config.Load()
	cfg.ConfigureLogging()
	if err := cfg.Check(); err != nil {
		logrus.WithError(err).Fatal("config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	client, err := backend.NewClient(cfg.APIBaseURL, cfg.BackendTimeout)
	if err != nil {
		logrus.WithError(err).Fatal("backend client")
	}
	store, mem, err := openDraftStore(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("draft store")
	}
	locker := checkoutLocker(ctx, cfg)
	cancel()

	handoff := drafts.NewHandoff(store, drafts.NewTokens(cfg.DraftSecret), cfg.DraftTTL)
	rateLimiter := ratelim.NewRateLimiter(cfg.RateLimitPerSec, 3)

	sched, err := jobs.Janitor{Drafts: mem, Limiter: rateLimiter}.Start(time.Minute)
	if err != nil {
		logrus.WithError(err).Fatal("janitor")
	}

	router := httprouter.New()
	routes.RoutesWrapper(router, routes.Services{
		Identity: middleware.NewIdentity(client),
		Limiter:  rateLimiter,
		Bookings: bookings.NewHandlers(client, handoff, cfg.VerifyItemPrice, cfg.Location),
		Checkout: pay.NewService(handoff, client, locker, cfg.CommitTimeout, cfg.PublicBaseURL),
		Receipts: receipts.NewHandlers(client, receiptSender(cfg, client), cfg.PublicBaseURL, cfg.Location),
		Verify:   verify.NewHandlers(client, cfg.PublicBaseURL),
	})

	// CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	}).Handler(router)

	handler := middleware.RequestLogger(middleware.SecurityHeaders(corsHandler))

	// the write timeout leaves room for the commit call
	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      cfg.CommitTimeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		shutdown(sched)
	})

	go func() {
		logrus.WithField("addr", cfg.Port).Info("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("ListenAndServe")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logrus.Info("shutdown signal received; shutting down gracefully")
	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("graceful shutdown failed")
	}
	if err := db.Close(ctx); err != nil {
		logrus.WithError(err).Warn("close MongoDB")
	}
	if err := rdx.Close(); err != nil {
		logrus.WithError(err).Warn("close redis")
	}
	logrus.Info("server stopped cleanly")
}

func shutdown(sched gocron.Scheduler) {
	if err := sched.Shutdown(); err != nil {
		logrus.WithError(err).Warn("stop janitor")
	}
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"pillflow-backend/config"
	"pillflow-backend/controllers"
	"pillflow-backend/events"
	"pillflow-backend/routes"
	"pillflow-backend/services"
	"pillflow-backend/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := config.InitLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	logger.Info("starting", cfg.Fields()...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}

	bus, err := openBus(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect change bus", zap.Error(err))
	}
	defer bus.Close()

	svc := services.New(st, bus, logger, services.Options{
		StrictCustomerIDScope:    cfg.Flags.StrictCustomerIDScope,
		ScopePackChecksToOwner:   cfg.Flags.ScopePackChecksToOwner,
		CascadeCustomerDelete:    cfg.Flags.CascadeCustomerDelete,
		EnforceDeliveryDirection: cfg.Flags.EnforceDeliveryDirection,
	})

	if cfg.RemindersEnabled() {
		sender := services.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber)
		reminders := services.NewReminderService(st, sender, services.ReminderConfig{
			Schedule: cfg.ReminderSchedule,
			After:    cfg.ReminderAfter,
			To:       cfg.ReminderTo,
		}, logger)
		if err := reminders.StartScheduler(); err != nil {
			logger.Fatal("failed to start reminder scheduler", zap.Error(err))
		}
		defer reminders.Stop()
	}

	ctl := controllers.New(svc, bus, logger)
	r := routes.SetupRouter(cfg, ctl, logger)
	printRoutes(r, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv.RegisterOnShutdown(ctl.CloseStreams)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()
	logger.Info("listening", zap.String("addr", srv.Addr))

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}

func openStore(cfg *config.Config, logger *zap.Logger) (store.Store, error) {
	if cfg.DBURL == "" {
		logger.Warn("DB_URL not set, keeping records in memory")
		return store.NewMemoryStore(), nil
	}
	db, err := config.ConnectDB(cfg)
	if err != nil {
		return nil, err
	}
	st := store.NewGormStore(db)
	if err := st.Migrate(); err != nil {
		return nil, err
	}
	return st, nil
}

func openBus(ctx context.Context, cfg *config.Config, logger *zap.Logger) (events.Bus, error) {
	if cfg.RedisAddr == "" {
		return events.NewLocalBus(), nil
	}
	bus := events.NewRedisBus(events.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB), events.DefaultChannel, logger)
	if err := bus.Ping(ctx); err != nil {
		bus.Close()
		return nil, err
	}
	return bus, nil
}

func printRoutes(r *gin.Engine, logger *zap.Logger) {
	for _, route := range r.Routes() {
		logger.Debug("route", zap.String("method", route.Method), zap.String("path", route.Path))
	}
}

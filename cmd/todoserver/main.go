package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todoweb/internal/auth"
	"todoweb/internal/config"
	"todoweb/internal/identity"
	"todoweb/internal/repository"
	"todoweb/internal/server"
	"todoweb/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var (
		todoRepo    repository.TodoRepository
		categoryReg repository.CategoryRegistry
		userRepo    repository.UserRepository
	)
	switch cfg.StorageBackend {
	case config.BackendMemory:
		store := repository.NewMemoryStore()
		todoRepo, categoryReg, userRepo = store.Todos(), store.Categories(), store.Users()
	case config.BackendFile:
		store, err := repository.NewFileStore(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("file store: %v", err)
		}
		todoRepo, categoryReg, userRepo = store.Todos(), store.Categories(), store.Users()
	case config.BackendSQLite:
		db, err := repository.NewDB(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		todoRepo = repository.NewSQLTodoRepository(db)
		categoryReg = repository.NewSQLCategoryRegistry(db)
		userRepo = repository.NewSQLUserRepository(db)
	}

	todoSvc := service.NewTodoService(todoRepo, categoryReg)
	categorySvc := service.NewCategoryService(categoryReg)
	overdueSvc := service.NewOverdueService(todoRepo, userRepo)

	opts := server.Options{
		Todos:      todoSvc,
		Categories: categorySvc,
		AuthMode:   cfg.AuthMode,
	}
	if cfg.AuthMode == config.AuthModePassword {
		issuer := auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.SessionTTL)
		opts.Accounts = auth.NewService(userRepo, issuer)
		opts.Resolver = identity.NewStrict(userRepo)
	} else {
		opts.Resolver = identity.NewAutoProvision(userRepo)
	}
	srv := server.New(opts)

	scheduler := service.NewSchedulerService(time.Local)
	sweep := func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		overdueSvc.LogSweep(jobCtx)
	}
	switch {
	case cfg.OverdueAt != "":
		if _, err := scheduler.ScheduleDaily(cfg.OverdueAt, sweep); err != nil {
			log.Fatalf("schedule overdue sweep: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	case cfg.OverdueInterval > 0:
		if _, err := scheduler.ScheduleInterval(cfg.OverdueInterval, sweep); err != nil {
			log.Fatalf("schedule overdue sweep: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("todo server listening on %s (backend=%s, auth=%s)", cfg.HTTPAddr, cfg.StorageBackend, cfg.AuthMode)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GregMSThompson/pennyweek/internal/bootstrap"
	"github.com/GregMSThompson/pennyweek/internal/config"
	"github.com/GregMSThompson/pennyweek/internal/handlers"
	"github.com/GregMSThompson/pennyweek/internal/middleware"
	"github.com/GregMSThompson/pennyweek/internal/response"
	"github.com/GregMSThompson/pennyweek/internal/router"
	"github.com/GregMSThompson/pennyweek/internal/services"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	config.LoadDotEnv()
	cfg := config.New()
	bs, err := bootstrap.Run(cfg, true)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// services
	stores := bs.Stores
	rserv := services.NewRecurringService(stores.Recurring, stores.Users, nil)
	aserv := services.NewAuthService(stores.Users, bs.Tokens, nil)
	userv := services.NewUserService(stores.Users, bs.Photos, nil)
	tserv := services.NewTransactionService(stores.Transactions, stores.Users, rserv, nil)
	bserv := services.NewBudgetService(stores.Budgets, stores.Transactions, stores.Users, rserv, nil)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.AuthSvc = aserv
	deps.UserSvc = userv
	deps.TransactionSvc = tserv
	deps.RecurringSvc = rserv
	deps.BudgetSvc = bserv

	mw := middleware.NewMiddleware(bs.Verifier, stores.Users, rh)

	// router
	r := router.NewRouter(deps, mw, router.Options{
		CORSOrigins: cfg.CORSOrigins,
		UploadDir:   bs.UploadDir,
	})
	srv := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		bs.Log.Info("api listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			exitOnError("server start failed", err, bs.Log)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		bs.Log.Warn("graceful shutdown failed", "error", err)
	}
}

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/GregMSThompson/pennyweek/internal/bootstrap"
	"github.com/GregMSThompson/pennyweek/internal/config"
	"github.com/GregMSThompson/pennyweek/internal/services"
	"github.com/GregMSThompson/pennyweek/pkg/logger"
)

// sweepTimeout bounds one ExpandDue run so a stuck store call cannot pile up
// overlapping sweeps.
const sweepTimeout = 10 * time.Minute

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	config.LoadDotEnv()
	cfg := config.New()
	bs, err := bootstrap.Run(cfg, false)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	rserv := services.NewRecurringService(bs.Stores.Recurring, bs.Stores.Users, nil)

	sweep := func() {
		log := bs.Log.With("job", "expand_recurring")
		ctx, cancel := context.WithTimeout(logger.ToContext(context.Background(), log), sweepTimeout)
		defer cancel()

		if _, err := rserv.ExpandDue(ctx); err != nil {
			log.Error("expansion sweep failed", "error", err)
		}
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(cfg.ExpansionCron, sweep); err != nil {
		exitOnError("invalid EXPANSION_CRON", err, bs.Log)
	}
	c.Start()
	bs.Log.Info("worker started", "schedule", cfg.ExpansionCron)

	// catch up immediately rather than waiting for the first tick
	go sweep()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	<-c.Stop().Done()
	bs.Log.Info("worker stopped")
}

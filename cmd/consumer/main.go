// Command consumer reads auth events from RabbitMQ and appends them to the
// audit log.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/iliyamo/animula-auth/internal/config"
	"github.com/iliyamo/animula-auth/internal/logging"
	"github.com/iliyamo/animula-auth/internal/queue"
)

func main() {
	cfg := config.LoadConsumer()
	log := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)

	// Stop consuming on Ctrl+C or a container stop.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info(ctx, "audit consumer starting", "queue", queue.AuthEventsQueue, "dir", cfg.AuditLogDir)
	err := queue.StartAuditConsumer(ctx, cfg.RabbitMQURL, queue.NewAuditLog(cfg.AuditLogDir), log)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error(ctx, "audit consumer stopped", "err", err)
		os.Exit(1)
	}
}

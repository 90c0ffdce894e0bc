package main

import (
	"context"
	"errors"
	"os"

	"receita/internal/amqp"
	"receita/internal/cli"
	applog "receita/internal/log"
	"receita/internal/worker"
)

func main() {
	cfg, logger := cli.Bootstrap(applog.ComponentWorker)

	if !cfg.AMQPEnabled() {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := cli.ShutdownContext(logger)
	defer stop()

	logger.Info("Starting receita-worker", "queue", cfg.AMQPQueue, "db", repo.Path(), applog.FieldOperation, applog.OpStartup)
	if err := worker.NewEventWorker(repo).Run(ctx, client); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}

package main

import (
	"context"
	"os"

	"budget/internal/cli"
	"budget/internal/log"
	"budget/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger("info")
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.LogLevel).WithComponent(log.ComponentWorker)

	logger.Info("Starting alert-worker", log.FieldOperation, log.OpStartup)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the alert worker")
		os.Exit(1)
	}

	amqpClient, err := cli.DialAMQP(logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}

	alerts := worker.NewAlertWorker(logger)

	err = cli.RunUntilSignal(context.Background(), logger, func(ctx context.Context) error {
		return amqpClient.ConsumeAnomalyAlerts(ctx, alerts.HandleAnomalyAlert)
	})
	if code := cli.ExitCode(logger, err, amqpClient); code != 0 {
		os.Exit(code)
	}

	for _, t := range alerts.Summary() {
		logger.Info("Alert tally",
			log.FieldCategory, t.Category,
			"alerts", t.Count,
			"max_z", t.MaxZ.StringFixed(2),
			"total", t.Total.StringFixed(2))
	}
	logger.Info("Worker shutdown complete", log.FieldOperation, log.OpShutdown)
}

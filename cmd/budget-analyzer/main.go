package main

import (
	"context"
	"os"

	"budget/internal/budget"
	"budget/internal/cache"
	"budget/internal/cli"
	"budget/internal/console"
	"budget/internal/core"
	"budget/internal/log"
	"budget/internal/services"
)

func main() {
	cli.LoadEnvFile()

	// Bootstrap at info until the configured level is known.
	logger := cli.SetupLogger("info")
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.LogLevel)

	logger.Info("Starting budget-analyzer",
		log.FieldOperation, log.OpStartup,
		log.FieldBudget, cfg.MonthlyBudget.String(),
		"policy", cfg.AggregationPolicy)

	// Alerts are optional; the session runs without them.
	var publisher services.AlertPublisher
	amqpClient, err := cli.DialAMQP(logger, cfg)
	if err != nil {
		logger.Warn("Anomaly alerts disabled", log.FieldError, err)
	} else if amqpClient != nil {
		publisher = amqpClient
	}

	ledger := core.NewLedger(cfg.MonthlyBudget, cfg.Policy())
	analyzer := services.NewAnalyzer(
		ledger,
		budget.NewEvaluator(cfg.Thresholds()),
		cfg.Detector(),
		cache.NewLRUCache[any](cfg.ViewCacheSize, cfg.ViewCacheTTL),
		publisher,
		logger,
	)
	logger.Info("Session started", log.FieldSessionID, analyzer.SessionID())

	session := console.NewSession(analyzer, os.Stdin, os.Stdout, logger)
	runErr := cli.RunUntilSignal(context.Background(), logger, session.Run)
	if code := cli.ExitCode(logger, runErr, analyzer); code != 0 {
		os.Exit(code)
	}

	logger.Info("Session ended", log.FieldOperation, log.OpShutdown)
}

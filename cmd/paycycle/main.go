package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/mrosner/paycycle/internal/config"
	"github.com/mrosner/paycycle/internal/engine"
	"github.com/mrosner/paycycle/internal/server"
	"github.com/mrosner/paycycle/pkg/constants"
	"github.com/mrosner/paycycle/pkg/output"
	"github.com/mrosner/paycycle/pkg/validation"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "dev"

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	// Configure output file if specified
	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

func main() {
	planLocation := flag.String("config", constants.DefaultPlanFile, "path to plan file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	cyclesFlag := flag.Int("cycles", 0, "number of projection cycles override")
	serve := flag.Bool("serve", false, "serve the plan API instead of printing output")
	addr := flag.String("addr", constants.DefaultServerAddress, "listen address for -serve")
	flag.Parse()

	plan, err := config.LoadPlan(*planLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load plan at %s\", \"error\": \"%v\"}\n", *planLocation, err)
		return
	}

	logger, err := initializeLogger(plan.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	if *serve {
		handler := server.NewHandler(logger, constants.DefaultMaxBodyBytes, version)
		logger.Info("serving plan API",
			zap.String("op", "main"),
			zap.String("addr", *addr),
		)
		if err := http.ListenAndServe(*addr, handler); err != nil {
			logger.Fatal("server failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		return
	}

	// Determine output format (CLI override takes precedence over config)
	outputFormat := plan.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	// Validate the plan and display any warnings
	for _, warning := range plan.Validate() {
		logger.Warn("Plan warning: "+warning,
			zap.String("op", "main"),
		)
	}

	items, err := plan.Items()
	if err != nil {
		logger.Fatal("failed to convert plan items",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Run the aggregation and projection on the recompute worker.
	worker := engine.NewWorker(logger)
	defer worker.Close()

	at := time.Now()
	result, err := worker.Recompute(context.Background(), engine.Request{
		Items:  items,
		At:     at,
		Cycles: resolveCycles(*cyclesFlag, plan),
		PayDay: plan.PayDayOrDefault(),
	})
	if err != nil {
		logger.Fatal("failed to compute plan",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyStats(result.Stats, at)
		fmt.Printf("\n")
		output.PrettyProjection(result.Projection)
	case constants.OutputFormatCSV:
		output.StatsCSV(result.Stats, at)
		fmt.Printf("\n")
		output.ProjectionCSV(result.Projection)
	}
}

// resolveCycles determines the projection length (CLI override takes
// precedence over config).
func resolveCycles(override int, plan *config.Plan) int {
	if override > 0 {
		return override
	}
	return plan.CyclesOrDefault()
}

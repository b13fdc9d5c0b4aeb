package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pobradovic08/bgpdecode/bgp"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "kafka":
		runKafka(os.Args[2:])
	case "mrtfile":
		runMRTFile(os.Args[2:])
	case "--help", "-h", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: bgpdump <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  kafka           Consume OpenBMP frames from Kafka and decode them")
	fmt.Println("  mrtfile <path>  Decode an MRT archive file (.mrt, .mrt.gz, .mrt.zst)")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config <path>   Path to configuration YAML file")
	fmt.Println("  --log-level <lvl> Override log level (debug, info, warn, error)")
}

func parseFlags(args []string) (configPath, logLevel string, rest []string) {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--config":
			if i+1 < len(args) {
				configPath = args[i+1]
				i++
				continue
			}
		case "--log-level":
			if i+1 < len(args) {
				logLevel = args[i+1]
				i++
				continue
			}
		}
		rest = append(rest, args[i])
	}
	return
}

func bootstrap(args []string) (*Config, *zap.Logger, []string) {
	configPath, logLevelOverride, rest := parseFlags(args)

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if logLevelOverride != "" {
		cfg.Service.LogLevel = logLevelOverride
	}

	logger, err := initLogger(cfg.Service.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}

	return cfg, logger, rest
}

func decoderOptions(cfg *Config) *bgp.DecoderOptions {
	return &bgp.DecoderOptions{
		ASN4Byte:             cfg.Source.ASN4Byte,
		IgnoreNotImplemented: true,
	}
}

func runKafka(args []string) {
	cfg, logger, _ := bootstrap(args)
	defer logger.Sync()

	if err := cfg.validateForKafka(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	registerMetrics()
	httpSrv := newMetricsServer(cfg.Service.HTTPListen)
	go func() {
		if err := httpSrv.Start(); err != nil {
			logger.Error("metrics server stopped", zap.Error(err))
		}
	}()

	src, err := newKafkaSource(cfg, decoderOptions(cfg), logger)
	if err != nil {
		logger.Fatal("failed to start kafka source", zap.Error(err))
	}
	defer src.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting bgpdump kafka consumer",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.Strings("topics", cfg.Kafka.Topics),
	)
	src.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown failed", zap.Error(err))
	}
}

func runMRTFile(args []string) {
	cfg, logger, rest := bootstrap(args)
	defer logger.Sync()

	registerMetrics()

	if len(rest) == 0 {
		fmt.Fprintln(os.Stderr, "mrtfile: a file path is required")
		os.Exit(1)
	}

	for _, path := range rest {
		if err := readMRTFile(path, decoderOptions(cfg), logger); err != nil {
			logger.Error("mrt file: failed", zap.String("path", path), zap.Error(err))
		}
	}
}

package main

import (
	"context"
	goflag "flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/zapr"
	"github.com/runningman84/status-display/pkg/collector"
	"github.com/runningman84/status-display/pkg/config"
	"github.com/runningman84/status-display/pkg/display"
	"github.com/runningman84/status-display/pkg/operator"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"k8s.io/klog/v2"
)

// Version can be set at build time using -ldflags
// Example: go build -ldflags="-X main.Version=1.0.0"
var Version = "dev"

func main() {
	// Initialize klog first so its flags can be folded into ours
	klog.InitFlags(nil)

	flagSet := pflag.NewFlagSet("status-display", pflag.ExitOnError)
	mode := flagSet.String("mode", config.ModeDirect, "Operation mode: test or direct")
	configPath := flagSet.String("config", "", "Optional YAML configuration file")
	width := flagSet.Int("width", 128, "Width of the display")
	height := flagSet.Int("height", 32, "Height of the display")
	mountPoint := flagSet.StringP("mountpoint", "m", "/", "Mount point whose disk usage is shown")
	interval := flagSet.Duration("interval", 5*time.Minute, "Time between display refreshes")
	once := flagSet.Bool("once", false, "Render a single frame and exit")
	logLevel := flagSet.String("log-level", "info", "Log level: info or debug")
	logFormat := flagSet.String("log-format", "text", "Log format: text or json")
	showVersion := flagSet.Bool("version", false, "Show version and exit")
	flagSet.AddGoFlagSet(goflag.CommandLine)
	flagSet.Parse(os.Args[1:])

	// Show version if requested
	if *showVersion {
		fmt.Printf("status-display version %s\n", Version)
		return
	}

	// Validate log level
	if *logLevel != "info" && *logLevel != "debug" {
		klog.Fatalf("Invalid log level: %s. Must be one of: info, debug", *logLevel)
	}

	// Validate and set log format
	if *logFormat != "text" && *logFormat != "json" {
		klog.Fatalf("Invalid log format: %s. Must be one of: text, json", *logFormat)
	}
	if *logFormat == "json" {
		// Configure zap for JSON logging
		var zapLog *zap.Logger
		var err error
		if *logLevel == "debug" {
			zapLog, err = zap.NewDevelopment()
		} else {
			zapLog, err = zap.NewProduction()
		}
		if err != nil {
			klog.Fatalf("Failed to initialize JSON logger: %v", err)
		}
		defer zapLog.Sync()

		// Set klog to use zap backend for JSON output
		klog.SetLogger(zapr.NewLogger(zapLog))
	}

	klog.Infof("Starting status-display version %s in %s mode with %s log level", Version, *mode, *logLevel)

	cfg := config.NewConfig(*mode)
	cfg.LogLevel = *logLevel

	// Set klog verbosity based on log level
	if *logLevel == "debug" {
		goflag.Set("v", "1")
	}

	if *configPath != "" {
		if err := cfg.LoadFile(*configPath); err != nil {
			klog.Fatalf("Failed to load config file %s: %v", *configPath, err)
		}
	}

	// Explicit flags win over environment and file
	if flagSet.Changed("width") {
		cfg.Width = *width
	}
	if flagSet.Changed("height") {
		cfg.Height = *height
	}
	if flagSet.Changed("mountpoint") {
		cfg.MountPoint = *mountPoint
	}
	if flagSet.Changed("interval") {
		cfg.Interval = *interval
	}
	cfg.Once = *once

	if err := cfg.Validate(); err != nil {
		klog.Fatalf("Invalid configuration: %v", err)
	}

	transport, err := openTransport(cfg)
	if err != nil {
		klog.Fatalf("Failed to open display: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	renderer := display.NewRenderer(cfg.Width, cfg.Height, display.NewFontDrawer())
	op := operator.NewOperator(cfg, collector.NewCollector(cfg), renderer, transport)
	runErr := op.Run(ctx)

	if !cfg.Once {
		if err := transport.Clear(); err != nil {
			klog.Warningf("Failed to clear display on shutdown: %v", err)
		}
	}
	if err := transport.Close(); err != nil {
		klog.Warningf("Failed to close display: %v", err)
	}

	if runErr != nil {
		klog.Fatalf("Operator failed: %v", runErr)
	}

	klog.Flush()
}

func openTransport(cfg *config.Config) (display.Transport, error) {
	if cfg.IsTestMode() {
		return display.NewTextTransport(os.Stdout, cfg.Width, cfg.Height), nil
	}
	oled, err := display.OpenSSD1306(cfg.I2CBus, cfg.ResetPin, cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	return oled, nil
}

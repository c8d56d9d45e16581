package traffic

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"bannerd/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "traffic_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the banner traffic tool.
func ShowHelp() {
	os.Stdout.WriteString(`Banner Traffic Tool
===================

A concurrent tool for exercising a running banner service: it creates a
catalog, simulates weighted ad traffic, and verifies the analytics.

Usage:
  go run cmd/banner-traffic/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8080")
  -banners int
        Number of banners to create (default 20)
  -visits int
        Number of visits to simulate (default 5000)
  -click-rate float
        Probability that a served visit clicks through (default 0.3)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -report string
        Output file for the traffic report (default: traffic_report_TIMESTAMP.json)
  -log string
        Log file for run output (default: traffic_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Run with default settings
  go run cmd/banner-traffic/main.go

  # Run with custom parameters
  go run cmd/banner-traffic/main.go -banners 50 -visits 20000 -workers 16

  # Run against a remote instance with verbose output
  go run cmd/banner-traffic/main.go -url http://banners.internal:8080 -verbose

  # Run with a custom report file
  go run cmd/banner-traffic/main.go -visits 10000 -report my_report.json
`)
}

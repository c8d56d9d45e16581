package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"bannerd/internal/traffic"
)

// Default configuration constants.
const (
	defaultNumBanners = 20
	defaultVisits     = 5000
	defaultClickRate  = 0.3
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:8080", "Base URL of the service")
		numBanners = flag.Int("banners", defaultNumBanners, "Number of banners to create")
		visits     = flag.Int("visits", defaultVisits, "Number of visits to simulate")
		clickRate  = flag.Float64("click-rate", defaultClickRate, "Probability that a served visit clicks through")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		reportFile = flag.String("report", "", "Output file for the traffic report (default: traffic_report_TIMESTAMP.json)")
		logFile    = flag.String("log", "", "Log file for run output (default: traffic_log_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		traffic.ShowHelp()
		return
	}

	// Setup logging
	if err := traffic.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	// Create run configuration
	config := &traffic.Config{
		BaseURL:    *baseURL,
		NumBanners: *numBanners,
		Visits:     *visits,
		ClickRate:  *clickRate,
		Workers:    *workers,
		Timeout:    *timeout,
		ReportFile: *reportFile,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	// Run the traffic
	if err := traffic.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Traffic run failed: " + err.Error() + "\n")
		return
	}
}

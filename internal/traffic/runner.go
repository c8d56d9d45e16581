package traffic

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bannerd/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	reportPermission    = 0600
)

// pickSampleSize is how many picks the deactivation check samples.
const pickSampleSize = 25

// Run executes a complete traffic run against the service.
func Run(ctx context.Context, config *Config) error {
	if err := validateConfig(config); err != nil {
		return err
	}

	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting banner traffic run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("banners", config.NumBanners),
		logger.Int("visits", config.Visits),
		logger.Float64("clickRate", config.ClickRate),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate the catalog
	specs := generateBannerSpecs(ctx, config)

	// Step 3: Create banners through the API
	banners, err := createBanners(ctx, config, specs, stats)
	if err != nil {
		return fmt.Errorf("banner creation failed: %w", err)
	}

	// Step 4: Drive traffic concurrently
	tal := newTally(banners)
	if err := driveTraffic(ctx, config, tal, stats); err != nil {
		return fmt.Errorf("traffic failed: %w", err)
	}

	// Step 5: Fetch analytics. Counters are updated synchronously, so
	// everything acknowledged above is already visible.
	rows, err := fetchAnalytics(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("analytics retrieval failed: %w", err)
	}

	// Step 6: Verify the snapshot against the local tally
	if err := verifyAnalytics(config, banners, rows, tal); err != nil {
		return fmt.Errorf("analytics verification failed: %w", err)
	}

	// Step 7: Retire one banner and confirm it keeps its history
	if len(banners) > 1 {
		rows, err = runDeactivationCheck(ctx, config, banners, rows, tal)
		if err != nil {
			return fmt.Errorf("deactivation check failed: %w", err)
		}
	}

	// Step 8: Save the traffic report
	if err := saveReport(ctx, config, banners, rows, tal); err != nil {
		logger.Get().Warn(ctx, "failed to save traffic report", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "traffic run completed successfully")
	return nil
}

// validateConfig rejects configurations the run cannot work with.
func validateConfig(config *Config) error {
	if config.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	if config.NumBanners < 1 {
		return fmt.Errorf("number of banners must be at least 1, got %d", config.NumBanners)
	}
	if config.Visits < 0 {
		return fmt.Errorf("number of visits must not be negative, got %d", config.Visits)
	}
	if config.ClickRate < 0 || config.ClickRate > 1 {
		return fmt.Errorf("click rate must be between 0 and 1, got %g", config.ClickRate)
	}
	if config.Workers < 1 {
		return fmt.Errorf("number of workers must be at least 1, got %d", config.Workers)
	}
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if _, err := readResponseBody(resp); err != nil {
		return fmt.Errorf("failed to read health response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// runDeactivationCheck retires the banner with the fewest impressions
// and confirms the soft-delete contract: the row survives with its
// counters, and the banner stops being served. It returns the refreshed
// analytics rows.
func runDeactivationCheck(ctx context.Context, config *Config, banners []Banner, rows []AnalyticsRow, tal *tally) ([]AnalyticsRow, error) {
	// Pick the banner with the fewest acknowledged impressions
	weakest := banners[0]
	for _, b := range banners[1:] {
		if tal.impressionCount(b.ID) < tal.impressionCount(weakest.ID) {
			weakest = b
		}
	}

	var before AnalyticsRow
	for _, row := range rows {
		if row.ID == weakest.ID {
			before = row
			break
		}
	}

	logger.Get().Info(ctx, "retiring weakest banner",
		logger.String("id", weakest.ID),
		logger.String("title", weakest.Title),
		logger.Int64("impressions", before.Impressions))

	client := newHTTPClient(config.Timeout)

	retired, err := deactivateBanner(ctx, client, config.BaseURL, weakest.ID)
	if err != nil {
		return nil, fmt.Errorf("deactivate failed: %w", err)
	}

	picks, err := samplePicks(ctx, client, config.BaseURL, pickSampleSize)
	if err != nil {
		return nil, fmt.Errorf("pick sampling failed: %w", err)
	}

	refreshed, err := fetchAnalyticsRows(ctx, client, config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("analytics refresh failed: %w", err)
	}

	if err := verifyDeactivation(retired, before, refreshed, picks); err != nil {
		return nil, err
	}

	logger.Get().Info(ctx, "deactivation verified",
		logger.String("id", retired.ID),
		logger.Int64("impressions", before.Impressions),
		logger.Int64("clicks", before.Clicks))

	return refreshed, nil
}

// ReportRow is one banner's line in the saved traffic report.
type ReportRow struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Weight        int     `json:"weight"`
	Impressions   int64   `json:"impressions"`
	Clicks        int64   `json:"clicks"`
	CTR           string  `json:"ctr"`
	ExpectedShare float64 `json:"expected_share"`
	ObservedShare float64 `json:"observed_share"`
	Active        bool    `json:"active"`
}

// saveReport writes the per-banner traffic report to a JSON file.
func saveReport(ctx context.Context, config *Config, banners []Banner, rows []AnalyticsRow, tal *tally) error {
	if len(rows) == 0 {
		return fmt.Errorf("no analytics rows to report")
	}

	// Determine output filename
	filename := config.ReportFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "traffic_report_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	totalWeight := 0
	for _, b := range banners {
		totalWeight += b.Weight
	}
	totalImpressions, _ := tal.totals()

	byID := make(map[string]AnalyticsRow, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	report := make([]ReportRow, 0, len(banners))
	for _, b := range banners {
		row := byID[b.ID]

		var expectedShare, observedShare float64
		if totalWeight > 0 {
			expectedShare = float64(b.Weight) / float64(totalWeight)
		}
		if totalImpressions > 0 {
			observedShare = float64(row.Impressions) / float64(totalImpressions)
		}

		report = append(report, ReportRow{
			ID:            row.ID,
			Title:         row.Title,
			Weight:        b.Weight,
			Impressions:   row.Impressions,
			Clicks:        row.Clicks,
			CTR:           row.CTR,
			ExpectedShare: expectedShare,
			ObservedShare: observedShare,
			Active:        row.Active,
		})
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(filename, data, reportPermission); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	logger.Get().Info(ctx, "traffic report saved", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(stats *Stats) {
	var serveRate, visitsPerSecond float64

	if stats.VisitsAttempted > 0 {
		serveRate = float64(stats.VisitsServed) / float64(stats.VisitsAttempted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		visitsPerSecond = float64(stats.VisitsAttempted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("bannersCreated", stats.BannersCreated),
		logger.Int("visitsAttempted", stats.VisitsAttempted),
		logger.Int("visitsServed", stats.VisitsServed),
		logger.Int("visitsNoFill", stats.VisitsNoFill),
		logger.Int("visitsFailed", stats.VisitsFailed),
		logger.Int("impressionsSent", stats.ImpressionsSent),
		logger.Int("clicksSent", stats.ClicksSent),
		logger.Int("analyticsRows", stats.AnalyticsRows),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("serveRate", serveRate),
		logger.Float64("visitsPerSecond", visitsPerSecond))
}

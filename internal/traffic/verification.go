package traffic

import (
	"fmt"
	"log"
	"sort"

	"bannerd/internal/domain/analytics"
)

// Distribution check constants. Weighted selection is random, so small
// samples are excluded and the rest only warn.
const (
	minShareSample = 100
	shareTolerance = 0.25
	topDisplayed   = 10
)

// verifyAnalytics checks the analytics snapshot against the locally
// tallied acknowledgements.
func verifyAnalytics(config *Config, banners []Banner, rows []AnalyticsRow, tal *tally) error {
	log.Println("🔍 Verifying analytics...")

	if len(rows) == 0 {
		return fmt.Errorf("no analytics rows to verify")
	}

	byID := make(map[string]AnalyticsRow, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	// Every acknowledged interaction must be reflected exactly. The
	// tool is the only traffic source, so counters match or updates
	// were lost.
	for _, b := range banners {
		row, ok := byID[b.ID]
		if !ok {
			return fmt.Errorf("analytics row missing for banner %s", b.ID)
		}

		wantImpressions := tal.impressionCount(b.ID)
		if row.Impressions != wantImpressions {
			return fmt.Errorf("banner %s: impressions %d, acknowledged %d", b.ID, row.Impressions, wantImpressions)
		}

		wantClicks := tal.clickCount(b.ID)
		if row.Clicks != wantClicks {
			return fmt.Errorf("banner %s: clicks %d, acknowledged %d", b.ID, row.Clicks, wantClicks)
		}

		wantCTR := analytics.CTR(row.Impressions, row.Clicks)
		if row.CTR != wantCTR {
			return fmt.Errorf("banner %s: ctr %q, computed %q", b.ID, row.CTR, wantCTR)
		}
	}

	log.Println("✅ Counters and CTR verified")

	// Distribution is probabilistic; deviations only warn.
	if err := verifyShareDistribution(banners, tal); err != nil {
		log.Printf("⚠️  Share distribution warning: %v", err)
	} else {
		log.Println("✅ Share distribution within tolerance")
	}

	displayTopBanners(rows, config.Verbose)

	log.Println("✅ Analytics verification completed")
	return nil
}

// verifyShareDistribution compares each banner's observed share of
// impressions to the share its weight predicts.
func verifyShareDistribution(banners []Banner, tal *tally) error {
	totalImpressions, _ := tal.totals()
	if totalImpressions == 0 {
		return fmt.Errorf("no impressions recorded")
	}

	totalWeight := 0
	for _, b := range banners {
		totalWeight += b.Weight
	}
	if totalWeight == 0 {
		return fmt.Errorf("zero total weight")
	}

	for _, b := range banners {
		expectedShare := float64(b.Weight) / float64(totalWeight)
		expectedCount := expectedShare * float64(totalImpressions)
		if expectedCount < minShareSample {
			continue
		}

		observed := float64(tal.impressionCount(b.ID))
		deviation := (observed - expectedCount) / expectedCount
		if deviation < 0 {
			deviation = -deviation
		}

		if deviation > shareTolerance {
			return fmt.Errorf("banner %s: observed %.0f impressions, expected %.0f (weight %d)",
				b.ID, observed, expectedCount, b.Weight)
		}
	}

	return nil
}

// displayTopBanners shows the banners that drew the most impressions.
func displayTopBanners(rows []AnalyticsRow, verbose bool) {
	sorted := make([]AnalyticsRow, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Impressions > sorted[j].Impressions
	})

	topN := topDisplayed
	if len(sorted) < topN {
		topN = len(sorted)
	}

	log.Printf("🏆 Top %d banners by impressions:", topN)
	for i := 0; i < topN; i++ {
		row := sorted[i]
		log.Printf("   %d. %s %q - impressions: %d, clicks: %d, ctr: %s",
			i+1, row.ID, row.Title, row.Impressions, row.Clicks, row.CTR)
	}

	if verbose {
		var impressions, clicks int64
		for _, row := range rows {
			impressions += row.Impressions
			clicks += row.Clicks
		}

		log.Printf(`📊 Aggregate statistics:
   Impressions: %d
   Clicks: %d
   Overall CTR: %s
`, impressions, clicks, analytics.CTR(impressions, clicks))
	}
}

// verifyDeactivation checks that a retired banner keeps its analytics
// row and counters but stops being served.
func verifyDeactivation(retired Banner, before AnalyticsRow, rows []AnalyticsRow, picks map[string]int) error {
	if retired.Active {
		return fmt.Errorf("banner %s still active after deactivation", retired.ID)
	}

	var after *AnalyticsRow
	for i := range rows {
		if rows[i].ID == retired.ID {
			after = &rows[i]
			break
		}
	}
	if after == nil {
		return fmt.Errorf("banner %s dropped from analytics after deactivation", retired.ID)
	}

	if after.Active {
		return fmt.Errorf("banner %s reported active in analytics after deactivation", retired.ID)
	}
	if after.Impressions != before.Impressions || after.Clicks != before.Clicks {
		return fmt.Errorf("banner %s counters changed after deactivation: impressions %d->%d, clicks %d->%d",
			retired.ID, before.Impressions, after.Impressions, before.Clicks, after.Clicks)
	}

	if served, ok := picks[retired.ID]; ok && served > 0 {
		return fmt.Errorf("banner %s served %d times after deactivation", retired.ID, served)
	}

	return nil
}

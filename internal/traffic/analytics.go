package traffic

import (
	"context"
	"fmt"
	"log"
)

// fetchAnalytics retrieves the aggregated analytics snapshot.
func fetchAnalytics(ctx context.Context, config *Config, stats *Stats) ([]AnalyticsRow, error) {
	log.Printf("📈 Fetching analytics snapshot...")

	client := newHTTPClient(config.Timeout)

	rows, err := fetchAnalyticsRows(ctx, client, config.BaseURL)
	if err != nil {
		return nil, err
	}

	stats.AnalyticsRows = len(rows)
	log.Printf("✅ Retrieved %d analytics rows", len(rows))

	return rows, nil
}

// fetchAnalyticsRows performs one GET against the analytics endpoint.
func fetchAnalyticsRows(ctx context.Context, client *HTTPClient, baseURL string) ([]AnalyticsRow, error) {
	resp, err := client.Get(ctx, baseURL+"/banners/analytics")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var rows []AnalyticsRow
	if err := unmarshalJSON(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return rows, nil
}

// deactivateBanner retires a banner through the API and returns the
// acknowledged state.
func deactivateBanner(ctx context.Context, client *HTTPClient, baseURL, id string) (Banner, error) {
	resp, err := client.Delete(ctx, baseURL+"/banners/"+id)
	if err != nil {
		return Banner{}, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return Banner{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return Banner{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var ack BannerAck
	if err := unmarshalJSON(body, &ack); err != nil {
		return Banner{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if !ack.Success {
		return Banner{}, fmt.Errorf("deactivate not acknowledged: %s", string(body))
	}

	return ack.Banner, nil
}

// samplePicks asks the service for n picks and counts how often each
// banner is served.
func samplePicks(ctx context.Context, client *HTTPClient, baseURL string, n int) (map[string]int, error) {
	counts := make(map[string]int)

	for i := 0; i < n; i++ {
		resp, err := client.Get(ctx, baseURL+"/banners/pick")
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}

		body, err := readResponseBody(resp)
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode == StatusNotFound {
			continue
		}
		if resp.StatusCode != StatusOK {
			return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
		}

		var ack BannerAck
		if err := unmarshalJSON(body, &ack); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
		counts[ack.Banner.ID]++
	}

	return counts, nil
}

package traffic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Visit outcomes.
const (
	visitServed = "served"
	visitNoFill = "nofill"
	visitFailed = "failed"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := marshalJSON(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// Delete performs a DELETE request
func (c *HTTPClient) Delete(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// marshalJSON marshals a struct to JSON
func marshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// unmarshalJSON unmarshals JSON to a struct
func unmarshalJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// tally tracks the interactions the service acknowledged, per banner.
// The maps are built once before traffic starts; only the counters
// behind the pointers are mutated afterwards.
type tally struct {
	impressions map[string]*int64
	clicks      map[string]*int64
}

// newTally prepares counters for the created banners.
func newTally(banners []Banner) *tally {
	t := &tally{
		impressions: make(map[string]*int64, len(banners)),
		clicks:      make(map[string]*int64, len(banners)),
	}
	for _, b := range banners {
		t.impressions[b.ID] = new(int64)
		t.clicks[b.ID] = new(int64)
	}
	return t
}

// impression records one acknowledged impression.
func (t *tally) impression(id string) {
	if c, ok := t.impressions[id]; ok {
		atomic.AddInt64(c, 1)
	}
}

// click records one acknowledged click.
func (t *tally) click(id string) {
	if c, ok := t.clicks[id]; ok {
		atomic.AddInt64(c, 1)
	}
}

// impressionCount returns the acknowledged impressions for a banner.
func (t *tally) impressionCount(id string) int64 {
	if c, ok := t.impressions[id]; ok {
		return atomic.LoadInt64(c)
	}
	return 0
}

// clickCount returns the acknowledged clicks for a banner.
func (t *tally) clickCount(id string) int64 {
	if c, ok := t.clicks[id]; ok {
		return atomic.LoadInt64(c)
	}
	return 0
}

// totals sums acknowledged impressions and clicks across all banners.
func (t *tally) totals() (impressions, clicks int64) {
	for _, c := range t.impressions {
		impressions += atomic.LoadInt64(c)
	}
	for _, c := range t.clicks {
		clicks += atomic.LoadInt64(c)
	}
	return impressions, clicks
}

// createBanners creates the generated catalog through the API.
func createBanners(ctx context.Context, config *Config, specs []BannerSpec, stats *Stats) ([]Banner, error) {
	log.Printf("🧱 Creating %d banners...", len(specs))

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/banners"

	banners := make([]Banner, 0, len(specs))
	for i, spec := range specs {
		resp, err := client.Post(ctx, url, spec)
		if err != nil {
			return nil, fmt.Errorf("failed to create banner %d: %w", i, err)
		}

		body, err := readResponseBody(resp)
		if err != nil {
			return nil, fmt.Errorf("failed to read create response %d: %w", i, err)
		}

		if resp.StatusCode != StatusOK {
			return nil, fmt.Errorf("banner %d: HTTP %d: %s", i, resp.StatusCode, string(body))
		}

		var ack BannerAck
		if err := unmarshalJSON(body, &ack); err != nil {
			return nil, fmt.Errorf("failed to parse create response %d: %w", i, err)
		}
		if !ack.Success || ack.Banner.ID == "" {
			return nil, fmt.Errorf("banner %d: create not acknowledged: %s", i, string(body))
		}

		banners = append(banners, ack.Banner)
		if config.Verbose {
			log.Printf("   created %s (weight %d) %q", ack.Banner.ID, ack.Banner.Weight, ack.Banner.Title)
		}
	}

	stats.BannersCreated = len(banners)
	log.Printf("✅ Created %d banners", len(banners))
	return banners, nil
}

// driveTraffic simulates visits concurrently using a worker pool. Each
// visit asks the service to pick a banner, reports an impression, and
// clicks through with the configured probability.
func driveTraffic(ctx context.Context, config *Config, tal *tally, stats *Stats) error {
	log.Printf("📤 Driving %d visits with %d workers...", config.Visits, config.Workers)

	client := newHTTPClient(config.Timeout)

	// Counters for statistics
	var (
		served    int64
		noFill    int64
		failed    int64
		attempted int64
	)

	// Progress reporting
	var lastReport atomic.Int64
	lastReport.Store(time.Now().UnixNano())
	reportInterval := 1 * time.Second

	// Create worker pool
	visitChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for range visitChan {
				select {
				case <-ctx.Done():
					return
				default:
					result := serveSingleVisit(ctx, client, config, tal)

					// Update counters
					atomic.AddInt64(&attempted, 1)
					switch result {
					case visitServed:
						atomic.AddInt64(&served, 1)
					case visitNoFill:
						atomic.AddInt64(&noFill, 1)
					case visitFailed:
						atomic.AddInt64(&failed, 1)
					}

					// Progress reporting; one worker wins the report slot
					now := time.Now().UnixNano()
					last := lastReport.Load()
					if now-last >= int64(reportInterval) && lastReport.CompareAndSwap(last, now) {
						total := atomic.LoadInt64(&attempted)
						srv := atomic.LoadInt64(&served)
						nf := atomic.LoadInt64(&noFill)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("📊 Progress: %d/%d visits (served: %d, no fill: %d, failed: %d)",
								total, config.Visits, srv, nf, fail)
						} else {
							fmt.Printf("\r📤 Visits: %d/%d (served: %d, no fill: %d, failed: %d)",
								total, config.Visits, srv, nf, fail)
						}
					}
				}
			}
		}(i)
	}

	// Send visits to workers
	go func() {
		defer close(visitChan)
		for i := 0; i < config.Visits; i++ {
			select {
			case <-ctx.Done():
				return
			case visitChan <- i:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Final progress report
	if !config.Verbose {
		fmt.Println() // New line after progress indicator
	}

	// Update stats
	impressions, clicks := tal.totals()
	stats.VisitsAttempted = int(atomic.LoadInt64(&attempted))
	stats.VisitsServed = int(atomic.LoadInt64(&served))
	stats.VisitsNoFill = int(atomic.LoadInt64(&noFill))
	stats.VisitsFailed = int(atomic.LoadInt64(&failed))
	stats.ImpressionsSent = int(impressions)
	stats.ClicksSent = int(clicks)

	log.Printf(`✅ Traffic completed:
   Served: %d
   No fill: %d
   Failed: %d
   Impressions: %d
   Clicks: %d
`, stats.VisitsServed, stats.VisitsNoFill, stats.VisitsFailed, stats.ImpressionsSent, stats.ClicksSent)

	return nil
}

// serveSingleVisit plays one visit against the service and returns the
// outcome.
func serveSingleVisit(ctx context.Context, client *HTTPClient, config *Config, tal *tally) string {
	// Ask the service which banner to show
	resp, err := client.Get(ctx, config.BaseURL+"/banners/pick")
	if err != nil {
		return visitFailed
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return visitFailed
	}

	switch resp.StatusCode {
	case StatusOK:
		// Banner served
	case StatusNotFound:
		// No active banners
		return visitNoFill
	default:
		return visitFailed
	}

	var ack BannerAck
	if err := unmarshalJSON(body, &ack); err != nil || ack.Banner.ID == "" {
		return visitFailed
	}
	bannerID := ack.Banner.ID

	// Report the impression
	resp, err = client.Post(ctx, config.BaseURL+"/banners/impression", InteractionRequest{BannerID: bannerID})
	if err != nil {
		return visitFailed
	}
	if _, err := readResponseBody(resp); err != nil {
		return visitFailed
	}
	if resp.StatusCode != StatusOK {
		return visitFailed
	}
	tal.impression(bannerID)

	// Click through with the configured probability
	if getRandomFloat() < config.ClickRate {
		resp, err = client.Post(ctx, config.BaseURL+"/banners/click", InteractionRequest{BannerID: bannerID})
		if err != nil {
			return visitFailed
		}
		if _, err := readResponseBody(resp); err != nil {
			return visitFailed
		}
		if resp.StatusCode != StatusOK {
			return visitFailed
		}
		tal.click(bannerID)
	}

	return visitServed
}

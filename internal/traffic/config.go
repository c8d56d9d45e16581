package traffic

import "time"

// Config holds configuration for a traffic run
type Config struct {
	BaseURL    string        // Base URL of the service
	NumBanners int           // Number of banners to create
	Visits     int           // Number of visits to simulate
	ClickRate  float64       // Probability that a served visit clicks through
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	ReportFile string        // Output file for the traffic report
	LogFile    string        // Log file for run output
	Verbose    bool          // Enable verbose logging
}

// BannerSpec describes a banner the tool creates before driving traffic
type BannerSpec struct {
	ImageURL string `json:"image_url"`
	ClickURL string `json:"click_url"`
	Title    string `json:"title"`
	Weight   int    `json:"weight"`
	IsLocal  bool   `json:"is_local"`
}

// Banner mirrors the banner resource returned by the service
type Banner struct {
	ID       string `json:"id"`
	ImageURL string `json:"image_url"`
	ClickURL string `json:"click_url"`
	Title    string `json:"title"`
	Weight   int    `json:"weight"`
	Active   bool   `json:"active"`
	IsLocal  bool   `json:"is_local"`
}

// BannerAck is the envelope returned by create, update, deactivate, and pick
type BannerAck struct {
	Success bool   `json:"success"`
	Banner  Banner `json:"banner"`
}

// InteractionRequest reports an impression or a click for a banner
type InteractionRequest struct {
	BannerID string `json:"banner_id"`
}

// ImpressionAck is the response from an impression report
type ImpressionAck struct {
	Success     bool   `json:"success"`
	BannerID    string `json:"banner_id"`
	Impressions int64  `json:"impressions"`
}

// ClickAck is the response from a click report
type ClickAck struct {
	Success  bool   `json:"success"`
	BannerID string `json:"banner_id"`
	Clicks   int64  `json:"clicks"`
}

// AnalyticsRow is one aggregated analytics entry returned by the service
type AnalyticsRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Impressions int64  `json:"impressions"`
	Clicks      int64  `json:"clicks"`
	CTR         string `json:"ctr"`
	Active      bool   `json:"active"`
}

// Stats holds run statistics
type Stats struct {
	BannersCreated  int
	VisitsAttempted int
	VisitsServed    int
	VisitsNoFill    int
	VisitsFailed    int
	ImpressionsSent int
	ClicksSent      int
	AnalyticsRows   int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}

// Package analytics derives presentation metrics from raw banner counters.
// All functions are pure; the package owns no state.
package analytics

import (
	"bannerd/internal/domain/model"
	"bannerd/internal/domain/types"
	"github.com/shopspring/decimal"
)

const percentScale = 100

// CTR returns the click-through rate as a percentage string with two
// decimal places, e.g. "33.33%". Zero impressions yield "0%" rather
// than a division error.
func CTR(impressions, clicks int64) string {
	if impressions == 0 {
		return "0%"
	}
	rate := decimal.NewFromInt(clicks).
		Div(decimal.NewFromInt(impressions)).
		Mul(decimal.NewFromInt(percentScale))
	return rate.StringFixed(2) + "%"
}

// Row builds one analytics entry for a banner from its raw counters.
func Row(b model.Banner, c model.Counters) types.AnalyticsRow {
	return types.AnalyticsRow{
		ID:          b.ID,
		Title:       b.Title,
		Impressions: c.Impressions,
		Clicks:      c.Clicks,
		CTR:         CTR(c.Impressions, c.Clicks),
		Active:      b.Active,
	}
}

// Package events defines the analytics events published to the broker.
package events

import "time"

// EventType labels the kind of banner interaction an event records.
type EventType string

// Interaction kinds emitted by the API.
const (
	EventImpression EventType = "impression"
	EventClick      EventType = "click"
)

// BannerEvent is the wire shape published for every recorded interaction.
// Count carries the counter value after the increment.
type BannerEvent struct {
	Type      EventType `json:"type"`
	BannerID  string    `json:"banner_id"`
	Count     int64     `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

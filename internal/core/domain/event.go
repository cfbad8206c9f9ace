package domain

import "time"

type ClientEventType string

const (
	EventSearch    ClientEventType = "search"
	EventView      ClientEventType = "view"
	EventAddToCart ClientEventType = "add_to_cart"
)

// ClientEvent is reported by callers after a successful search or
// product view. The engine only forwards it; the managed search
// service consumes it for its own learning loop.
type ClientEvent struct {
	Type       ClientEventType
	VisitorID  string
	Query      string
	SKU        string
	OccurredAt time.Time
}

package picker

import "context"

// Item is one branch row in the picker.
type Item struct {
	Branch  string
	Score   float64
	Stars   int
	Current bool // Currently checked out
}

// Provider is the interface for data sources that supply branches to the picker.
type Provider interface {
	Fetch(ctx context.Context, req Request) (Response, error)
}

// Request describes what items the picker wants from a Provider.
type Request struct {
	RequestID uint64 // Monotonically increasing, for stale response detection
	Query     string // Search filter
	Limit     int
}

// Response carries items back from a Provider.
type Response struct {
	RequestID uint64 // Must match Request.RequestID to be accepted
	Items     []Item
}

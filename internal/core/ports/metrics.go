package ports

import "time"

// Cache layers reported to Metrics.
const (
	LayerPost     = "post"
	LayerGraph    = "graph"
	LayerSubgraph = "subgraph"
)

// Metrics records operational counters.
//
//go:generate mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	// CacheHit counts a cache hit on the given layer.
	CacheHit(layer string)
	// CacheMiss counts a cache miss on the given layer.
	CacheMiss(layer string)
	// ParseFailed counts a post that could not be parsed.
	ParseFailed()
	// BuildFinished records a finished graph build of the given layer.
	BuildFinished(layer string, elapsed time.Duration, failed bool)
	// RequestServed counts an HTTP request.
	RequestServed(route, method string, status int, elapsed time.Duration)
}

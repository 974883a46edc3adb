package metrics

import (
	"time"

	"go.trai.ch/knowgraph/internal/core/ports"
)

var _ ports.Metrics = Noop{}

// Noop discards every observation.
type Noop struct{}

func (Noop) CacheHit(string)                                  {}
func (Noop) CacheMiss(string)                                 {}
func (Noop) ParseFailed()                                     {}
func (Noop) BuildFinished(string, time.Duration, bool)        {}
func (Noop) RequestServed(string, string, int, time.Duration) {}

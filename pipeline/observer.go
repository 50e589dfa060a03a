package pipeline

import "time"

// Observer is notified after every stage of every query. Implementations
// must be safe for concurrent use.
type Observer interface {
	ObserveStage(stage Stage, duration time.Duration, err error)
}

// NoopObserver discards observations.
type NoopObserver struct{}

// ObserveStage does nothing.
func (NoopObserver) ObserveStage(Stage, time.Duration, error) {}

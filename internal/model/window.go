package model

import "fmt"

// DelayWindow bounds the randomized pre-send jitter, in whole seconds.
type DelayWindow struct {
	Min int
	Max int
}

// DefaultWindow mimics human send timing.
var DefaultWindow = DelayWindow{Min: 15, Max: 45}

func (w DelayWindow) Validate() error {
	if w.Min < 0 {
		return fmt.Errorf("delay window min must be >= 0, got %d", w.Min)
	}
	if w.Max < w.Min {
		return fmt.Errorf("delay window max (%d) must be >= min (%d)", w.Max, w.Min)
	}
	return nil
}

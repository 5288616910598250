// Package delay draws the randomized pre-send jitter applied before each
// delivery, so a batch of messages does not fire with bot-like regularity.
package delay

import (
	"math/rand"
	"sync"
	"time"

	"github.com/kushalkp88/whatsapp-scheduler/internal/model"
)

// Policy samples uniform integer delays from a DelayWindow. The random
// source is injected so tests can seed it deterministically. Safe for
// concurrent use.
type Policy struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewPolicy(src rand.Source) *Policy {
	return &Policy{rng: rand.New(src)}
}

// Sample draws a whole-second delay uniformly from [w.Min, w.Max] inclusive.
// Every call draws fresh; results are never cached across attempts.
func (p *Policy) Sample(w model.DelayWindow) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	seconds := w.Min
	if w.Max > w.Min {
		seconds = w.Min + p.rng.Intn(w.Max-w.Min+1)
	}
	return time.Duration(seconds) * time.Second
}

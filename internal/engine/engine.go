// Package engine drives scheduled delivery attempts. Each admitted job gets
// its own goroutine holding a one-shot timer, so overlapping target times and
// independent jitter sleeps never block one another.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kushalkp88/whatsapp-scheduler/internal/agent"
	"github.com/kushalkp88/whatsapp-scheduler/internal/delay"
	"github.com/kushalkp88/whatsapp-scheduler/internal/model"
	"github.com/kushalkp88/whatsapp-scheduler/internal/report"
)

// Engine owns the active attempt set for one scheduling run. Construct one
// per run; there is no ambient registry.
type Engine struct {
	agent    agent.DeliveryAgent
	reporter report.Reporter
	policy   *delay.Policy
	window   model.DelayWindow

	running atomic.Bool

	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	wg       sync.WaitGroup
	attempts map[string]*model.Attempt
	skipped  int
}

func New(ag agent.DeliveryAgent, rep report.Reporter, pol *delay.Policy, window model.DelayWindow) (*Engine, error) {
	if ag == nil {
		return nil, errors.New("delivery agent must not be nil")
	}
	if rep == nil {
		return nil, errors.New("reporter must not be nil")
	}
	if pol == nil {
		return nil, errors.New("delay policy must not be nil")
	}
	if err := window.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		agent:    ag,
		reporter: rep,
		policy:   pol,
		window:   window,
		attempts: make(map[string]*model.Attempt),
	}, nil
}

// Schedule admits every job whose target time is strictly in the future and
// starts one timer goroutine per admitted job. Jobs in the past are recorded
// as skipped, never silently dropped. Returns how many jobs were admitted
// and how many skipped; with zero admitted the run is already complete.
func (e *Engine) Schedule(jobs []model.Job) (admitted, skipped int, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running.CompareAndSwap(false, true) {
		return 0, 0, errors.New("engine already scheduled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.done = make(chan struct{})

	now := time.Now()
	for _, job := range jobs {
		if !job.TargetTime.After(now) {
			e.skipped++
			att := model.NewAttempt(job)
			att.Status = model.Skipped
			att.UpdatedAt = time.Now().UTC()
			slog.Info("skipping past target time",
				"recipient", job.Recipient, "target_time", job.TargetTime)
			e.record(*att)
			continue
		}

		att := model.NewAttempt(job)
		e.attempts[att.ID] = att
		slog.Info("scheduled message",
			"recipient", job.Recipient, "target_time", job.TargetTime)

		e.wg.Add(1)
		go e.runAttempt(ctx, att)
	}

	admitted = len(e.attempts)
	skipped = e.skipped

	done := e.done
	go func() {
		e.wg.Wait()
		e.running.Store(false)
		close(done)
	}()

	return admitted, skipped, nil
}

// Done closes when every attempt of the current run has reached a terminal
// state or been cancelled. Before any Schedule call it is already closed.
func (e *Engine) Done() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.done == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return e.done
}

// Stop requests a cooperative shutdown: timers that have not fired and
// jitter sleeps in progress are cancelled; a delivery already in flight
// completes and has its outcome recorded. Returns false when nothing is
// running.
func (e *Engine) Stop() bool {
	e.mu.Lock()
	if !e.running.Load() {
		e.mu.Unlock()
		return false
	}
	cancel := e.cancel
	done := e.done
	e.mu.Unlock()

	cancel()
	<-done

	slog.Info("engine stopped")
	return true
}

func (e *Engine) IsRunning() bool {
	return e.running.Load()
}

// Counts snapshots the per-status attempt counts of this run, including
// admission skips.
func (e *Engine) Counts() map[model.Status]int {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[model.Status]int)
	for _, att := range e.attempts {
		out[att.Status]++
	}
	if e.skipped > 0 {
		out[model.Skipped] = e.skipped
	}
	return out
}

// RunImmediate processes jobs in source order, sleeping a fresh jitter
// before each dispatch. Target times are ignored entirely; admission
// filtering does not apply. Stops early when ctx is cancelled.
func (e *Engine) RunImmediate(ctx context.Context, jobs []model.Job) (sent, failed int) {
	for _, job := range jobs {
		att := model.NewAttempt(job)

		d := e.policy.Sample(e.window)
		slog.Info("waiting before send", "recipient", job.Recipient, "delay", d.String())

		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			slog.Info("immediate run canceled", "remaining", "unsent")
			return sent, failed
		case <-timer.C:
		}

		if e.dispatch(att) {
			sent++
		} else {
			failed++
		}
	}
	return sent, failed
}

// runAttempt drives one attempt through scheduled -> waiting -> sent|failed.
func (e *Engine) runAttempt(ctx context.Context, att *model.Attempt) {
	defer e.wg.Done()

	timer := time.NewTimer(time.Until(att.Job.TargetTime))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		slog.Info("attempt canceled before fire", "recipient", att.Job.Recipient)
		return
	case <-timer.C:
	}

	e.transition(att, model.Waiting, "")

	d := e.policy.Sample(e.window)
	slog.Info("waiting before send", "recipient", att.Job.Recipient, "delay", d.String())

	jitter := time.NewTimer(d)
	defer jitter.Stop()

	select {
	case <-ctx.Done():
		// Hard-cancel policy: a stop during the jitter sleep means the
		// message is never handed to the agent.
		slog.Info("attempt canceled during jitter wait", "recipient", att.Job.Recipient)
		return
	case <-jitter.C:
	}

	e.dispatch(att)
}

// dispatch invokes the agent and records the terminal outcome. A delivery
// that has started is never interrupted by Stop, so the agent call gets a
// fresh context.
func (e *Engine) dispatch(att *model.Attempt) bool {
	ack, err := e.deliver(att.Job)
	if err != nil {
		e.transition(att, model.Failed, err.Error())
		slog.Error("delivery failed", "recipient", att.Job.Recipient, "error", err)
		return false
	}

	e.transition(att, model.Sent, "")
	slog.Info("message sent", "recipient", att.Job.Recipient, "remote_id", ack.MessageID)
	return true
}

// deliver shields the engine from a faulting agent: a panic inside Deliver
// becomes a delivery error for this attempt only.
func (e *Engine) deliver(job model.Job) (ack agent.Ack, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("delivery panic: %v", r)
		}
	}()
	return e.agent.Deliver(context.Background(), job.Recipient, job.Body, job.Attachment)
}

func (e *Engine) transition(att *model.Attempt, status model.Status, errText string) {
	e.mu.Lock()
	att.Status = status
	att.Error = errText
	att.UpdatedAt = time.Now().UTC()
	snapshot := *att
	e.mu.Unlock()

	switch status {
	case model.Sent, model.Failed, model.Skipped:
		e.record(snapshot)
	}
}

// record hands a read-only copy to the reporter. Reporting failures go to
// the log, never back into scheduling.
func (e *Engine) record(att model.Attempt) {
	if err := e.reporter.Record(context.Background(), att); err != nil {
		slog.Error("failed to record attempt outcome",
			"attempt", att.ID, "recipient", att.Job.Recipient, "error", err)
	}
}

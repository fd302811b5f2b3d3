package notification

import (
	"context"
	"sync"
	"time"

	"github.com/malabro/eshop-backend/internal/metrics"
	"github.com/sirupsen/logrus"
)

// Task is a unit of best-effort background work.
type Task func(ctx context.Context) error

// Dispatcher runs notification tasks off the request path. Tasks are not
// persisted and never retried: a failure is logged and dropped, and anything
// still queued when the process dies is lost.
type Dispatcher struct {
	timeout time.Duration
	wg      sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewDispatcher(timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Dispatcher{timeout: timeout}
}

// Submit schedules task on its own goroutine and returns immediately. The task
// gets a context detached from any request so a finished response does not
// cancel it. Submit reports false once the dispatcher is shutting down.
func (d *Dispatcher) Submit(kind string, task Task) bool {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		logrus.WithField("kind", kind).Warn("Notification dropped: dispatcher is shutting down")
		metrics.ObserveNotification(kind, metrics.ResultRejected)
		return false
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logrus.WithFields(logrus.Fields{"kind": kind, "panic": r}).Error("Notification task panicked")
				metrics.ObserveNotification(kind, metrics.ResultError)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := task(ctx); err != nil {
			logrus.WithError(err).WithField("kind", kind).Error("Notification failed")
			metrics.ObserveNotification(kind, metrics.ResultError)
			return
		}
		metrics.ObserveNotification(kind, metrics.ResultSuccess)
	}()
	return true
}

// Shutdown stops accepting tasks and waits for in-flight ones until ctx ends.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

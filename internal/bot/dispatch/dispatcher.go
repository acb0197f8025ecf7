// Package dispatch schedules inbound chat messages: concurrent across chats,
// strictly serialized within a chat. Each chat gets a FIFO queue drained by at
// most one task at a time on a shared worker pool, so two messages for the
// same chat can never interleave mid-dialog.
package dispatch

import (
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// Dispatcher fans chat work out to a bounded ants pool while keeping
// per-chat ordering.
type Dispatcher struct {
	pool   *ants.Pool
	logger *slog.Logger

	mu     sync.Mutex
	queues map[string][]func()
	// draining marks chats whose queue currently has a drain task scheduled
	draining map[string]bool
}

type Config struct {
	Size int
}

// NewDispatcher creates a dispatcher backed by a worker pool of the given size
func NewDispatcher(logger *slog.Logger, config Config) (*Dispatcher, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &Dispatcher{
		pool:     pool,
		logger:   logger,
		queues:   make(map[string][]func()),
		draining: make(map[string]bool),
	}, nil
}

// Dispatch enqueues a task for a chat. Tasks for the same chat run in arrival
// order, one at a time; tasks for different chats run concurrently up to the
// pool capacity. Dispatch never blocks on the task itself.
func (d *Dispatcher) Dispatch(chatID string, task func()) {
	d.mu.Lock()
	d.queues[chatID] = append(d.queues[chatID], task)
	if d.draining[chatID] {
		d.mu.Unlock()
		return
	}
	d.draining[chatID] = true
	d.mu.Unlock()

	if err := d.pool.Submit(func() { d.drain(chatID) }); err != nil {
		d.logger.Error("Failed to submit chat queue to worker pool",
			"chat_id", chatID,
			"error", err)
		// Keep ordering intact even when the pool rejects the task
		d.drain(chatID)
	}
}

// drain runs the chat's queued tasks until empty, then releases the chat
func (d *Dispatcher) drain(chatID string) {
	for {
		d.mu.Lock()
		queue := d.queues[chatID]
		if len(queue) == 0 {
			delete(d.queues, chatID)
			delete(d.draining, chatID)
			d.mu.Unlock()
			return
		}
		task := queue[0]
		d.queues[chatID] = queue[1:]
		d.mu.Unlock()

		d.run(chatID, task)
	}
}

// run executes one task, converting a panic into a logged error so a single
// bad message cannot take the drain loop down with it
func (d *Dispatcher) run(chatID string, task func()) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Panic recovered in chat task",
				"chat_id", chatID,
				"error", r,
				"stack", string(debug.Stack()))
		}
	}()
	task()
}

// Shutdown stops the underlying worker pool. Queued tasks that have not
// started are dropped.
func (d *Dispatcher) Shutdown() {
	d.logger.Info("Shutting down dispatcher", "running_workers", d.pool.Running())
	d.pool.Release()
}

// Running returns the number of busy workers in the pool
func (d *Dispatcher) Running() int {
	return d.pool.Running()
}

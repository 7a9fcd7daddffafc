// Package service provides the implementations behind the domain
// interfaces: the analysis engine, the bounded worker pool, progress
// reporting, configuration loading and output formatting.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/soliscan/soliscan/domain"
	"golang.org/x/sync/errgroup"
)

// Default values for the worker pool
const (
	// DefaultPoolConcurrency is used when the option is unset or invalid
	DefaultPoolConcurrency = 4

	// DefaultTaskTimeout is the per-task deadline when none is configured
	DefaultTaskTimeout = 60 * time.Second
)

// TaskFunc is the work carried by one task
type TaskFunc[T, R any] func(ctx context.Context, data T) (R, error)

// Task is one unit of work. Tasks are consumed exactly once.
type Task[T, R any] struct {
	ID      string
	Data    T
	Execute TaskFunc[T, R]
}

// TaskResult records how one task settled
type TaskResult[R any] struct {
	ID       string
	Success  bool
	Result   R
	Err      error
	Duration time.Duration
}

// PoolProgressFunc is invoked once per task settlement
type PoolProgressFunc func(completed, total int, taskID string)

// PoolOptions configures a WorkerPool
type PoolOptions struct {
	// MaxConcurrency caps how many tasks are in the running state at
	// once. Zero or negative picks DefaultPoolConcurrency.
	MaxConcurrency int

	// TaskTimeout is the per-task deadline. Zero picks DefaultTaskTimeout.
	TaskTimeout time.Duration

	// StopOnError suppresses new task starts after the first failure.
	// Already-running tasks always finish.
	StopOnError bool

	// OnProgress, when set, is fired after each task settles
	OnProgress PoolProgressFunc
}

// WorkerPool runs many asynchronous tasks with a hard cap on how many are
// in flight at once, without blocking on tasks that hang.
//
// A task that exceeds its deadline is reported as failed but its
// underlying work is not interrupted; it may still run to completion in
// the background. Callers that care must make such side effects
// idempotent, as the analysis engine does with its cache writes.
type WorkerPool[T, R any] struct {
	maxConcurrency int
	taskTimeout    time.Duration
	stopOnError    bool
	onProgress     PoolProgressFunc

	mu         sync.Mutex
	queue      []Task[T, R]
	results    map[string]TaskResult[R]
	processing bool
	stopped    bool
	completed  int
	done       chan struct{}
}

// NewWorkerPool creates a pool with the given options
func NewWorkerPool[T, R any](opts PoolOptions) *WorkerPool[T, R] {
	maxConcurrency := opts.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultPoolConcurrency
	}
	taskTimeout := opts.TaskTimeout
	if taskTimeout <= 0 {
		taskTimeout = DefaultTaskTimeout
	}
	return &WorkerPool[T, R]{
		maxConcurrency: maxConcurrency,
		taskTimeout:    taskTimeout,
		stopOnError:    opts.StopOnError,
		onProgress:     opts.OnProgress,
		results:        make(map[string]TaskResult[R]),
	}
}

// NumCPUConcurrency returns the concurrency used when the caller does not
// pick one explicitly
func NumCPUConcurrency() int {
	return runtime.NumCPU()
}

// AddTask enqueues one task. Fails once Execute is in flight.
func (p *WorkerPool[T, R]) AddTask(task Task[T, R]) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.processing {
		return domain.NewConcurrencyMisuseError("cannot add tasks while pool is processing")
	}
	p.queue = append(p.queue, task)
	return nil
}

// AddTasks enqueues tasks in order. Fails once Execute is in flight.
func (p *WorkerPool[T, R]) AddTasks(tasks []Task[T, R]) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.processing {
		return domain.NewConcurrencyMisuseError("cannot add tasks while pool is processing")
	}
	p.queue = append(p.queue, tasks...)
	return nil
}

// QueueLen returns the number of tasks waiting to be executed
func (p *WorkerPool[T, R]) QueueLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Execute runs every enqueued task, starting new tasks until the
// concurrency cap is reached and refilling as tasks settle. It returns a
// map from task id to TaskResult covering every enqueued task. An
// individual task failure never fails Execute; the only error it returns
// is the re-entrant invocation misuse.
func (p *WorkerPool[T, R]) Execute(ctx context.Context) (map[string]TaskResult[R], error) {
	p.mu.Lock()
	if p.processing {
		p.mu.Unlock()
		return nil, domain.NewConcurrencyMisuseError("pool already processing")
	}
	p.processing = true
	p.stopped = false
	p.completed = 0
	p.done = make(chan struct{})
	tasks := p.queue
	p.queue = nil
	total := len(tasks)
	p.mu.Unlock()

	g := new(errgroup.Group)
	g.SetLimit(p.maxConcurrency)

	for _, task := range tasks {
		g.Go(func() error {
			p.runTask(ctx, task, total)
			return nil
		})
	}
	_ = g.Wait()

	p.mu.Lock()
	results := make(map[string]TaskResult[R], len(p.results))
	for id, r := range p.results {
		results[id] = r
	}
	p.processing = false
	close(p.done)
	p.mu.Unlock()

	return results, nil
}

// runTask executes one task, racing it against the per-task deadline
func (p *WorkerPool[T, R]) runTask(ctx context.Context, task Task[T, R], total int) {
	// The stop flag suppresses new starts only; tasks that already
	// began keep running.
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		p.settle(TaskResult[R]{
			ID:  task.ID,
			Err: fmt.Errorf("task %s not started: pool stopped", task.ID),
		}, total)
		return
	}
	p.mu.Unlock()

	start := time.Now()

	type outcome struct {
		result R
		err    error
	}
	outcomeCh := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				outcomeCh <- outcome{err: fmt.Errorf("task panicked: %v", r)}
			}
		}()
		result, err := task.Execute(ctx, task.Data)
		outcomeCh <- outcome{result: result, err: err}
	}()

	timer := time.NewTimer(p.taskTimeout)
	defer timer.Stop()

	var settled TaskResult[R]
	select {
	case o := <-outcomeCh:
		settled = TaskResult[R]{
			ID:      task.ID,
			Success: o.err == nil,
			Result:  o.result,
			Err:     o.err,
		}
	case <-timer.C:
		// The losing goroutine is not cancelled, only ignored; its
		// buffered channel send will not block it.
		settled = TaskResult[R]{
			ID:  task.ID,
			Err: fmt.Errorf("task %s timed out after %v", task.ID, p.taskTimeout),
		}
	case <-ctx.Done():
		settled = TaskResult[R]{
			ID:  task.ID,
			Err: fmt.Errorf("task %s cancelled: %w", task.ID, ctx.Err()),
		}
	}
	settled.Duration = time.Since(start)
	p.settle(settled, total)
}

// settle records a task result, handles stop-on-error and fires progress
func (p *WorkerPool[T, R]) settle(result TaskResult[R], total int) {
	p.mu.Lock()
	p.results[result.ID] = result
	p.completed++
	completed := p.completed
	if !result.Success && p.stopOnError {
		p.stopped = true
	}
	onProgress := p.onProgress
	p.mu.Unlock()

	if onProgress != nil {
		onProgress(completed, total, result.ID)
	}
}

// Stop prevents new task starts and waits for currently-running tasks to
// settle. Cooperative only: already-started work is not interrupted.
func (p *WorkerPool[T, R]) Stop() {
	p.mu.Lock()
	p.stopped = true
	if !p.processing {
		p.mu.Unlock()
		return
	}
	done := p.done
	p.mu.Unlock()
	<-done
}

// Reset clears the queue, results and counters. Fails while Execute is in
// flight.
func (p *WorkerPool[T, R]) Reset() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.processing {
		return domain.NewConcurrencyMisuseError("cannot reset while pool is processing")
	}
	p.queue = nil
	p.results = make(map[string]TaskResult[R])
	p.completed = 0
	p.stopped = false
	return nil
}

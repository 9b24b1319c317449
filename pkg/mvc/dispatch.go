package mvc

import (
	"context"
	"runtime"
	"sync"
)

// DefaultQueue is the queue of dispatch markers that name none
const DefaultQueue = "worker"

// Executor runs a task and returns once it finished
type Executor interface {
	Execute(ctx context.Context, task func()) error
}

// Pool is an Executor running at most size tasks at a time
type Pool struct {
	slots chan struct{}
}

// NewPool creates a pool with size slots
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{slots: make(chan struct{}, size)}
}

// Execute waits for a free slot, runs task on its own goroutine and waits
// for it. It fails only when ctx ends before a slot frees up.
func (p *Pool) Execute(ctx context.Context, task func()) error {
	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	done := make(chan struct{})
	go func() {
		defer func() {
			<-p.slots
			close(done)
		}()
		task()
	}()
	<-done
	return nil
}

// Dispatcher maps dispatch queues to executors
type Dispatcher struct {
	mu        sync.RWMutex
	executors map[string]Executor
}

// NewDispatcher creates a dispatcher whose default queue is a pool sized
// after GOMAXPROCS
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{executors: make(map[string]Executor)}
	d.Register(DefaultQueue, NewPool(runtime.GOMAXPROCS(0)))
	return d
}

// Register installs or replaces the executor of queue
func (d *Dispatcher) Register(queue string, e Executor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.executors[queue] = e
}

// Run calls h on the executor of the route's dispatch queue, or directly
// when the route has none. A panic in h is raised again on the caller.
func (d *Dispatcher) Run(ctx Context, h Handler) (any, error) {
	route := ctx.Route()
	if d == nil || route == nil || route.Dispatch() == "" {
		return h(ctx)
	}
	queue := route.Dispatch()

	d.mu.RLock()
	executor, ok := d.executors[queue]
	d.mu.RUnlock()
	if !ok {
		return nil, ErrInternal("no executor for dispatch queue "+queue, nil)
	}

	var (
		result   any
		err      error
		panicked any
	)
	execErr := executor.Execute(ctx.Context(), func() {
		defer func() { panicked = recover() }()
		result, err = h(ctx)
	})
	if execErr != nil {
		return nil, &Error{Status: 503, Message: "dispatch queue " + queue + " unavailable", Err: execErr}
	}
	if panicked != nil {
		panic(panicked)
	}
	return result, err
}

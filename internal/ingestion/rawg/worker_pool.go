package rawg

import (
	"context"
	"log"
	"sync"
)

// Task is one unit-of-work execution submitted to the pool.
type Task func(ctx context.Context) error

// WorkerPool runs independent units of work concurrently. Each unit still
// processes its own pages sequentially; the pool only parallelizes across
// units.
type WorkerPool struct {
	workerCount int
	taskQueue   chan Task
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	closed      bool
	closeMux    sync.Mutex
}

// NewWorkerPool creates a pool with the specified number of workers.
func NewWorkerPool(workerCount int) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		workerCount: workerCount,
		taskQueue:   make(chan Task, workerCount*2),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start launches worker goroutines.
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
	log.Printf("[WorkerPool] Started %d workers", wp.workerCount)
}

// Submit adds a task to the queue. Tasks submitted after Wait or Shutdown
// are rejected.
func (wp *WorkerPool) Submit(task Task) {
	// The mutex serializes Submit against the close in Wait, so a send can
	// never hit a closed queue.
	wp.closeMux.Lock()
	defer wp.closeMux.Unlock()

	if wp.closed {
		log.Println("[WorkerPool] Pool is shut down, task rejected")
		return
	}

	select {
	case wp.taskQueue <- task:
	case <-wp.ctx.Done():
		log.Println("[WorkerPool] Pool is shutting down, task rejected")
	}
}

// Wait blocks until all submitted tasks complete.
func (wp *WorkerPool) Wait() {
	wp.closeMux.Lock()
	if !wp.closed {
		close(wp.taskQueue)
		wp.closed = true
	}
	wp.closeMux.Unlock()

	wp.wg.Wait()
}

// Shutdown cancels all workers and waits for them to exit.
func (wp *WorkerPool) Shutdown() {
	log.Println("[WorkerPool] Shutting down...")
	wp.cancel()
	wp.Wait()
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case task, ok := <-wp.taskQueue:
			if !ok {
				return
			}
			if err := task(wp.ctx); err != nil {
				log.Printf("[Worker-%d] Task failed: %v", id, err)
			}

		case <-wp.ctx.Done():
			return
		}
	}
}

package rawg

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkerPool_RunsAllTasks(t *testing.T) {
	pool := NewWorkerPool(4)
	pool.Start()

	var done int32
	for i := 0; i < 20; i++ {
		pool.Submit(func(ctx context.Context) error {
			atomic.AddInt32(&done, 1)
			return nil
		})
	}
	pool.Wait()

	assert.Equal(t, int32(20), atomic.LoadInt32(&done))
}

func TestWorkerPool_TaskFailureDoesNotStopOthers(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Start()

	var done int32
	for i := 0; i < 10; i++ {
		i := i
		pool.Submit(func(ctx context.Context) error {
			if i%2 == 0 {
				return errors.New("task failed")
			}
			atomic.AddInt32(&done, 1)
			return nil
		})
	}
	pool.Wait()

	assert.Equal(t, int32(5), atomic.LoadInt32(&done))
}

func TestWorkerPool_ShutdownStopsWorkers(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Start()
	pool.Shutdown()

	// Submitting after shutdown is a no-op, not a panic.
	var ran int32
	for i := 0; i < 50; i++ {
		pool.Submit(func(ctx context.Context) error {
			atomic.AddInt32(&ran, 1)
			return nil
		})
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&ran))
}

func TestWorkerPool_SubmitAfterWaitIsRejected(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Start()
	pool.Wait()

	var ran int32
	pool.Submit(func(ctx context.Context) error {
		atomic.AddInt32(&ran, 1)
		return nil
	})
	assert.Equal(t, int32(0), atomic.LoadInt32(&ran))
}

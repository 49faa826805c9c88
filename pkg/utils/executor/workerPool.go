package executor

import (
	"runtime"
	"sync"
	atomic2 "sync/atomic"
)

// Task represents a unit of work to be processed by the worker pool
type Task struct {
	id  int
	run func()
}

var taskIds atomic2.Int64

func newTask(run func()) Task {
	return Task{
		id:  int(taskIds.Add(1)),
		run: run,
	}
}

// WorkerPool runs submitted tasks on at most maxWorkers goroutines at a time
type WorkerPool struct {
	taskQueue   chan Task
	workerQueue chan struct{}
	wg          sync.WaitGroup
	stopOnce    sync.Once
	maxWorkers  int
}

// NewWorkerPool initializes a new WorkerPool with one worker per CPU
func NewWorkerPool() *WorkerPool {
	return NewWorkerPoolWithMax(runtime.NumCPU())
}

func NewWorkerPoolWithMax(maxWorkers int) *WorkerPool {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}
	pool := &WorkerPool{
		taskQueue:   make(chan Task),
		workerQueue: make(chan struct{}, maxWorkers), // Buffered channel to limit max concurrent workers
		maxWorkers:  maxWorkers,
	}
	go pool.dispatch()
	return pool
}

func (wp *WorkerPool) MaxWorkers() int {
	return wp.maxWorkers
}

// dispatch blocks on the semaphore before starting a worker, so no more than maxWorkers tasks run at once
func (wp *WorkerPool) dispatch() {
	for task := range wp.taskQueue {
		wp.workerQueue <- struct{}{}
		go wp.worker(task)
	}
}

func (wp *WorkerPool) worker(task Task) {
	defer wp.wg.Done()
	defer func() { <-wp.workerQueue }()
	task.run()
}

// submit queues run. Must not be called after Stop.
func (wp *WorkerPool) submit(run func()) {
	wp.wg.Add(1)
	wp.taskQueue <- newTask(run)
}

// SubmitWithError adds a task to the task queue; its result or error is delivered through the returned future
func SubmitWithError[T any](wp *WorkerPool, defaultValue T, task func() (T, error)) *Future[T] {
	fut := newFuture(defaultValue)
	wp.submit(func() {
		fut.complete(task())
	})
	return fut
}

// Stop waits for queued tasks and shuts the dispatcher down. It is safe to call more than once.
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() {
		close(wp.taskQueue)
	})
	wp.wg.Wait()
}

func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

package concurrent

import (
	"sync"
)

type JobFunc[T any, G any] func(job T) G

// WorkerPool runs jobFunc on numWorkers goroutines. Results arrive in completion order.
type WorkerPool[T any, G any] struct {
	numWorkers int
	jobQueue   chan T
	results    chan G
	wg         sync.WaitGroup
}

func NewWorkerPool[T any, G any](numWorkers, jobQueueSize int) *WorkerPool[T, G] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &WorkerPool[T, G]{
		numWorkers: numWorkers,
		jobQueue:   make(chan T, jobQueueSize),
		results:    make(chan G, jobQueueSize),
	}
}

func (wp *WorkerPool[T, G]) worker(jobFunc JobFunc[T, G]) {
	defer wp.wg.Done()
	for job := range wp.jobQueue {
		wp.results <- jobFunc(job)
	}
}

func (wp *WorkerPool[T, G]) Start(jobFunc JobFunc[T, G]) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(jobFunc)
	}
}

// Wait blocks until all workers are done and closes the results channel.
func (wp *WorkerPool[T, G]) Wait() {
	wp.wg.Wait()
	close(wp.results)
}

func (wp *WorkerPool[T, G]) AddJob(job T) {
	wp.jobQueue <- job
}

func (wp *WorkerPool[T, G]) CollectResults() chan G {
	return wp.results
}

// Close stops accepting jobs; workers exit after draining the queue.
func (wp *WorkerPool[T, G]) Close() {
	close(wp.jobQueue)
}

// Run processes all jobs and returns their results. Producer and consumer run concurrently,
// so any number of jobs fits through queues of any size.
func Run[T any, G any](numWorkers int, jobs []T, jobFunc JobFunc[T, G]) []G {
	wp := NewWorkerPool[T, G](numWorkers, numWorkers)
	wp.Start(jobFunc)

	go func() {
		for _, job := range jobs {
			wp.AddJob(job)
		}
		wp.Close()
	}()
	go wp.Wait()

	results := make([]G, 0, len(jobs))
	for res := range wp.CollectResults() {
		results = append(results, res)
	}
	return results
}

package concurrent

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkerPool(t *testing.T) {
	wp := NewWorkerPool[int, int](4, 10)
	wp.Start(func(job int) int {
		return job * job
	})

	for i := 0; i < 10; i++ {
		wp.AddJob(i)
	}
	wp.Close()
	wp.Wait()

	got := make([]int, 0, 10)
	for res := range wp.CollectResults() {
		got = append(got, res)
	}
	sort.Ints(got)
	assert.Equal(t, []int{0, 1, 4, 9, 16, 25, 36, 49, 64, 81}, got)
}

func TestRunMoreJobsThanQueue(t *testing.T) {
	jobs := make([]int, 1000)
	for i := range jobs {
		jobs[i] = i
	}

	got := Run(3, jobs, func(job int) int {
		return job + 1
	})
	sort.Ints(got)

	assert.Len(t, got, 1000)
	assert.Equal(t, 1, got[0])
	assert.Equal(t, 1000, got[999])
}

func TestRunNoJobs(t *testing.T) {
	got := Run(0, []string{}, func(job string) int {
		return len(job)
	})
	assert.Empty(t, got)
}

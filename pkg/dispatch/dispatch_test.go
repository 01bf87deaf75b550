package dispatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoop_RunsTasksInOrder(t *testing.T) {
	l := New(10)

	var got []int
	for i := 1; i <= 5; i++ {
		i := i
		l.Dispatch(func() { got = append(got, i) })
	}
	l.Stop()
	l.Run()

	require.Equal(t, []int{1, 2, 3, 4, 5}, got)
}

func TestLoop_StopDrainsPendingWork(t *testing.T) {
	l := New(10)

	ran := 0
	l.Dispatch(func() { ran++ })
	l.Dispatch(func() { ran++ })
	l.Stop()
	// Anything dispatched after Stop is not executed by this Run.
	l.Dispatch(func() { ran += 100 })
	l.Run()

	require.Equal(t, 2, ran)
}

func TestLoop_StopFromInsideTask(t *testing.T) {
	l := New(1)

	ran := false
	l.Dispatch(func() {
		ran = true
		l.Stop()
	})

	done := make(chan struct{})
	go func() {
		l.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Stop from inside a task")
	}
	require.True(t, ran)
}

func TestLoop_CrossGoroutineDispatch(t *testing.T) {
	l := New(2)

	results := make(chan int, 3)
	go func() {
		for i := 1; i <= 3; i++ {
			i := i
			l.Dispatch(func() { results <- i })
		}
		l.Stop()
	}()

	l.Run()
	close(results)

	var got []int
	for v := range results {
		got = append(got, v)
	}
	require.Equal(t, []int{1, 2, 3}, got)
}

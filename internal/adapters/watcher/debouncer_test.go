package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/knowgraph/internal/adapters/watcher"
)

type recorder struct {
	mu    sync.Mutex
	calls [][]string
}

func (r *recorder) record(paths []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, paths)
}

func (r *recorder) snapshot() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.calls...)
}

func TestDebouncer_CoalescesBurst(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var rec recorder
		d := watcher.NewDebouncer(100*time.Millisecond, rec.record)

		d.Add("/site/templates/blog/tech/0002_b.html")
		d.Add("/site/templates/blog/tech/0001_a.html")
		d.Add("/site/templates/blog/tech/0002_b.html")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		calls := rec.snapshot()
		require.Len(t, calls, 1)
		assert.Equal(t, []string{
			"/site/templates/blog/tech/0001_a.html",
			"/site/templates/blog/tech/0002_b.html",
		}, calls[0])
	})
}

func TestDebouncer_WindowRestartsOnAdd(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var rec recorder
		d := watcher.NewDebouncer(100*time.Millisecond, rec.record)

		d.Add("a.html")
		time.Sleep(60 * time.Millisecond)
		d.Add("b.html")
		time.Sleep(60 * time.Millisecond)
		synctest.Wait()

		assert.Empty(t, rec.snapshot())

		time.Sleep(50 * time.Millisecond)
		synctest.Wait()

		calls := rec.snapshot()
		require.Len(t, calls, 1)
		assert.Equal(t, []string{"a.html", "b.html"}, calls[0])
	})
}

func TestDebouncer_Flush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var rec recorder
		d := watcher.NewDebouncer(100*time.Millisecond, rec.record)

		d.Flush()
		assert.Empty(t, rec.snapshot())

		d.Add("a.html")
		d.Flush()
		require.Len(t, rec.snapshot(), 1)

		// The stopped timer must not report the same batch again.
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		assert.Len(t, rec.snapshot(), 1)

		d.Add("b.html")
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		d.Flush()

		calls := rec.snapshot()
		require.Len(t, calls, 2)
		assert.Equal(t, []string{"b.html"}, calls[1])
	})
}

func TestDebouncer_StopWaitsForRunningCallback(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		release := make(chan struct{})
		var rec recorder
		d := watcher.NewDebouncer(50*time.Millisecond, func(paths []string) {
			<-release
			rec.record(paths)
		})

		d.Add("a.html")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		stopped := make(chan struct{})
		go func() {
			d.Stop()
			close(stopped)
		}()
		synctest.Wait()

		select {
		case <-stopped:
			t.Fatal("Stop returned while the callback was running")
		default:
		}

		close(release)
		synctest.Wait()

		select {
		case <-stopped:
		default:
			t.Fatal("Stop did not return after the callback finished")
		}
		assert.Len(t, rec.snapshot(), 1)
	})
}

func TestDebouncer_StopDropsPending(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var rec recorder
		d := watcher.NewDebouncer(50*time.Millisecond, rec.record)

		d.Add("a.html")
		d.Stop()
		d.Add("b.html")

		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		d.Flush()

		assert.Empty(t, rec.snapshot())
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		d := watcher.NewDebouncer(50*time.Millisecond, nil)

		assert.NotPanics(t, func() {
			d.Add("a.html")
			time.Sleep(100 * time.Millisecond)
			synctest.Wait()
			d.Add("b.html")
			d.Flush()
		})
	})
}

package assets

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nebulaforge/nebula/points"
)

// fakeSource counts underlying loads and can block or fail on demand.
type fakeSource struct {
	calls   atomic.Int32
	release chan struct{} // if non-nil, loads block until closed
	failing atomic.Bool
}

func (s *fakeSource) LoadRawVertices(ctx context.Context, key string) (RawVertices, error) {
	s.calls.Add(1)
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return RawVertices{}, ctx.Err()
		}
	}
	if s.failing.Load() {
		return RawVertices{}, ErrParse
	}
	return RawVertices{Positions: []float32{1, 2, 3}, Count: 1}, nil
}

func passthrough(raw RawVertices) (points.Buffer, error) {
	return points.Buffer(raw.Positions), nil
}

func TestCacheLoadsOnce(t *testing.T) {
	src := &fakeSource{}
	c := NewCache(src, passthrough)

	for i := 0; i < 5; i++ {
		buf, err := c.GetOrLoad(context.Background(), "torus.xyz")
		if err != nil {
			t.Fatalf("GetOrLoad returned error: %v", err)
		}
		if buf.Count() != 1 {
			t.Fatalf("count = %d, want 1", buf.Count())
		}
	}

	if n := src.calls.Load(); n != 1 {
		t.Errorf("underlying loads = %d, want 1", n)
	}
}

func TestCacheSharesInFlightLoad(t *testing.T) {
	src := &fakeSource{release: make(chan struct{})}
	c := NewCache(src, passthrough)

	var wg sync.WaitGroup
	errs := make([]error, 2)

	// First request becomes the loader and blocks inside the source.
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, errs[0] = c.GetOrLoad(context.Background(), "cake.csv")
	}()

	waitFor(t, func() bool { return src.calls.Load() == 1 })

	// Second request for the same unresolved key must wait, not reload.
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, errs[1] = c.GetOrLoad(context.Background(), "cake.csv")
	}()

	close(src.release)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("request %d returned error: %v", i, err)
		}
	}
	if n := src.calls.Load(); n != 1 {
		t.Errorf("underlying loads = %d, want 1", n)
	}
}

func TestCacheFailureNotCached(t *testing.T) {
	src := &fakeSource{}
	src.failing.Store(true)
	c := NewCache(src, passthrough)

	if _, err := c.GetOrLoad(context.Background(), "skull.xyz"); !errors.Is(err, ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}

	// The failed key retries and succeeds once the source recovers.
	src.failing.Store(false)
	if _, err := c.GetOrLoad(context.Background(), "skull.xyz"); err != nil {
		t.Fatalf("retry returned error: %v", err)
	}
	if n := src.calls.Load(); n != 2 {
		t.Errorf("underlying loads = %d, want 2", n)
	}
}

func TestCacheBuildErrorNotCached(t *testing.T) {
	src := &fakeSource{}
	buildErr := errors.New("budget mismatch")
	fail := true
	c := NewCache(src, func(raw RawVertices) (points.Buffer, error) {
		if fail {
			return nil, buildErr
		}
		return passthrough(raw)
	})

	if _, err := c.GetOrLoad(context.Background(), "rocket.xyz"); !errors.Is(err, buildErr) {
		t.Fatalf("err = %v, want build error", err)
	}

	fail = false
	if _, err := c.GetOrLoad(context.Background(), "rocket.xyz"); err != nil {
		t.Fatalf("retry returned error: %v", err)
	}
}

func TestCacheClear(t *testing.T) {
	src := &fakeSource{}
	c := NewCache(src, passthrough)

	if _, err := c.GetOrLoad(context.Background(), "torus.xyz"); err != nil {
		t.Fatalf("GetOrLoad returned error: %v", err)
	}
	c.Clear()
	if _, err := c.GetOrLoad(context.Background(), "torus.xyz"); err != nil {
		t.Fatalf("GetOrLoad after Clear returned error: %v", err)
	}

	if n := src.calls.Load(); n != 2 {
		t.Errorf("underlying loads = %d, want 2", n)
	}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
}

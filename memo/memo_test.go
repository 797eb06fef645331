package memo

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/andreyvit/rope"
)

func TestCache_PutGet(t *testing.T) {
	c := New(Options{})
	defer c.Close()

	changed, err := c.Put("main.js", rope.FromString("console.log(1)"))
	if err != nil || !changed {
		t.Fatalf("Put = (%v, %v), wanted (true, nil)", changed, err)
	}

	r, ok, err := c.Get("main.js")
	if err != nil || !ok {
		t.Fatalf("Get = (_, %v, %v), wanted (_, true, nil)", ok, err)
	}
	if got := string(r.Bytes()); got != "console.log(1)" {
		t.Fatalf("Get = %q, wanted %q", got, "console.log(1)")
	}

	if _, ok, err := c.Get("missing.js"); ok || err != nil {
		t.Fatalf("Get(missing) = (_, %v, %v), wanted (_, false, nil)", ok, err)
	}
}

func TestCache_UnchangedContentDetection(t *testing.T) {
	c := New(Options{})
	defer c.Close()

	if _, err := c.Put("app.css", rope.FromString("body{}")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// The same content assembled from a different chunk structure must
	// be recognized as unchanged.
	var rebuilt rope.Rope
	rebuilt.Push([]byte("bo"))
	rebuilt.PushShared(rope.NewChunk([]byte("dy{}")))
	changed, err := c.Put("app.css", &rebuilt)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if changed {
		t.Fatalf("recomputed identical artifact reported as changed")
	}

	changed, err = c.Put("app.css", rope.FromString("body{color:red}"))
	if err != nil || !changed {
		t.Fatalf("Put = (%v, %v), wanted (true, nil)", changed, err)
	}
}

func TestCache_Delete(t *testing.T) {
	c := New(Options{})
	defer c.Close()

	must(c.Put("k", rope.FromString("v")))
	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := c.Get("k"); ok {
		t.Fatalf("Get after Delete = true, wanted false")
	}
	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete of absent key failed: %v", err)
	}
}

func TestCache_Bolt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memo.db")

	c := must(Open(path, Options{}))
	must(c.Put("index.html", rope.FromString("<html></html>")))
	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Content must survive reopening.
	c = must(Open(path, Options{}))
	defer c.Close()
	r, ok, err := c.Get("index.html")
	if err != nil || !ok {
		t.Fatalf("Get after reopen = (_, %v, %v), wanted (_, true, nil)", ok, err)
	}
	if got := string(r.Bytes()); got != "<html></html>" {
		t.Fatalf("Get = %q, wanted %q", got, "<html></html>")
	}

	changed := must(c.Put("index.html", rope.FromString("<html></html>")))
	if changed {
		t.Fatalf("identical artifact reported as changed after reopen")
	}
}

func TestCache_GetOrCompute(t *testing.T) {
	c := New(Options{})
	defer c.Close()

	var calls atomic.Int32
	compute := func() (*rope.Rope, error) {
		calls.Add(1)
		return rope.FromString("computed"), nil
	}

	r := must(c.GetOrCompute("k", compute))
	if got := string(r.Bytes()); got != "computed" {
		t.Fatalf("GetOrCompute = %q, wanted %q", got, "computed")
	}
	r = must(c.GetOrCompute("k", compute))
	if got := string(r.Bytes()); got != "computed" {
		t.Fatalf("GetOrCompute = %q, wanted %q", got, "computed")
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("compute ran %d times, wanted 1", n)
	}

	computeErr := fmt.Errorf("boom")
	_, err := c.GetOrCompute("bad", func() (*rope.Rope, error) {
		return nil, computeErr
	})
	if !errors.Is(err, computeErr) {
		t.Fatalf("GetOrCompute err = %v, wanted %v", err, computeErr)
	}
}

func TestCache_GetOrComputeDeduplicates(t *testing.T) {
	c := New(Options{})
	defer c.Close()

	var calls atomic.Int32
	release := make(chan struct{})
	compute := func() (*rope.Rope, error) {
		calls.Add(1)
		<-release
		return rope.FromString("slow"), nil
	}

	const workers = 8
	var wg sync.WaitGroup
	results := make([]string, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := c.GetOrCompute("slow", compute)
			if err != nil {
				t.Errorf("GetOrCompute failed: %v", err)
				return
			}
			results[i] = string(r.Bytes())
		}(i)
	}
	close(release)
	wg.Wait()

	for i, got := range results {
		if got != "slow" {
			t.Fatalf("worker %d got %q, wanted %q", i, got, "slow")
		}
	}
	// Concurrent callers may race past the singleflight window, but
	// nowhere near one call per worker.
	if n := calls.Load(); n > 2 {
		t.Fatalf("compute ran %d times for concurrent callers, wanted at most 2", n)
	}
}

func TestCache_CorruptEntry(t *testing.T) {
	c := New(Options{})
	defer c.Close()

	if err := c.store.Put("bad", []byte{0xC1}); err != nil { // reserved msgpack byte
		t.Fatalf("store.Put failed: %v", err)
	}

	_, _, err := c.Get("bad")
	var entryErr *EntryError
	if !errors.As(err, &entryErr) {
		t.Fatalf("Get err = %v, wanted *EntryError", err)
	}
	if entryErr.Key != "bad" {
		t.Fatalf("EntryError.Key = %q, wanted %q", entryErr.Key, "bad")
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

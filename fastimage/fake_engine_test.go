package fastimage

import (
	"context"
	"sync"
)

// fakeEngine records every request and lets tests gate specific URIs so
// settlement order is controlled explicitly.
type fakeEngine struct {
	mu     sync.Mutex
	loads  []Request
	gates  map[string]chan error
	fails  map[string]error
	clears []string

	clearErr error
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		gates: make(map[string]chan error),
		fails: make(map[string]error),
	}
}

// gate makes LoadImage for uri block until the test sends its result on the
// returned channel. One send releases one in-flight load.
func (e *fakeEngine) gate(uri string) chan error {
	ch := make(chan error)
	e.mu.Lock()
	e.gates[uri] = ch
	e.mu.Unlock()
	return ch
}

// gateWith points uri at an existing channel so several URIs share one gate.
func (e *fakeEngine) gateWith(uri string, ch chan error) {
	e.mu.Lock()
	e.gates[uri] = ch
	e.mu.Unlock()
}

// failWith makes LoadImage for uri return err immediately.
func (e *fakeEngine) failWith(uri string, err error) {
	e.mu.Lock()
	e.fails[uri] = err
	e.mu.Unlock()
}

func (e *fakeEngine) LoadImage(_ context.Context, req Request) error {
	e.mu.Lock()
	e.loads = append(e.loads, req)
	gate := e.gates[req.URI]
	err := e.fails[req.URI]
	e.mu.Unlock()
	if gate != nil {
		return <-gate
	}
	return err
}

func (e *fakeEngine) loadCount(uri string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, req := range e.loads {
		if req.URI == uri {
			n++
		}
	}
	return n
}

func (e *fakeEngine) totalLoads() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.loads)
}

func (e *fakeEngine) lastLoad() (Request, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.loads) == 0 {
		return Request{}, false
	}
	return e.loads[len(e.loads)-1], true
}

func (e *fakeEngine) ClearMemoryCache(context.Context) error {
	return e.recordClear("memory")
}

func (e *fakeEngine) ClearDiskCache(context.Context) error {
	return e.recordClear("disk")
}

func (e *fakeEngine) ClearAllCaches(context.Context) error {
	return e.recordClear("all")
}

func (e *fakeEngine) recordClear(tier string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clears = append(e.clears, tier)
	return e.clearErr
}

func (e *fakeEngine) clearedTiers() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.clears))
	copy(out, e.clears)
	return out
}

// observerLog collects observer firings in order.
type observerLog struct {
	mu     sync.Mutex
	events []string
	errs   []error
}

func (l *observerLog) onLoad() {
	l.mu.Lock()
	l.events = append(l.events, "load")
	l.mu.Unlock()
}

func (l *observerLog) onError(err error) {
	l.mu.Lock()
	l.events = append(l.events, "error")
	l.errs = append(l.errs, err)
	l.mu.Unlock()
}

func (l *observerLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.events))
	copy(out, l.events)
	return out
}

func (l *observerLog) lastErr() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.errs) == 0 {
		return nil
	}
	return l.errs[len(l.errs)-1]
}

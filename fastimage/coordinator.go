package fastimage

import (
	"context"
	"log"
	"sync"
)

// LoadState is the lifecycle of the current load request. It advances
// Idle -> Loading -> Loaded|Errored for remote sources; local sources jump
// straight to Loaded. A source identity change resets the machine to a fresh
// Loading (or terminal) state for the new source.
type LoadState uint8

const (
	StateIdle LoadState = iota
	StateLoading
	StateLoaded
	StateErrored
)

func (s LoadState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateErrored:
		return "errored"
	default:
		return "idle"
	}
}

// coordinator owns one view's load lifecycle. Every (re)start of the state
// machine bumps a generation counter; async completions carry the generation
// they were started under and are discarded when a newer request has taken
// over. That guard is what keeps a stale slow response from clobbering the
// state of a source set later.
//
// Observer callbacks fire outside the lock, at most once per settled request,
// on the goroutine that completed the load. close suppresses all future
// callbacks but never cancels engine work already in flight.
type coordinator struct {
	engine Engine

	mu      sync.Mutex
	gen     uint64
	key     string
	state   LoadState
	lastErr error
	closed  bool
	onLoad  func()
	onError func(error)
}

func newCoordinator(engine Engine) *coordinator {
	return &coordinator{engine: engine}
}

// setObservers replaces the completion callbacks. Requests already settled
// do not re-fire.
func (c *coordinator) setObservers(onLoad func(), onError func(error)) {
	c.mu.Lock()
	c.onLoad = onLoad
	c.onError = onError
	c.mu.Unlock()
}

// begin starts or restarts the state machine for src. Setting a source with
// the identity already tracked is a no-op, whatever state the machine is in;
// a new identity supersedes the previous request entirely.
func (c *coordinator) begin(src Source) {
	c.mu.Lock()
	key := src.Key()
	if c.state != StateIdle && key == c.key {
		c.mu.Unlock()
		return
	}
	c.gen++
	gen := c.gen
	c.key = key

	if err := src.Validate(); err != nil {
		c.state = StateErrored
		c.lastErr = err
		notify := c.onError
		suppressed := c.closed
		c.mu.Unlock()
		log.Printf("Error beginLoad: invalid image source: %v", err)
		if !suppressed && notify != nil {
			notify(err)
		}
		return
	}

	if src.IsLocal() {
		// Local assets are bundled with the binary; there is nothing to
		// fetch and no failure mode short of a missing file at draw time.
		c.state = StateLoaded
		c.lastErr = nil
		notify := c.onLoad
		suppressed := c.closed
		c.mu.Unlock()
		if !suppressed && notify != nil {
			notify()
		}
		return
	}

	req, _ := src.Request()
	c.state = StateLoading
	c.lastErr = nil
	c.mu.Unlock()

	go func() {
		// Deliberately not tied to the view's lifetime: a closed view
		// stops observing but the fetch still lands in the caches.
		err := c.engine.LoadImage(context.Background(), req)
		c.complete(gen, req.URI, err)
	}()
}

// complete settles the request started under gen. Completions for superseded
// generations are dropped without touching state or observers.
func (c *coordinator) complete(gen uint64, uri string, err error) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	var notifyLoad func()
	var notifyErr func(error)
	if err != nil {
		err = &LoadError{Op: "load", URI: uri, Err: err}
		c.state = StateErrored
		c.lastErr = err
		if !c.closed {
			notifyErr = c.onError
		}
	} else {
		c.state = StateLoaded
		c.lastErr = nil
		if !c.closed {
			notifyLoad = c.onLoad
		}
	}
	c.mu.Unlock()

	if err != nil {
		log.Printf("Error completeLoad: %v", err)
		if notifyErr != nil {
			notifyErr(err)
		}
		return
	}
	if notifyLoad != nil {
		notifyLoad()
	}
}

// snapshot returns the current state and, for StateErrored, the error that
// settled it.
func (c *coordinator) snapshot() (LoadState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.lastErr
}

// close stops all observer callbacks permanently. In-flight loads run to
// completion inside the engine so their results stay cached for the next
// view of the same source.
func (c *coordinator) close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

package report

import (
	"sync"

	"github.com/nguyengg/eic/pipeline"
)

// Async dispatches progress and messages to the wrapped sinks on its own goroutine.
//
// Calls to Progress and Message never block: they are queued without bound and delivered in order. Close must be
// called to deliver whatever is still queued and stop the goroutine.
type Async struct {
	progress pipeline.ProgressSink
	messages pipeline.MessageSink

	// mu guards queue and closed.
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool

	done chan struct{}
}

var (
	_ pipeline.ProgressSink = (*Async)(nil)
	_ pipeline.MessageSink  = (*Async)(nil)
)

// NewAsync starts a new Async. Either sink may be nil in which case the corresponding calls are dropped.
func NewAsync(progress pipeline.ProgressSink, messages pipeline.MessageSink) *Async {
	if progress == nil {
		progress = pipeline.Discard
	}
	if messages == nil {
		messages = pipeline.Discard
	}

	a := &Async{progress: progress, messages: messages, done: make(chan struct{})}
	a.cond = sync.NewCond(&a.mu)
	go a.run()
	return a
}

func (a *Async) Progress(percent float64) {
	a.enqueue(func() {
		a.progress.Progress(percent)
	})
}

func (a *Async) Message(text string) {
	a.enqueue(func() {
		a.messages.Message(text)
	})
}

// Close delivers everything that has been queued then stops the dispatching goroutine.
//
// Calls made after Close are dropped. Close is safe to call more than once.
func (a *Async) Close() error {
	a.mu.Lock()
	a.closed = true
	a.cond.Signal()
	a.mu.Unlock()

	<-a.done
	return nil
}

func (a *Async) enqueue(f func()) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}

	a.queue = append(a.queue, f)
	a.cond.Signal()
}

func (a *Async) run() {
	defer close(a.done)

	for {
		a.mu.Lock()
		for len(a.queue) == 0 && !a.closed {
			a.cond.Wait()
		}

		batch, closed := a.queue, a.closed
		a.queue = nil
		a.mu.Unlock()

		for _, f := range batch {
			f()
		}

		if closed && len(batch) == 0 {
			return
		}
	}
}

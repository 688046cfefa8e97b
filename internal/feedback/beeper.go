package feedback

import (
	"sync"
	"time"
)

// Ticker is the subset of time.Ticker the Beeper needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type stdTicker struct{ t *time.Ticker }

func (s stdTicker) C() <-chan time.Time { return s.t.C }
func (s stdTicker) Stop()               { s.t.Stop() }

func newStdTicker(d time.Duration) Ticker { return stdTicker{time.NewTicker(d)} }

// Beeper plays the repeating alert sequence.
// At most one repeating sequence is live; Start while running restarts it.
type Beeper struct {
	sink      Sink
	interval  time.Duration
	newTicker func(time.Duration) Ticker

	mu   sync.Mutex
	stop chan struct{} // nil when idle
	done chan struct{}
}

// BeeperOption configures a Beeper.
type BeeperOption func(*Beeper)

// WithInterval overrides RepeatInterval.
func WithInterval(d time.Duration) BeeperOption {
	return func(b *Beeper) { b.interval = d }
}

// WithTicker overrides how the repeat ticker is created.
func WithTicker(newTicker func(time.Duration) Ticker) BeeperOption {
	return func(b *Beeper) { b.newTicker = newTicker }
}

// NewBeeper creates an idle Beeper emitting to sink.
func NewBeeper(sink Sink, opts ...BeeperOption) *Beeper {
	b := &Beeper{
		sink:      sink,
		interval:  RepeatInterval,
		newTicker: newStdTicker,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Start plays the alert sequence now and then every interval until stopped.
// A sequence already running is cancelled first.
func (b *Beeper) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopLocked()
	b.sink.Emit(AlertSequence.event())

	ticker := b.newTicker(b.interval)
	stop := make(chan struct{})
	done := make(chan struct{})
	b.stop, b.done = stop, done

	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C():
				b.sink.Emit(AlertSequence.event())
			}
		}
	}()
}

// Confirm stops the repeating sequence and plays the confirmation tone once.
func (b *Beeper) Confirm() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopLocked()
	b.sink.Emit(ConfirmSequence.event())
}

// Stop cancels the repeating sequence. Stopping an idle Beeper is a no-op.
func (b *Beeper) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopLocked()
}

// Active reports whether a repeating sequence is running.
func (b *Beeper) Active() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stop != nil
}

func (b *Beeper) stopLocked() {
	if b.stop == nil {
		return
	}
	close(b.stop)
	<-b.done
	b.stop, b.done = nil, nil
}

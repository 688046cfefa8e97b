package feedback

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink collects emitted events.
type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) Emit(e Event) {
	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()
}

func (s *recordingSink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

func (s *recordingSink) count(t EventType) int {
	n := 0
	for _, e := range s.Events() {
		if e.Type == t {
			n++
		}
	}
	return n
}

type fakeTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               { f.stopped.Store(true) }

// tickerFactory hands out fake tickers and remembers them.
type tickerFactory struct {
	mu      sync.Mutex
	tickers []*fakeTicker
}

func (f *tickerFactory) New(time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTicker{ch: make(chan time.Time)}
	f.tickers = append(f.tickers, t)
	return t
}

func (f *tickerFactory) live() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.tickers {
		if !t.stopped.Load() {
			n++
		}
	}
	return n
}

func (f *tickerFactory) last() *fakeTicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tickers[len(f.tickers)-1]
}

func TestBeeper_StartPlaysImmediately(t *testing.T) {
	sink := &recordingSink{}
	factory := &tickerFactory{}
	b := NewBeeper(sink, WithTicker(factory.New))
	defer b.Stop()

	b.Start()

	events := sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, Event{Type: EventBeep, Frequency: 800, DurationMS: 200, Count: 3, GapMS: 300}, events[0])
	assert.True(t, b.Active())
}

func TestBeeper_Repeats(t *testing.T) {
	sink := &recordingSink{}
	factory := &tickerFactory{}
	b := NewBeeper(sink, WithTicker(factory.New))
	defer b.Stop()

	b.Start()
	tk := factory.last()
	tk.ch <- time.Now()
	tk.ch <- time.Now()

	assert.Eventually(t, func() bool { return sink.count(EventBeep) == 3 }, time.Second, 5*time.Millisecond)
}

func TestBeeper_StartTwiceKeepsOneTimer(t *testing.T) {
	sink := &recordingSink{}
	factory := &tickerFactory{}
	b := NewBeeper(sink, WithTicker(factory.New))
	defer b.Stop()

	b.Start()
	b.Start()

	assert.Len(t, factory.tickers, 2)
	assert.Equal(t, 1, factory.live(), "restart must cancel the first sequence")
	assert.True(t, b.Active())
}

func TestBeeper_Confirm(t *testing.T) {
	sink := &recordingSink{}
	factory := &tickerFactory{}
	b := NewBeeper(sink, WithTicker(factory.New))

	b.Start()
	b.Confirm()

	assert.False(t, b.Active())
	assert.Equal(t, 0, factory.live())

	events := sink.Events()
	require.Len(t, events, 2)
	assert.Equal(t, Event{Type: EventBeep, Frequency: 1000, DurationMS: 200, Count: 1}, events[1])
}

func TestBeeper_StopIsIdempotent(t *testing.T) {
	sink := &recordingSink{}
	b := NewBeeper(sink, WithTicker((&tickerFactory{}).New))

	assert.NotPanics(t, func() {
		b.Stop()
		b.Start()
		b.Stop()
		b.Stop()
	})
	assert.False(t, b.Active())
}

func TestBeeper_RealTicker(t *testing.T) {
	sink := &recordingSink{}
	b := NewBeeper(sink, WithInterval(10*time.Millisecond))
	b.Start()

	assert.Eventually(t, func() bool { return sink.count(EventBeep) >= 3 }, time.Second, 5*time.Millisecond)
	b.Stop()

	settled := sink.count(EventBeep)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, settled, sink.count(EventBeep), "no beeps after stop")
}

func TestNotifier_PermissionGate(t *testing.T) {
	tests := []struct {
		name       string
		permission Permission
		wantSent   bool
	}{
		{"never asked", PermissionDefault, false},
		{"denied", PermissionDenied, false},
		{"granted", PermissionGranted, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &recordingSink{}
			n := NewNotifier(sink)
			n.Apply(Report{Type: ReportPermission, Permission: tt.permission})

			assert.Equal(t, tt.wantSent, n.Notify(NotificationTitle, "Lights on"))
			assert.Equal(t, tt.wantSent, sink.count(EventNotification) == 1)
		})
	}
}

func TestNotifier_IgnoresUnknownPermission(t *testing.T) {
	n := NewNotifier(&recordingSink{})
	n.Apply(Report{Type: ReportPermission, Permission: PermissionGranted})
	n.Apply(Report{Type: ReportPermission, Permission: "maybe"})
	assert.Equal(t, PermissionGranted, n.Permission())
}

func TestNotifier_Vibrate(t *testing.T) {
	sink := &recordingSink{}
	n := NewNotifier(sink)

	assert.False(t, n.Vibrate(VibrationPulse), "unsupported until reported")

	n.Apply(Report{Type: ReportCapabilities, Vibrate: true})
	assert.True(t, n.Vibrate(VibrationPulse))

	events := sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, Event{Type: EventVibrate, DurationMS: 200}, events[0])
}

func TestAlerts_RaiseAndConfirm(t *testing.T) {
	sink := &recordingSink{}
	factory := &tickerFactory{}
	beeper := NewBeeper(sink, WithTicker(factory.New))
	notifier := NewNotifier(sink)
	notifier.Apply(Report{Type: ReportPermission, Permission: PermissionGranted})
	notifier.Apply(Report{Type: ReportCapabilities, Vibrate: true})
	a := NewAlerts(sink, beeper, notifier)

	modal := Modal{Plate: "XYZ9876", Model: "Civic", Color: "Black", Message: "Lights on"}
	a.Raise(modal)

	events := sink.Events()
	require.Len(t, events, 4)
	assert.Equal(t, EventModal, events[0].Type)
	assert.Equal(t, &modal, events[0].Modal)
	assert.Equal(t, EventBeep, events[1].Type)
	assert.Equal(t, EventNotification, events[2].Type)
	assert.Equal(t, "Lights on", events[2].Body)
	assert.Equal(t, EventVibrate, events[3].Type)
	assert.True(t, beeper.Active())

	a.Confirm()
	assert.False(t, beeper.Active())
	events = sink.Events()
	assert.Equal(t, EventModalClosed, events[len(events)-1].Type)
}

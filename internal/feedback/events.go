// Package feedback signals alerts to the person at the screen: a modal, a
// repeating beep sequence, a system notification and a vibration pulse.
//
// The Go side decides what to play and when; a Sink (normally the websocket
// Hub) delivers each Event to the browser, which does the actual audio,
// notification and vibration work.
package feedback

import "time"

// EventType identifies what the browser should do with an Event.
type EventType string

const (
	EventModal        EventType = "modal"
	EventModalClosed  EventType = "modal_closed"
	EventBeep         EventType = "beep"
	EventNotification EventType = "notification"
	EventVibrate      EventType = "vibrate"
)

// Modal is the alert dialog content.
type Modal struct {
	Plate   string `json:"plate"`
	Model   string `json:"model"`
	Color   string `json:"color"`
	Message string `json:"message"`
}

// Event is a single instruction pushed to the browser.
type Event struct {
	Type EventType `json:"type"`

	// Beep fields.
	Frequency  float64 `json:"frequency,omitempty"`
	DurationMS int64   `json:"duration_ms,omitempty"`
	Count      int     `json:"count,omitempty"`
	GapMS      int64   `json:"gap_ms,omitempty"`

	// Notification fields.
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
	Icon  string `json:"icon,omitempty"`
	Sound string `json:"sound,omitempty"`

	Modal *Modal `json:"modal,omitempty"`
}

// Sink delivers events. Emit must not block for long.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

// Emit calls f(e).
func (f SinkFunc) Emit(e Event) { f(e) }

// Tone is a single sine beep.
type Tone struct {
	Frequency float64
	Duration  time.Duration
}

// Sequence is a run of identical tones separated by a gap.
type Sequence struct {
	Tone  Tone
	Count int
	Gap   time.Duration
}

func (s Sequence) event() Event {
	return Event{
		Type:       EventBeep,
		Frequency:  s.Tone.Frequency,
		DurationMS: s.Tone.Duration.Milliseconds(),
		Count:      s.Count,
		GapMS:      s.Gap.Milliseconds(),
	}
}

var (
	// AlertSequence is three short 800 Hz beeps, 300 ms apart.
	AlertSequence = Sequence{
		Tone:  Tone{Frequency: 800, Duration: 200 * time.Millisecond},
		Count: 3,
		Gap:   300 * time.Millisecond,
	}

	// ConfirmSequence is one 1000 Hz beep.
	ConfirmSequence = Sequence{
		Tone:  Tone{Frequency: 1000, Duration: 200 * time.Millisecond},
		Count: 1,
	}
)

const (
	// RepeatInterval is how often the alert sequence repeats until confirmed.
	RepeatInterval = 3 * time.Second

	// VibrationPulse is the length of the device vibration on alert.
	VibrationPulse = 200 * time.Millisecond

	// NotificationTitle is the title of the alert system notification.
	NotificationTitle = "Novo Alerta"

	notificationIcon  = "assets/car-icon.svg"
	notificationSound = "assets/notification.mp3"
)

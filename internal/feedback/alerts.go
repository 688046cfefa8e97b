package feedback

// Alerts combines modal, beeps, notification and vibration into the three
// operations the app needs.
type Alerts struct {
	sink     Sink
	beeper   *Beeper
	notifier *Notifier
}

// NewAlerts wires a beeper and notifier emitting to sink.
func NewAlerts(sink Sink, beeper *Beeper, notifier *Notifier) *Alerts {
	return &Alerts{sink: sink, beeper: beeper, notifier: notifier}
}

// Raise opens the alert modal, starts the repeating beeps, and fires the
// notification and vibration where allowed.
func (a *Alerts) Raise(m Modal) {
	a.sink.Emit(Event{Type: EventModal, Modal: &m})
	a.beeper.Start()
	a.notifier.Notify(NotificationTitle, m.Message)
	a.notifier.Vibrate(VibrationPulse)
}

// Confirm stops the beeps, plays the confirmation tone and closes the modal.
func (a *Alerts) Confirm() {
	a.beeper.Confirm()
	a.sink.Emit(Event{Type: EventModalClosed})
}

// Stop silences any running sequence (page teardown).
func (a *Alerts) Stop() {
	a.beeper.Stop()
}

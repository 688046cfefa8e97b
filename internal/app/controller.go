// Package app is the page controller: it owns the session state, routes
// user commands through a dispatch table, persists the snapshot after every
// mutation and renders the view.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/javoucar/internal/feedback"
	"github.com/mmynk/javoucar/internal/models"
	"github.com/mmynk/javoucar/internal/remote"
)

var (
	// ErrInvalidInput is returned when a required field is empty.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotLoggedIn is returned for commands that need a current user.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrUnknownAction is returned for commands missing from the dispatch table.
	ErrUnknownAction = errors.New("unknown action")
)

// Feedback raises and clears the audible and visual alert.
type Feedback interface {
	Raise(feedback.Modal)
	Confirm()
	Stop()
}

// Store persists the snapshot. Save never fails from the caller's view.
type Store interface {
	Load(ctx context.Context) models.Snapshot
	Save(ctx context.Context, snapshot models.Snapshot)
}

// Controller is a single-writer state container. Commands run one at a
// time; View may be called concurrently with a running command.
type Controller struct {
	remote   remote.Service
	store    Store
	feedback Feedback

	now   func() time.Time
	newID func() (string, error)

	dispatchMu sync.Mutex

	mu    sync.RWMutex
	state State
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the alert timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithIDGenerator overrides how vehicle ids are minted.
func WithIDGenerator(newID func() (string, error)) Option {
	return func(c *Controller) { c.newID = newID }
}

// New loads the persisted snapshot and picks the start section: alerts when
// a user is signed in, login otherwise.
func New(ctx context.Context, svc remote.Service, store Store, fb Feedback, opts ...Option) *Controller {
	c := &Controller{
		remote:   svc,
		store:    store,
		feedback: fb,
		now:      time.Now,
		newID:    newVehicleID,
	}
	for _, opt := range opts {
		opt(c)
	}

	snapshot := store.Load(ctx)
	c.state = State{Section: SectionLogin, Snapshot: snapshot}
	if snapshot.CurrentUser != nil {
		c.state.Section = SectionAlerts
	}

	slog.Info("Controller started",
		"section", c.state.Section,
		"vehicles", len(snapshot.Vehicles),
		"alerts", len(snapshot.Alerts))
	return c
}

// newVehicleID mints a time-ordered UUIDv7.
func newVehicleID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Dispatch runs cmd. On error the state is left unchanged and the current
// view is returned alongside the error.
func (c *Controller) Dispatch(ctx context.Context, cmd Command) (View, error) {
	if cmd == nil {
		return c.View(), fmt.Errorf("%w: nil command", ErrUnknownAction)
	}
	h, ok := handlers[cmd.Action()]
	if !ok {
		return c.View(), fmt.Errorf("%w: %q", ErrUnknownAction, cmd.Action())
	}

	c.dispatchMu.Lock()
	defer c.dispatchMu.Unlock()

	c.mu.RLock()
	current := c.state
	c.mu.RUnlock()

	// Notices are shown once.
	in := current
	in.Notice = ""

	next, err := h.run(c, ctx, in, cmd)
	if err != nil {
		slog.Warn("Command failed", "action", cmd.Action(), "error", err)
		return current.render(), err
	}

	c.mu.Lock()
	c.state = next
	c.mu.Unlock()

	if h.mutates {
		c.store.Save(context.WithoutCancel(ctx), next.Snapshot)
	}
	return next.render(), nil
}

// View renders the current state.
func (c *Controller) View() View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.render()
}

// Snapshot returns a copy of the in-memory snapshot.
func (c *Controller) Snapshot() models.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Snapshot.Clone()
}

// Close tears the page down, silencing any running beep sequence.
func (c *Controller) Close() {
	c.feedback.Stop()
}

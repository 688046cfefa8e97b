package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/javoucar/internal/feedback"
	"github.com/mmynk/javoucar/internal/metrics"
	"github.com/mmynk/javoucar/internal/models"
	"github.com/mmynk/javoucar/internal/remote"
)

type transition func(c *Controller, ctx context.Context, s State, cmd Command) (State, error)

type handler struct {
	run transition
	// mutates marks transitions whose success must be followed by a save.
	mutates bool
}

var handlers = map[Action]handler{
	ActionShowSection:     {run: on((*Controller).showSection)},
	ActionLogin:           {run: on((*Controller).login), mutates: true},
	ActionRegisterUser:    {run: on((*Controller).registerUser), mutates: true},
	ActionRegisterVehicle: {run: on((*Controller).registerVehicle), mutates: true},
	ActionSendAlert:       {run: on((*Controller).sendAlert), mutates: true},
	ActionAnswerPrompt:    {run: on((*Controller).answerPrompt)},
	ActionConfirmAlert:    {run: on((*Controller).confirmAlert)},
	ActionLogout:          {run: on((*Controller).logout), mutates: true},
	ActionRecoverPassword: {run: on((*Controller).recoverPassword)},
}

// on adapts a typed transition to the table signature.
func on[C Command](fn func(*Controller, context.Context, State, C) (State, error)) transition {
	return func(c *Controller, ctx context.Context, s State, cmd Command) (State, error) {
		typed, ok := cmd.(C)
		if !ok {
			return s, fmt.Errorf("%w: %T cannot run %q", ErrUnknownAction, cmd, cmd.Action())
		}
		return fn(c, ctx, s, typed)
	}
}

type field struct {
	name  string
	value string
}

func requireFields(fields ...field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidInput, f.name)
		}
	}
	return nil
}

func (c *Controller) showSection(_ context.Context, s State, cmd ShowSection) (State, error) {
	if !cmd.Section.valid() {
		return s, fmt.Errorf("%w: unknown section %q", ErrInvalidInput, cmd.Section)
	}
	s.Section = cmd.Section
	s.Prompt = nil
	return s, nil
}

func (c *Controller) login(ctx context.Context, s State, cmd Login) (State, error) {
	if err := requireFields(field{"email", cmd.Email}, field{"password", cmd.Password}); err != nil {
		return s, err
	}

	res, err := c.remote.Login(ctx, remote.LoginRequest{Email: cmd.Email, Password: cmd.Password})
	if err != nil {
		return s, fmt.Errorf("login: %w", err)
	}

	user := res.User
	s.Snapshot = s.Snapshot.Clone()
	s.Snapshot.CurrentUser = &user
	s.SessionToken = res.Token
	s.Section = SectionAlerts
	s.Prompt = nil

	slog.Info("User logged in", "email", user.Email, "has_vehicle", res.HasVehicle)
	return s, nil
}

func (c *Controller) registerUser(ctx context.Context, s State, cmd RegisterUser) (State, error) {
	if err := requireFields(
		field{"name", cmd.Name},
		field{"email", cmd.Email},
		field{"password", cmd.Password},
	); err != nil {
		return s, err
	}

	res, err := c.remote.RegisterUser(ctx, remote.RegisterUserRequest{
		Name:     cmd.Name,
		Email:    cmd.Email,
		Phone:    cmd.Phone,
		Password: cmd.Password,
	})
	if err != nil {
		return s, fmt.Errorf("register user: %w", err)
	}

	u := res.User
	s.Snapshot = s.Snapshot.Clone()
	s.Snapshot.CurrentUser = &u
	s.SessionToken = res.Token
	s.Section = SectionVehicle
	s.Notice = NoticeUserRegistered

	slog.Info("User registered", "email", u.Email)
	return s, nil
}

func (c *Controller) registerVehicle(ctx context.Context, s State, cmd RegisterVehicle) (State, error) {
	user := s.Snapshot.CurrentUser
	if user == nil {
		return s, ErrNotLoggedIn
	}
	if err := requireFields(
		field{"plate", cmd.Plate},
		field{"model", cmd.Model},
		field{"color", cmd.Color},
		field{"state", cmd.State},
	); err != nil {
		return s, err
	}

	id, err := c.newID()
	if err != nil {
		return s, fmt.Errorf("generate vehicle id: %w", err)
	}

	registered, err := c.remote.RegisterVehicle(ctx, models.Vehicle{
		ID:    id,
		Plate: models.NormalizePlate(cmd.Plate),
		Model: cmd.Model,
		Color: cmd.Color,
		State: cmd.State,
		Owner: user.Email,
	})
	if err != nil {
		return s, fmt.Errorf("register vehicle: %w", err)
	}

	s.Snapshot = s.Snapshot.Clone()
	s.Snapshot.Vehicles = append(s.Snapshot.Vehicles, *registered)
	s.Section = SectionAlerts
	s.DraftPlate = ""
	s.Notice = NoticeVehicleRegistered
	metrics.VehiclesRegistered.Inc()

	slog.Info("Vehicle registered", "id", registered.ID, "plate", registered.Plate, "owner", registered.Owner)
	return s, nil
}

func (c *Controller) sendAlert(ctx context.Context, s State, cmd SendAlert) (State, error) {
	if s.Snapshot.CurrentUser == nil {
		return s, ErrNotLoggedIn
	}
	if err := requireFields(field{"plate", cmd.Plate}, field{"message", cmd.Message}); err != nil {
		return s, err
	}

	plate := models.NormalizePlate(cmd.Plate)
	vehicle, ok := s.Snapshot.FindVehicle(plate)
	if !ok {
		slog.Info("Alert for unknown plate", "plate", plate)
		s.Prompt = &Prompt{Kind: PromptRegisterPlate, Text: PromptUnknownPlateText, Plate: plate}
		return s, nil
	}

	recorded, err := c.remote.SendAlert(ctx, models.Alert{
		VehicleID: vehicle.Plate,
		Message:   cmd.Message,
		Timestamp: c.now(),
	})
	if err != nil {
		return s, fmt.Errorf("send alert: %w", err)
	}

	s.Snapshot = s.Snapshot.Clone()
	s.Snapshot.Alerts = append(s.Snapshot.Alerts, *recorded)
	s.Prompt = nil
	metrics.AlertsSent.Inc()

	modal := feedback.Modal{
		Plate:   vehicle.Plate,
		Model:   vehicle.Model,
		Color:   vehicle.Color,
		Message: recorded.Message,
	}
	s.Modal = &modal
	c.feedback.Raise(modal)

	slog.Info("Alert sent", "plate", vehicle.Plate)
	return s, nil
}

func (c *Controller) answerPrompt(_ context.Context, s State, cmd AnswerPrompt) (State, error) {
	if s.Prompt == nil {
		return s, nil
	}
	if cmd.Accept && s.Prompt.Kind == PromptRegisterPlate {
		s.Section = SectionVehicle
		s.DraftPlate = s.Prompt.Plate
	}
	s.Prompt = nil
	return s, nil
}

func (c *Controller) confirmAlert(_ context.Context, s State, _ ConfirmAlert) (State, error) {
	if s.Modal == nil {
		return s, nil
	}
	c.feedback.Confirm()
	s.Modal = nil
	return s, nil
}

func (c *Controller) logout(_ context.Context, s State, _ Logout) (State, error) {
	c.feedback.Stop()

	var email string
	if s.Snapshot.CurrentUser != nil {
		email = s.Snapshot.CurrentUser.Email
	}

	s.Snapshot = s.Snapshot.Clone()
	s.Snapshot.CurrentUser = nil
	s.Snapshot.Alerts = []models.Alert{}
	s.SessionToken = ""
	s.Section = SectionLogin
	s.DraftPlate = ""
	s.Modal = nil
	s.Prompt = nil

	slog.Info("User logged out", "email", email)
	return s, nil
}

func (c *Controller) recoverPassword(ctx context.Context, s State, cmd RecoverPassword) (State, error) {
	if err := requireFields(field{"email", cmd.Email}); err != nil {
		return s, err
	}

	res, err := c.remote.RecoverPassword(ctx, cmd.Email)
	if err != nil {
		return s, fmt.Errorf("recover password: %w", err)
	}

	s.Notice = res.Message
	slog.Info("Password recovery requested", "email", cmd.Email)
	slog.Debug("Recovery link issued", "link", res.Link)
	return s, nil
}

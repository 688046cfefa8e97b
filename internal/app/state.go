package app

import (
	"github.com/mmynk/javoucar/internal/feedback"
	"github.com/mmynk/javoucar/internal/models"
	"github.com/mmynk/javoucar/internal/render"
)

// Section is one of the mutually exclusive page sections.
type Section string

const (
	SectionLogin    Section = "login"
	SectionRegister Section = "register"
	SectionVehicle  Section = "vehicle"
	SectionAlerts   Section = "alerts"
)

func (s Section) valid() bool {
	switch s {
	case SectionLogin, SectionRegister, SectionVehicle, SectionAlerts:
		return true
	}
	return false
}

// PromptKind identifies a yes/no question waiting for the user.
type PromptKind string

// PromptRegisterPlate asks whether to register a plate that was not found.
const PromptRegisterPlate PromptKind = "register_plate"

// Prompt is a pending confirmation dialog.
type Prompt struct {
	Kind  PromptKind `json:"kind"`
	Text  string     `json:"text"`
	Plate string     `json:"plate"`
}

// State is everything the controller owns. Only Snapshot is persisted.
type State struct {
	Section  Section
	Snapshot models.Snapshot

	SessionToken string

	// DraftPlate prefills the vehicle form.
	DraftPlate string

	Modal  *feedback.Modal
	Prompt *Prompt
	Notice string
}

// View is the rendered page.
type View struct {
	Section            Section            `json:"section"`
	User               *models.User       `json:"user,omitempty"`
	SessionToken       string             `json:"sessionToken,omitempty"`
	HasVehicle         bool               `json:"hasVehicle"`
	Vehicles           []render.Option    `json:"vehicles"`
	Feed               []render.FeedEntry `json:"feed"`
	DraftPlate         string             `json:"draftPlate,omitempty"`
	Modal              *feedback.Modal    `json:"modal,omitempty"`
	Prompt             *Prompt            `json:"prompt,omitempty"`
	Notice             string             `json:"notice,omitempty"`
	PredefinedMessages []string           `json:"predefinedMessages"`
	States             []BrazilianState   `json:"states"`
}

func (s State) render() View {
	v := View{
		Section:            s.Section,
		SessionToken:       s.SessionToken,
		Vehicles:           render.VehicleOptions(s.Snapshot.Vehicles),
		Feed:               render.AlertFeed(s.Snapshot.Alerts),
		DraftPlate:         s.DraftPlate,
		Notice:             s.Notice,
		PredefinedMessages: PredefinedMessages,
		States:             States,
	}
	if u := s.Snapshot.CurrentUser; u != nil {
		user := *u
		v.User = &user
		v.HasVehicle = render.HasVehicle(s.Snapshot.Vehicles, u.Email)
	}
	if s.Modal != nil {
		m := *s.Modal
		v.Modal = &m
	}
	if s.Prompt != nil {
		p := *s.Prompt
		v.Prompt = &p
	}
	return v
}

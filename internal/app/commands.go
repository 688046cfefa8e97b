package app

// Action names a command in the dispatch table.
type Action string

const (
	ActionShowSection     Action = "show_section"
	ActionLogin           Action = "login"
	ActionRegisterUser    Action = "register_user"
	ActionRegisterVehicle Action = "register_vehicle"
	ActionSendAlert       Action = "send_alert"
	ActionAnswerPrompt    Action = "answer_prompt"
	ActionConfirmAlert    Action = "confirm_alert"
	ActionLogout          Action = "logout"
	ActionRecoverPassword Action = "recover_password"
)

// Command is a user intent handled by Controller.Dispatch.
type Command interface {
	Action() Action
}

// ShowSection switches to another section.
type ShowSection struct {
	Section Section
}

// Login signs in with any password.
type Login struct {
	Email    string
	Password string
}

// RegisterUser creates an account and signs in.
type RegisterUser struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// RegisterVehicle adds a vehicle owned by the current user.
type RegisterVehicle struct {
	Plate string
	Model string
	Color string
	State string
}

// SendAlert posts a message against a plate.
type SendAlert struct {
	Plate   string
	Message string
}

// AnswerPrompt resolves the pending prompt.
type AnswerPrompt struct {
	Accept bool
}

// ConfirmAlert acknowledges the open alert modal.
type ConfirmAlert struct{}

// Logout signs out, keeping registered vehicles.
type Logout struct{}

// RecoverPassword requests a recovery link.
type RecoverPassword struct {
	Email string
}

func (ShowSection) Action() Action     { return ActionShowSection }
func (Login) Action() Action           { return ActionLogin }
func (RegisterUser) Action() Action    { return ActionRegisterUser }
func (RegisterVehicle) Action() Action { return ActionRegisterVehicle }
func (SendAlert) Action() Action       { return ActionSendAlert }
func (AnswerPrompt) Action() Action    { return ActionAnswerPrompt }
func (ConfirmAlert) Action() Action    { return ActionConfirmAlert }
func (Logout) Action() Action          { return ActionLogout }
func (RecoverPassword) Action() Action { return ActionRecoverPassword }

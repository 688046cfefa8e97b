package service

// Request messages of AppService. Every procedure answers with app.View.

type GetViewRequest struct{}

type ShowSectionRequest struct {
	Section string `json:"section"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type RegisterVehicleRequest struct {
	Plate string `json:"plate"`
	Model string `json:"model"`
	Color string `json:"color"`
	State string `json:"state"`
}

type SendAlertRequest struct {
	Plate   string `json:"plate"`
	Message string `json:"message"`
}

type AnswerPromptRequest struct {
	Accept bool `json:"accept"`
}

type ConfirmAlertRequest struct{}

type LogoutRequest struct{}

type RecoverPasswordRequest struct {
	Email string `json:"email"`
}

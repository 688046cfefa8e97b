// Package remote defines the backend capability set the app talks to and a
// mock implementation that simulates network latency.
package remote

import (
	"context"
	"errors"

	"github.com/mmynk/javoucar/internal/models"
)

// ErrUnavailable is returned when a (simulated) remote call fails.
var ErrUnavailable = errors.New("remote service unavailable")

// Service is the remote capability set: login, registerUser, registerVehicle,
// sendAlert and recoverPassword. Every call may block for network latency.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	RegisterUser(ctx context.Context, req RegisterUserRequest) (*RegisterUserResult, error)
	RegisterVehicle(ctx context.Context, vehicle models.Vehicle) (*models.Vehicle, error)
	SendAlert(ctx context.Context, alert models.Alert) (*models.Alert, error)
	RecoverPassword(ctx context.Context, email string) (*RecoveryResult, error)
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string
	Password string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	User models.User

	// HasVehicle reports whether a vehicle registered by this user exists.
	HasVehicle bool

	// Token is a signed session token identifying the user.
	Token string
}

// RegisterUserRequest carries the registration form.
type RegisterUserRequest struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// RegisterUserResult is returned by a successful registration. The new
// user is signed in with Token.
type RegisterUserResult struct {
	User  models.User
	Token string
}

// RecoveryResult is returned by a password recovery request.
type RecoveryResult struct {
	Message string

	// Link is the recovery link that would be e-mailed to the user.
	Link string
}

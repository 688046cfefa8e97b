package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/javoucar/internal/app"
	"github.com/mmynk/javoucar/internal/remote"
)

// AppServiceName is the fully-qualified name of the service.
const AppServiceName = "javoucar.v1.AppService"

// Procedure paths, relative to the API mount point.
const (
	AppServiceGetViewProcedure         = "/" + AppServiceName + "/GetView"
	AppServiceShowSectionProcedure     = "/" + AppServiceName + "/ShowSection"
	AppServiceLoginProcedure           = "/" + AppServiceName + "/Login"
	AppServiceRegisterUserProcedure    = "/" + AppServiceName + "/RegisterUser"
	AppServiceRegisterVehicleProcedure = "/" + AppServiceName + "/RegisterVehicle"
	AppServiceSendAlertProcedure       = "/" + AppServiceName + "/SendAlert"
	AppServiceAnswerPromptProcedure    = "/" + AppServiceName + "/AnswerPrompt"
	AppServiceConfirmAlertProcedure    = "/" + AppServiceName + "/ConfirmAlert"
	AppServiceLogoutProcedure          = "/" + AppServiceName + "/Logout"
	AppServiceRecoverPasswordProcedure = "/" + AppServiceName + "/RecoverPassword"
)

// Dispatcher is the controller surface the service needs.
type Dispatcher interface {
	Dispatch(ctx context.Context, cmd app.Command) (app.View, error)
	View() app.View
}

// AppService exposes the page controller over Connect.
type AppService struct {
	ctrl Dispatcher
}

// NewAppService creates an AppService backed by ctrl.
func NewAppService(ctrl Dispatcher) *AppService {
	return &AppService{ctrl: ctrl}
}

// GetView returns the current view without changing anything.
func (s *AppService) GetView(_ context.Context, _ *connect.Request[GetViewRequest]) (*connect.Response[app.View], error) {
	view := s.ctrl.View()
	return connect.NewResponse(&view), nil
}

// NewHandler builds an http.Handler serving every AppService procedure, in
// the shape of generated Connect handlers. The JSON codec is always installed.
func NewHandler(svc *AppService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(AppServiceGetViewProcedure, connect.NewUnaryHandler(AppServiceGetViewProcedure, svc.GetView, opts...))
	mux.Handle(AppServiceShowSectionProcedure, connect.NewUnaryHandler(AppServiceShowSectionProcedure,
		dispatch(svc, func(m *ShowSectionRequest) app.Command {
			return app.ShowSection{Section: app.Section(m.Section)}
		}), opts...))
	mux.Handle(AppServiceLoginProcedure, connect.NewUnaryHandler(AppServiceLoginProcedure,
		dispatch(svc, func(m *LoginRequest) app.Command {
			return app.Login{Email: m.Email, Password: m.Password}
		}), opts...))
	mux.Handle(AppServiceRegisterUserProcedure, connect.NewUnaryHandler(AppServiceRegisterUserProcedure,
		dispatch(svc, func(m *RegisterUserRequest) app.Command {
			return app.RegisterUser{Name: m.Name, Email: m.Email, Phone: m.Phone, Password: m.Password}
		}), opts...))
	mux.Handle(AppServiceRegisterVehicleProcedure, connect.NewUnaryHandler(AppServiceRegisterVehicleProcedure,
		dispatch(svc, func(m *RegisterVehicleRequest) app.Command {
			return app.RegisterVehicle{Plate: m.Plate, Model: m.Model, Color: m.Color, State: m.State}
		}), opts...))
	mux.Handle(AppServiceSendAlertProcedure, connect.NewUnaryHandler(AppServiceSendAlertProcedure,
		dispatch(svc, func(m *SendAlertRequest) app.Command {
			return app.SendAlert{Plate: m.Plate, Message: m.Message}
		}), opts...))
	mux.Handle(AppServiceAnswerPromptProcedure, connect.NewUnaryHandler(AppServiceAnswerPromptProcedure,
		dispatch(svc, func(m *AnswerPromptRequest) app.Command {
			return app.AnswerPrompt{Accept: m.Accept}
		}), opts...))
	mux.Handle(AppServiceConfirmAlertProcedure, connect.NewUnaryHandler(AppServiceConfirmAlertProcedure,
		dispatch(svc, func(*ConfirmAlertRequest) app.Command { return app.ConfirmAlert{} }), opts...))
	mux.Handle(AppServiceLogoutProcedure, connect.NewUnaryHandler(AppServiceLogoutProcedure,
		dispatch(svc, func(*LogoutRequest) app.Command { return app.Logout{} }), opts...))
	mux.Handle(AppServiceRecoverPasswordProcedure, connect.NewUnaryHandler(AppServiceRecoverPasswordProcedure,
		dispatch(svc, func(m *RecoverPasswordRequest) app.Command {
			return app.RecoverPassword{Email: m.Email}
		}), opts...))

	return "/" + AppServiceName + "/", mux
}

// dispatch turns a request-to-command mapping into a unary handler func.
func dispatch[Req any](s *AppService, toCommand func(*Req) app.Command) func(context.Context, *connect.Request[Req]) (*connect.Response[app.View], error) {
	return func(ctx context.Context, req *connect.Request[Req]) (*connect.Response[app.View], error) {
		view, err := s.ctrl.Dispatch(ctx, toCommand(req.Msg))
		if err != nil {
			return nil, toConnectError(err)
		}
		return connect.NewResponse(&view), nil
	}
}

// toConnectError maps domain errors to Connect codes.
func toConnectError(err error) error {
	var code connect.Code
	switch {
	case errors.Is(err, app.ErrInvalidInput), errors.Is(err, app.ErrUnknownAction):
		code = connect.CodeInvalidArgument
	case errors.Is(err, app.ErrNotLoggedIn):
		code = connect.CodeFailedPrecondition
	case errors.Is(err, remote.ErrUnavailable):
		code = connect.CodeUnavailable
	case errors.Is(err, context.Canceled):
		code = connect.CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		code = connect.CodeDeadlineExceeded
	default:
		slog.Error("Unexpected command error", "error", err)
		code = connect.CodeInternal
	}
	return connect.NewError(code, err)
}

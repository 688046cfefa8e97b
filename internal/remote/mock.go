package remote

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/url"
	"sync"
	"time"

	"github.com/mmynk/javoucar/internal/auth"
	"github.com/mmynk/javoucar/internal/metrics"
	"github.com/mmynk/javoucar/internal/models"
)

const (
	// DefaultLatency is the simulated round-trip time of every call.
	DefaultLatency = time.Second

	// MockUserName is the name synthesized for every login.
	MockUserName = "Usuário Teste"

	// RecoveryMessage is shown after a password recovery request.
	RecoveryMessage = "Link de recuperação enviado para seu e-mail"
)

// Ensure Mock implements Service
var _ Service = (*Mock)(nil)

// Mock simulates the remote backend: it waits a fixed latency, then succeeds
// (unless failure injection says otherwise), recording vehicles and alerts in
// its own in-memory collections.
type Mock struct {
	latency     time.Duration
	failureRate float64
	tokens      *auth.JWTManager
	recoveryURL string
	roll        func() float64

	mu       sync.Mutex
	vehicles []models.Vehicle
	alerts   []models.Alert
}

// MockOption configures a Mock.
type MockOption func(*Mock)

// WithLatency sets the simulated latency. Zero disables the wait.
func WithLatency(d time.Duration) MockOption {
	return func(m *Mock) { m.latency = d }
}

// WithFailureRate makes each call fail with ErrUnavailable with probability p (0..1).
func WithFailureRate(p float64) MockOption {
	return func(m *Mock) { m.failureRate = p }
}

// WithSeed preloads the simulated backend with previously persisted records.
func WithSeed(snapshot models.Snapshot) MockOption {
	return func(m *Mock) {
		m.vehicles = append(m.vehicles, snapshot.Vehicles...)
		m.alerts = append(m.alerts, snapshot.Alerts...)
	}
}

// WithRecoveryURL sets the base URL of recovery links.
func WithRecoveryURL(u string) MockOption {
	return func(m *Mock) { m.recoveryURL = u }
}

// NewMock creates a mock remote service signing tokens with the given manager.
func NewMock(tokens *auth.JWTManager, opts ...MockOption) *Mock {
	m := &Mock{
		latency:     DefaultLatency,
		tokens:      tokens,
		recoveryURL: "/recover",
		roll:        rand.Float64,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// simulate waits the configured latency and applies failure injection.
// A pending call is only abandoned when ctx is cancelled.
func (m *Mock) simulate(ctx context.Context, operation string) error {
	start := time.Now()
	defer func() {
		metrics.RemoteCallDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}()

	if m.latency > 0 {
		timer := time.NewTimer(m.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	if m.failureRate > 0 && m.roll() < m.failureRate {
		slog.Warn("Injected remote failure", "operation", operation)
		return fmt.Errorf("%s: %w", operation, ErrUnavailable)
	}
	return nil
}

// Login accepts any password and reports whether the user owns a vehicle.
func (m *Mock) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := m.simulate(ctx, "login"); err != nil {
		return nil, err
	}

	token, err := m.tokens.Generate(req.Email, auth.PurposeSession)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	m.mu.Lock()
	hasVehicle := false
	for _, v := range m.vehicles {
		if v.Owner != "" && v.Owner == req.Email {
			hasVehicle = true
			break
		}
	}
	m.mu.Unlock()

	slog.Debug("Mock login", "email", req.Email, "has_vehicle", hasVehicle)
	return &LoginResult{
		User:       models.User{Email: req.Email, Name: MockUserName},
		HasVehicle: hasVehicle,
		Token:      token,
	}, nil
}

// RegisterUser echoes the registered user and signs them in.
func (m *Mock) RegisterUser(ctx context.Context, req RegisterUserRequest) (*RegisterUserResult, error) {
	if err := m.simulate(ctx, "register_user"); err != nil {
		return nil, err
	}

	token, err := m.tokens.Generate(req.Email, auth.PurposeSession)
	if err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}
	return &RegisterUserResult{
		User:  models.User{Email: req.Email, Name: req.Name},
		Token: token,
	}, nil
}

// RegisterVehicle records the vehicle and returns it unchanged.
func (m *Mock) RegisterVehicle(ctx context.Context, vehicle models.Vehicle) (*models.Vehicle, error) {
	if err := m.simulate(ctx, "register_vehicle"); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.vehicles = append(m.vehicles, vehicle)
	m.mu.Unlock()

	return &vehicle, nil
}

// SendAlert records the alert and returns it unchanged.
func (m *Mock) SendAlert(ctx context.Context, alert models.Alert) (*models.Alert, error) {
	if err := m.simulate(ctx, "send_alert"); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.alerts = append(m.alerts, alert)
	m.mu.Unlock()

	return &alert, nil
}

// RecoverPassword pretends to e-mail a recovery link.
func (m *Mock) RecoverPassword(ctx context.Context, email string) (*RecoveryResult, error) {
	if err := m.simulate(ctx, "recover_password"); err != nil {
		return nil, err
	}

	token, err := m.tokens.Generate(email, auth.PurposeRecovery)
	if err != nil {
		return nil, fmt.Errorf("recover password: %w", err)
	}

	return &RecoveryResult{
		Message: RecoveryMessage,
		Link:    m.recoveryURL + "?token=" + url.QueryEscape(token),
	}, nil
}

// Vehicles returns a copy of the vehicles known to the simulated backend.
func (m *Mock) Vehicles() []models.Vehicle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Vehicle(nil), m.vehicles...)
}

// Alerts returns a copy of the alerts known to the simulated backend.
func (m *Mock) Alerts() []models.Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Alert(nil), m.alerts...)
}

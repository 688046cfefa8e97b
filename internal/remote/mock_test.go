package remote

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/javoucar/internal/auth"
	"github.com/mmynk/javoucar/internal/models"
)

func newTestMock(opts ...MockOption) (*Mock, *auth.JWTManager) {
	tokens := auth.NewJWTManager("test-secret", time.Hour)
	opts = append([]MockOption{WithLatency(0)}, opts...)
	return NewMock(tokens, opts...), tokens
}

func TestMock_Login(t *testing.T) {
	ctx := context.Background()
	m, tokens := newTestMock(WithSeed(models.Snapshot{
		Vehicles: []models.Vehicle{{ID: "1", Plate: "AAA1111", Owner: "ana@example.com"}},
	}))

	t.Run("owner has vehicle", func(t *testing.T) {
		res, err := m.Login(ctx, LoginRequest{Email: "ana@example.com", Password: "anything"})
		require.NoError(t, err)
		assert.Equal(t, models.User{Email: "ana@example.com", Name: MockUserName}, res.User)
		assert.True(t, res.HasVehicle)

		claims, err := tokens.Validate(res.Token, auth.PurposeSession)
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", claims.Email)
	})

	t.Run("other user does not inherit global vehicles", func(t *testing.T) {
		res, err := m.Login(ctx, LoginRequest{Email: "bia@example.com"})
		require.NoError(t, err)
		assert.False(t, res.HasVehicle)
	})
}

func TestMock_RegisterVehicleAndAlert(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMock()

	v := models.Vehicle{ID: "1", Plate: "XYZ9876", Model: "Civic", Color: "Black", State: "SP"}
	got, err := m.RegisterVehicle(ctx, v)
	require.NoError(t, err)
	assert.Equal(t, v, *got)
	assert.Equal(t, []models.Vehicle{v}, m.Vehicles())

	a := models.Alert{VehicleID: "XYZ9876", Message: "Lights on", Timestamp: time.Now()}
	gotAlert, err := m.SendAlert(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, a, *gotAlert)
	assert.Len(t, m.Alerts(), 1)
}

func TestMock_RegisterUser(t *testing.T) {
	m, tokens := newTestMock()
	res, err := m.RegisterUser(context.Background(), RegisterUserRequest{
		Name: "Ana", Email: "ana@example.com", Phone: "11999990000", Password: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, models.User{Email: "ana@example.com", Name: "Ana"}, res.User)

	claims, err := tokens.Validate(res.Token, auth.PurposeSession)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", claims.Email)
}

func TestMock_RecoverPassword(t *testing.T) {
	m, tokens := newTestMock(WithRecoveryURL("https://javoucar.example/recover"))

	res, err := m.RecoverPassword(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, RecoveryMessage, res.Message)
	require.True(t, strings.HasPrefix(res.Link, "https://javoucar.example/recover?token="))

	u, err := url.Parse(res.Link)
	require.NoError(t, err)
	claims, err := tokens.Validate(u.Query().Get("token"), auth.PurposeRecovery)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", claims.Email)
}

func TestMock_Latency(t *testing.T) {
	m, _ := newTestMock(WithLatency(30 * time.Millisecond))

	start := time.Now()
	_, err := m.RegisterUser(context.Background(), RegisterUserRequest{Email: "ana@example.com"})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestMock_ContextCancelled(t *testing.T) {
	m, _ := newTestMock(WithLatency(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.SendAlert(ctx, models.Alert{VehicleID: "AAA1111"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, m.Alerts(), "aborted call must not record")
}

func TestMock_FailureInjection(t *testing.T) {
	m, _ := newTestMock(WithFailureRate(0.5))

	m.roll = func() float64 { return 0.1 }
	_, err := m.RegisterVehicle(context.Background(), models.Vehicle{Plate: "AAA1111"})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Empty(t, m.Vehicles())

	m.roll = func() float64 { return 0.9 }
	_, err = m.RegisterVehicle(context.Background(), models.Vehicle{Plate: "AAA1111"})
	assert.NoError(t, err)
	assert.Len(t, m.Vehicles(), 1)
}

package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_GenerateValidate(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.Generate("ana@example.com", PurposeSession)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Validate(token, PurposeSession)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, PurposeSession, claims.Purpose)
}

func TestJWTManager_Validate(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	recovery, err := m.Generate("ana@example.com", PurposeRecovery)
	require.NoError(t, err)

	other := NewJWTManager("other-secret", time.Hour)
	foreign, err := other.Generate("ana@example.com", PurposeSession)
	require.NoError(t, err)

	expiring := NewJWTManager("test-secret", time.Minute)
	expiring.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiring.Generate("ana@example.com", PurposeSession)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"wrong purpose", recovery},
		{"wrong secret", foreign},
		{"expired", expired},
		{"garbage", "not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Validate(tt.token, PurposeSession)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

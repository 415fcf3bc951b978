package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerify(t *testing.T) {
	mgr := NewJWTManager("test-secret", time.Hour)
	userID := uuid.New().String()

	token, err := mgr.Generate(userID, "alice")
	require.NoError(t, err)

	claims, err := mgr.Verify(token)
	require.NoError(t, err)
	require.Equal(t, userID, claims.Subject)
	require.Equal(t, "alice", claims.Username)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	mgr := NewJWTManager("test-secret", time.Hour)
	token, err := mgr.Generate(uuid.New().String(), "alice")
	require.NoError(t, err)

	other := NewJWTManager("other-secret", time.Hour)
	_, err = other.Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	mgr := NewJWTManager("test-secret", -time.Minute)
	token, err := mgr.Generate(uuid.New().String(), "alice")
	require.NoError(t, err)

	_, err = mgr.Verify(token)
	require.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer abc123")

	token, err := ExtractTokenFromHeader(req)
	require.NoError(t, err)
	require.Equal(t, "abc123", token)

	req.Header.Set("Authorization", "abc123")
	_, err = ExtractTokenFromHeader(req)
	require.Error(t, err)

	req.Header.Del("Authorization")
	_, err = ExtractTokenFromHeader(req)
	require.Error(t, err)
}

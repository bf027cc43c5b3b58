package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	token, exp, err := m.Generate(Claims{UserID: "u-1", SessionID: "s-1", Role: "manager", Scope: "carshowroom", ShowroomID: "sr-1"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "s-1", claims.SessionID)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, "carshowroom", claims.Scope)
	assert.Equal(t, "sr-1", claims.ShowroomID)
}

func TestJWTManager_RejectsExpired(t *testing.T) {
	m := NewJWTManager("secret", time.Minute)
	past := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return past }
	token, _, err := m.Generate(Claims{UserID: "u-1", Role: "buyer"})
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(token)
	assert.Error(t, err)
}

func TestJWTManager_RejectsForeignSecret(t *testing.T) {
	token, _, err := NewJWTManager("one", time.Hour).Generate(Claims{UserID: "u-1"})
	require.NoError(t, err)

	_, err = NewJWTManager("two", time.Hour).Parse(token)
	assert.Error(t, err)
}

func TestJWTManager_RejectsMissingSubject(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	token, _, err := m.Generate(Claims{Role: "buyer"})
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.Error(t, err)
}

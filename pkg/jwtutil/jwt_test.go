package jwtutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shakgill786/luxury-car-service/pkg/config"
)

func TestGenerateAndValidateToken(t *testing.T) {
	j := New(&config.JWTConfig{SigningKey: "unit-test-key", ExpirationHours: 1})

	token, err := j.GenerateToken(42, "alice@example.com", "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := j.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "alice", claims.Username)
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	signer := New(&config.JWTConfig{SigningKey: "key-one", ExpirationHours: 1})
	verifier := New(&config.JWTConfig{SigningKey: "key-two", ExpirationHours: 1})

	token, err := signer.GenerateToken(1, "a@example.com", "a")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	j := New(&config.JWTConfig{SigningKey: "unit-test-key", ExpirationHours: -1})

	token, err := j.GenerateToken(1, "a@example.com", "a")
	require.NoError(t, err)

	_, err = j.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	j := New(&config.JWTConfig{SigningKey: "unit-test-key", ExpirationHours: 1})

	_, err := j.ValidateToken("not.a.token")
	assert.Error(t, err)
}

package auth_test

import (
	"testing"

	"taskboard/internal/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGenerateAndParseToken(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret-key", 24)

	userID := uuid.New().String()
	token, err := tokens.Generate(userID)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	parsedID, err := tokens.Parse(token)
	assert.NoError(t, err)
	assert.Equal(t, userID, parsedID)
}

func TestParseToken_WrongSecret(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret-key", 24)
	other := auth.NewTokenManager("different-secret", 24)

	token, err := tokens.Generate(uuid.New().String())
	assert.NoError(t, err)

	_, err = other.Parse(token)
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret-key", 24)

	_, err := tokens.Parse("not-a-token")
	assert.Error(t, err)
}

package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndParseToken(t *testing.T) {
	userID := uuid.New()

	token, issued, err := GenerateToken(testSecret, userID, TokenTypeAccess, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, issued.ID)

	claims, err := ParseToken(testSecret, token, TokenTypeAccess)
	require.NoError(t, err)

	parsed, err := claims.UserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
	assert.Equal(t, issued.ID, claims.ID)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestParseTokenRejectsOtherType(t *testing.T) {
	token, _, err := GenerateToken(testSecret, uuid.New(), TokenTypeRefresh, time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestParseTokenRejectsExpiredAndForeignTokens(t *testing.T) {
	expired, _, err := GenerateToken(testSecret, uuid.New(), TokenTypeRefresh, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(testSecret, expired, TokenTypeRefresh)
	assert.Error(t, err)

	foreign, _, err := GenerateToken("other-secret", uuid.New(), TokenTypeRefresh, time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(testSecret, foreign, TokenTypeRefresh)
	assert.Error(t, err)

	_, err = ParseToken(testSecret, "not-a-token", TokenTypeRefresh)
	assert.Error(t, err)
}

package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/okeetropics/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	id := TokenIdentity{UserID: uuid.New(), Name: "Admin", Role: models.RoleAdmin}

	token, err := GenerateToken("secret", id, time.Hour)
	require.NoError(t, err)

	parsed, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	id := TokenIdentity{UserID: uuid.New(), Name: "Admin", Role: models.RoleAdmin}

	token, err := GenerateToken("secret", id, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	id := TokenIdentity{UserID: uuid.New(), Name: "Admin", Role: models.RoleAdmin}

	token, err := GenerateToken("secret", id, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken("secret", token)
	assert.Error(t, err)
}

func TestParseTokenRejectsUnknownRole(t *testing.T) {
	id := TokenIdentity{UserID: uuid.New(), Name: "Admin", Role: models.Role("emperor")}

	token, err := GenerateToken("secret", id, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("secret", token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("secret", "not.a.token")
	assert.Error(t, err)
}

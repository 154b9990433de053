package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	auth := NewAuthService(db)

	member, err := auth.Register(" Anna ", "Anna@Example.com", "geheim123")
	require.NoError(t, err)
	assert.NotZero(t, member.ID)
	assert.Equal(t, "Anna", member.Name)
	assert.Equal(t, "anna@example.com", member.Email)
	assert.NotEqual(t, "geheim123", member.Password)

	_, err = auth.Register("Anna 2", "anna@example.com", "anders")
	assert.ErrorIs(t, err, ErrEmailInUse)

	logged, err := auth.Login("ANNA@example.com", "geheim123")
	require.NoError(t, err)
	assert.Equal(t, member.ID, logged.ID)

	_, err = auth.Login("anna@example.com", "falsch")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login("niemand@example.com", "geheim123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Profile(t *testing.T) {
	db := newTestDB(t)
	auth := NewAuthService(db)
	anna := createMember(t, db, "Anna", "anna@example.com")

	m, err := auth.Profile(identityOf(anna))
	require.NoError(t, err)
	assert.Equal(t, "Anna", m.Name)

	_, err = auth.Profile(Identity{})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = auth.Profile(Identity{MemberID: 999, Name: "Ghost"})
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

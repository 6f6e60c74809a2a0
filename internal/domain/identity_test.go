package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_auth/internal/domain"
)

func TestPrivilegedIdentity(t *testing.T) {
	id := domain.NewPrivilegedIdentity("admin@example.com")

	assert.Equal(t, domain.PrivilegedID, id.ID())
	assert.Equal(t, "admin@example.com", id.Email())
	assert.Equal(t, domain.RoleAdmin, id.Role())
	assert.True(t, id.IsPrivileged())

	p := id.Profile()
	assert.Equal(t, domain.PrivilegedID, p.ID)
	assert.Nil(t, p.LoginStreak)
}

func TestStoredIdentity(t *testing.T) {
	u := &domain.User{ID: "3f0e", Email: "u@example.com", Role: domain.RoleUser, Coins: 40, PasswordHash: "$2a$12$secret"}
	u.LoginStreak.Current = 3
	id := domain.StoredIdentity{User: u}

	assert.Equal(t, "3f0e", id.ID())
	assert.False(t, id.IsPrivileged())

	p := id.Profile()
	assert.Equal(t, int64(40), p.Coins)
	require.NotNil(t, p.LoginStreak)
	assert.Equal(t, 3, p.LoginStreak.Current)

	raw, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
	assert.NotContains(t, string(raw), "streakVersion")
}

func TestHasRole(t *testing.T) {
	user := domain.StoredIdentity{User: &domain.User{Role: domain.RoleUser}}
	admin := domain.NewPrivilegedIdentity("admin@example.com")

	assert.True(t, domain.HasRole(user, domain.RoleUser))
	assert.False(t, domain.HasRole(user, domain.RoleAdmin))
	assert.True(t, domain.HasRole(admin, domain.RoleUser, domain.RoleAdmin))
	assert.False(t, domain.HasRole(admin))
}

func TestRoleValid(t *testing.T) {
	assert.True(t, domain.RoleUser.Valid())
	assert.True(t, domain.RoleAdmin.Valid())
	assert.False(t, domain.Role("owner").Valid())
}

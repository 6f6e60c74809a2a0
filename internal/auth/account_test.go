package auth_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_auth/internal/auth"
	"storefront_auth/internal/domain"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.svc.Register(ctx, auth.RegisterInput{Name: "  Hana  ", Email: " Hana@Example.COM", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "Hana", u.Name)
	assert.Equal(t, "hana@example.com", u.Email)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.Equal(t, int64(0), u.Coins)
	assert.Len(t, u.ID, 36)
	assert.NotEqual(t, "password123", u.PasswordHash)

	res, err := f.svc.Login(ctx, "hana@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.Identity.ID)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "taken@example.com", "password123")

	tests := []struct {
		name    string
		input   auth.RegisterInput
		wantMsg string
	}{
		{
			name:    "missing name",
			input:   auth.RegisterInput{Name: "  ", Email: "a@example.com", Password: "password123"},
			wantMsg: "name is required",
		},
		{
			name:    "short name",
			input:   auth.RegisterInput{Name: "A", Email: "a@example.com", Password: "password123"},
			wantMsg: "name must be between 2 and 50 characters",
		},
		{
			name:    "long name",
			input:   auth.RegisterInput{Name: strings.Repeat("n", 51), Email: "a@example.com", Password: "password123"},
			wantMsg: "name must be between 2 and 50 characters",
		},
		{
			name:    "bad email",
			input:   auth.RegisterInput{Name: "Ann", Email: "not-an-email", Password: "password123"},
			wantMsg: "email must be a valid email address",
		},
		{
			name:    "short password",
			input:   auth.RegisterInput{Name: "Ann", Email: "a@example.com", Password: "short"},
			wantMsg: "password must be at least 8 characters",
		},
		{
			name:    "duplicate email",
			input:   auth.RegisterInput{Name: "Ann", Email: "TAKEN@example.com", Password: "password123"},
			wantMsg: "Email is already registered",
		},
		{
			name:    "privileged email",
			input:   auth.RegisterInput{Name: "Ann", Email: adminEmail, Password: "password123"},
			wantMsg: "Email is already registered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := f.svc.Register(ctx, tt.input)
			requireCode(t, err, auth.CodeValidation)
			assert.Nil(t, u)
			assert.Equal(t, tt.wantMsg, auth.PublicMessage(err))
		})
	}
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "ivan@example.com", "password123")

	res, err := f.svc.Login(ctx, "ivan@example.com", "password123")
	require.NoError(t, err)
	identity, err := f.svc.Authenticate(ctx, res.Token)
	require.NoError(t, err)

	t.Run("wrong current password", func(t *testing.T) {
		err := f.svc.ChangePassword(ctx, identity, "nope-nope", "brand-new-pass")
		requireCode(t, err, auth.CodeInvalidCredentials)
	})

	t.Run("weak new password", func(t *testing.T) {
		err := f.svc.ChangePassword(ctx, identity, "password123", "short")
		requireCode(t, err, auth.CodeValidation)
		assert.Equal(t, "newPassword must be at least 8 characters", auth.PublicMessage(err))
	})

	t.Run("round trip", func(t *testing.T) {
		require.NoError(t, f.svc.ChangePassword(ctx, identity, "password123", "brand-new-pass"))

		_, err := f.svc.Login(ctx, "ivan@example.com", "password123")
		requireCode(t, err, auth.CodeInvalidCredentials)
		_, err = f.svc.Login(ctx, "ivan@example.com", "brand-new-pass")
		require.NoError(t, err)

		u, err := f.store.FindUserByEmail(ctx, "ivan@example.com")
		require.NoError(t, err)
		assert.NotNil(t, u.LastPasswordChange)
	})

	t.Run("privileged identity", func(t *testing.T) {
		err := f.svc.ChangePassword(ctx, domain.NewPrivilegedIdentity(adminEmail), adminPassword, "brand-new-pass")
		requireCode(t, err, auth.CodeForbidden)
	})
}

func TestStoredUser(t *testing.T) {
	u := &domain.User{ID: "u1"}
	got, err := auth.StoredUser(domain.StoredIdentity{User: u})
	require.NoError(t, err)
	assert.Same(t, u, got)

	_, err = auth.StoredUser(domain.NewPrivilegedIdentity(adminEmail))
	requireCode(t, err, auth.CodeNotFound)
}

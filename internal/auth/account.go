package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"storefront_auth/internal/domain"
	"storefront_auth/internal/store"
)

// Registration field limits.
const (
	MinNameLength     = 2
	MaxNameLength     = 50
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt input limit
)

// RegisterInput is the data needed to create an account.
type RegisterInput struct {
	Name     string `validate:"required,min=2,max=50"`
	Email    string `validate:"required,email,max=191"`
	Password string `validate:"required,min=8,max=72"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Register creates a regular user account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if in.Email == s.adminEmail {
		return nil, validation("Email is already registered")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, oopsInternal("hash password", err)
	}
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, validation("Email is already registered")
		}
		s.logPersistence("create user", user.ID, err)
		return nil, persistence("create user", err)
	}
	logrus.WithField("user_id", user.ID).Info("User registered")
	return user, nil
}

// ChangePassword replaces the password of a stored user after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, identity domain.Identity, current, next string) error {
	if identity == nil {
		return unauthenticated(MsgUnauthenticated)
	}
	if identity.IsPrivileged() {
		return forbidden() // Configured, not stored
	}
	if err := validatePassword("newPassword", next); err != nil {
		return err
	}

	user, err := s.users.FindUserByEmail(ctx, identity.Email())
	if errors.Is(err, store.ErrNotFound) {
		return unauthenticated(MsgInvalidToken)
	}
	if err != nil {
		s.logPersistence("find user by email", identity.ID(), err)
		return persistence("find user by email", err)
	}
	if !s.hasher.Verify(current, user.PasswordHash) {
		return invalidCredentials()
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return oopsInternal("hash password", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash, s.now()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return unauthenticated(MsgInvalidToken)
		}
		s.logPersistence("update password", user.ID, err)
		return persistence("update password", err)
	}
	logrus.WithField("user_id", user.ID).Info("Password changed")
	return nil
}

// StoredUser returns the user behind identity, the privileged identity has none.
func StoredUser(identity domain.Identity) (*domain.User, error) {
	stored, ok := identity.(domain.StoredIdentity)
	if !ok || stored.User == nil {
		return nil, notFound("No coin account for this identity")
	}
	return stored.User, nil
}

func validateInput(in RegisterInput) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return oopsInternal("validate input", err)
	}
	return validation(fieldMessage(verrs[0]))
}

func validatePassword(field, password string) error {
	if err := validate.Var(password, "required,min=8,max=72"); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return validation(passwordMessage(field, verrs[0].Tag()))
		}
		return oopsInternal("validate password", err)
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Name":
		if fe.Tag() == "required" {
			return "name is required"
		}
		return fmt.Sprintf("name must be between %d and %d characters", MinNameLength, MaxNameLength)
	case "Email":
		if fe.Tag() == "required" {
			return "email is required"
		}
		return "email must be a valid email address"
	case "Password":
		return passwordMessage("password", fe.Tag())
	}
	return fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field()))
}

func passwordMessage(field, tag string) string {
	switch tag {
	case "required":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %d characters", field, MaxPasswordLength)
	}
	return fmt.Sprintf("%s must be at least %d characters", field, MinPasswordLength)
}

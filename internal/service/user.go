package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/crypto/bcrypt"

	"github.com/akazakov/cookbook/internal/apperrors"
	"github.com/akazakov/cookbook/internal/models"
)

// RegisterInput carries a registration payload.
type RegisterInput struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

const minPasswordLength = 8

// Register creates a new account with a bcrypt-hashed password. Email and
// username must both be unused.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Username = strings.TrimSpace(in.Username)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	var verr *multierror.Error
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		verr = multierror.Append(verr, fmt.Errorf("a valid email is required"))
	}
	if in.Username == "" {
		verr = multierror.Append(verr, fmt.Errorf("username is required"))
	}
	if in.FirstName == "" {
		verr = multierror.Append(verr, fmt.Errorf("first_name is required"))
	}
	if in.LastName == "" {
		verr = multierror.Append(verr, fmt.Errorf("last_name is required"))
	}
	if len(in.Password) < minPasswordLength {
		verr = multierror.Append(verr, fmt.Errorf("password must be at least %d characters", minPasswordLength))
	}
	if err := verr.ErrorOrNil(); err != nil {
		return nil, apperrors.Validation(err)
	}

	if existing, err := s.Users.GetByEmail(ctx, in.Email); err != nil {
		return nil, apperrors.Storage(err)
	} else if existing != nil {
		return nil, apperrors.Conflictf("email %s is already registered", in.Email)
	}
	if existing, err := s.Users.GetByUsername(ctx, in.Username); err != nil {
		return nil, apperrors.Storage(err)
	} else if existing != nil {
		return nil, apperrors.Conflictf("username %s is already taken", in.Username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.Users.Create(ctx, &models.User{
		Email:        in.Email,
		Username:     in.Username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, apperrors.Storage(err)
	}

	s.logger.WithField("user_id", user.ID).Infof("Registered new user %s", user.DisplayName())
	return user, nil
}

// Authenticate verifies email/password credentials and returns the user.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if user == nil {
		return nil, apperrors.Authorizationf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.Authorizationf("invalid credentials")
	}
	return user, nil
}

// ChangePassword verifies the current password and stores the new one.
func (s *Service) ChangePassword(ctx context.Context, actor *models.User, currentPassword, newPassword string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(actor.PasswordHash), []byte(currentPassword)); err != nil {
		return apperrors.Validationf("current password is wrong")
	}
	if len(newPassword) < minPasswordLength {
		return apperrors.Validationf("password must be at least %d characters", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.Users.UpdatePassword(ctx, actor.ID, string(hash)); err != nil {
		return apperrors.Storage(err)
	}

	s.logger.WithField("user_id", actor.ID).Info("Password changed")
	return nil
}

// GetUser returns one user by id.
func (s *Service) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if user == nil {
		return nil, apperrors.NotFoundf("user %d not found", id)
	}
	return user, nil
}

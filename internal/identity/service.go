package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrValidation wraps signup field errors.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials is deliberately generic: it never reveals whether
	// the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const minPasswordLen = 6

// Service manages account lifecycle.
type Service struct {
	repo Repository
}

// NewService creates a new identity service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SignUp creates a new user with a bcrypt password hash.
func (s *Service) SignUp(ctx context.Context, input Signup) (User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if input.Name == "" {
		return User{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		return User{}, fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if len(input.Password) < minPasswordLen {
		return User{}, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return User{}, fmt.Errorf("%w: %s", ErrValidation, ErrEmailTaken)
		}
		return User{}, err
	}

	return user, nil
}

// LogIn verifies credentials and returns the matching user.
func (s *Service) LogIn(ctx context.Context, creds Credentials) (User, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(creds.Password)); err != nil {
		return User{}, ErrInvalidCredentials
	}

	return user, nil
}

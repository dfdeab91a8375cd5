package identity

import (
	"context"
	"errors"
	"testing"
)

func TestSignUpAndLogIn(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)

	ctx := context.Background()
	user, err := svc.SignUp(ctx, Signup{Name: "Ada", Email: "ada@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected assigned user id")
	}
	if string(user.PasswordHash) == "hunter22" {
		t.Fatalf("password stored in plaintext")
	}

	authed, err := svc.LogIn(ctx, Credentials{Email: "ada@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if authed.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, authed.ID)
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, Signup{Name: "Ada", Email: "ada@example.com", Password: "hunter22"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	_, err := svc.SignUp(ctx, Signup{Name: "Eve", Email: "ada@example.com", Password: "hunter23"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for duplicate email, got %v", err)
	}
}

func TestSignUpEmailNormalized(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, Signup{Name: "Ada", Email: "  Ada@Example.com ", Password: "hunter22"}); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, err := svc.LogIn(ctx, Credentials{Email: "ada@example.com", Password: "hunter22"}); err != nil {
		t.Fatalf("login with normalized email: %v", err)
	}
}

func TestSignUpValidation(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	cases := []Signup{
		{Name: "", Email: "a@b.com", Password: "hunter22"},
		{Name: "Ada", Email: "", Password: "hunter22"},
		{Name: "Ada", Email: "not-an-email", Password: "hunter22"},
		{Name: "Ada", Email: "a@b.com", Password: "tiny"},
	}
	for _, input := range cases {
		if _, err := svc.SignUp(ctx, input); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected validation error for %+v, got %v", input, err)
		}
	}
}

func TestLogInGenericFailure(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, Signup{Name: "Ada", Email: "ada@example.com", Password: "hunter22"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	// Unknown email and wrong password must be indistinguishable.
	_, errUnknown := svc.LogIn(ctx, Credentials{Email: "nobody@example.com", Password: "hunter22"})
	_, errWrongPw := svc.LogIn(ctx, Credentials{Email: "ada@example.com", Password: "wrong"})
	if !errors.Is(errUnknown, ErrInvalidCredentials) || !errors.Is(errWrongPw, ErrInvalidCredentials) {
		t.Fatalf("expected generic invalid credentials, got %v / %v", errUnknown, errWrongPw)
	}
	if errUnknown.Error() != errWrongPw.Error() {
		t.Fatalf("credential errors differ: %q vs %q", errUnknown, errWrongPw)
	}
}

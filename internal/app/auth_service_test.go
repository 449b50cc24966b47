package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/subtrackr/subscription-api/internal/domain"
)

type authRepoStub struct {
	created *domain.User
	byEmail *domain.User
}

func (s *authRepoStub) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if s.byEmail != nil && s.byEmail.Email == user.Email {
		return nil, domain.ErrEmailTaken
	}
	out := *user
	out.ID = ownerID
	s.created = &out
	return &out, nil
}

func (s *authRepoStub) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

func (s *authRepoStub) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if s.byEmail == nil || s.byEmail.Email != email {
		return nil, domain.ErrNotFound
	}
	return s.byEmail, nil
}

func (s *authRepoStub) FindAll(ctx context.Context) ([]domain.User, error) {
	return nil, nil
}

func (s *authRepoStub) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	return user, nil
}

func TestSignUp_HashesPasswordAndIssuesToken(t *testing.T) {
	repo := &authRepoStub{}
	svc := NewAuthService(repo, "test-secret", time.Hour)

	user, token, err := svc.SignUp(context.Background(), domain.SignUpRequest{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.PasswordHash == "correct horse" || user.PasswordHash == "" {
		t.Error("password must be stored only as a hash")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct horse")); err != nil {
		t.Error("stored hash must verify against the original password")
	}

	userID, err := UserIDFromToken(token, []byte("test-secret"))
	if err != nil {
		t.Fatalf("issued token must validate: %v", err)
	}
	if userID != user.ID {
		t.Errorf("token must carry the user id, got %q", userID)
	}
}

func TestSignUp_RejectsShortPassword(t *testing.T) {
	svc := NewAuthService(&authRepoStub{}, "test-secret", time.Hour)

	_, _, err := svc.SignUp(context.Background(), domain.SignUpRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "short",
	})

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("whatever"), bcrypt.DefaultCost)
	repo := &authRepoStub{byEmail: &domain.User{ID: ownerID, Email: "ada@example.com", PasswordHash: string(hash)}}
	svc := NewAuthService(repo, "test-secret", time.Hour)

	_, _, err := svc.SignUp(context.Background(), domain.SignUpRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "correct horse",
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestSignIn_WrongPasswordAndUnknownUserAreIndistinguishable(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.DefaultCost)
	repo := &authRepoStub{byEmail: &domain.User{ID: ownerID, Email: "ada@example.com", PasswordHash: string(hash)}}
	svc := NewAuthService(repo, "test-secret", time.Hour)

	_, _, err := svc.SignIn(context.Background(), domain.SignInRequest{
		Email:    "ada@example.com",
		Password: "wrong",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}

	_, _, err = svc.SignIn(context.Background(), domain.SignInRequest{
		Email:    "nobody@example.com",
		Password: "correct horse",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestSignIn_Success(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.DefaultCost)
	repo := &authRepoStub{byEmail: &domain.User{ID: ownerID, Email: "ada@example.com", PasswordHash: string(hash)}}
	svc := NewAuthService(repo, "test-secret", time.Hour)

	user, token, err := svc.SignIn(context.Background(), domain.SignInRequest{
		Email:    "ada@example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != ownerID || token == "" {
		t.Errorf("expected user and token, got %q / %q", user.ID, token)
	}
}

func TestUserIDFromToken_RejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken(ownerID, []byte("secret-a"), time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := UserIDFromToken(token, []byte("secret-b")); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

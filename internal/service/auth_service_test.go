package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/it-tms/tms-service/internal/config"
	"github.com/it-tms/tms-service/internal/domain"
	apperrors "github.com/it-tms/tms-service/pkg/util"
)

func newTestAuthService(users *mockUserRepo) *AuthService {
	cfg := config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 5,
		BcryptCost:            bcrypt.MinCost,
	}
	return NewAuthService(cfg, users, zap.NewNop())
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError, got %v", err)
	}
	return domainErr.Code
}

func TestSignup_CreatesUser(t *testing.T) {
	users := newMockUserRepo()
	svc := newTestAuthService(users)

	user, err := svc.Signup(context.Background(), "alice", "alice@x.com", "p1", "")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("expected persisted user id")
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("role = %q, want default User", user.Role)
	}
	if user.PasswordHash == "p1" || user.PasswordHash == "" {
		t.Fatalf("password must be stored hashed")
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	users := newMockUserRepo()
	svc := newTestAuthService(users)

	if _, err := svc.Signup(context.Background(), "alice", "alice@x.com", "p1", ""); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	_, err := svc.Signup(context.Background(), "alice2", "alice@x.com", "p2", "")
	if code := domainCode(t, err); code != "CONFLICT" {
		t.Fatalf("code = %q, want CONFLICT", code)
	}
}

func TestSignup_DuplicateUsername(t *testing.T) {
	users := newMockUserRepo()
	svc := newTestAuthService(users)

	if _, err := svc.Signup(context.Background(), "alice", "alice@x.com", "p1", ""); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	_, err := svc.Signup(context.Background(), "alice", "other@x.com", "p2", "")
	if code := domainCode(t, err); code != "CONFLICT" {
		t.Fatalf("code = %q, want CONFLICT", code)
	}
}

func TestSignup_UnknownRole(t *testing.T) {
	svc := newTestAuthService(newMockUserRepo())

	_, err := svc.Signup(context.Background(), "bob", "bob@x.com", "p1", "Superuser")
	if code := domainCode(t, err); code != "VALIDATION_FAILED" {
		t.Fatalf("code = %q, want VALIDATION_FAILED", code)
	}
}

func TestLogin_Success(t *testing.T) {
	users := newMockUserRepo()
	svc := newTestAuthService(users)

	created, err := svc.Signup(context.Background(), "alice", "alice@x.com", "p1", "")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	result, err := svc.Login(context.Background(), "alice@x.com", "p1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.TokenType != TokenTypeBearer {
		t.Fatalf("token_type = %q, want %q", result.TokenType, TokenTypeBearer)
	}
	subject, err := svc.TokenManager().Validate(result.Token)
	if err != nil {
		t.Fatalf("issued token failed validation: %v", err)
	}
	if subject != created.ID {
		t.Fatalf("token subject = %d, want %d", subject, created.ID)
	}
}

func TestLogin_UniformFailure(t *testing.T) {
	users := newMockUserRepo()
	svc := newTestAuthService(users)

	if _, err := svc.Signup(context.Background(), "alice", "alice@x.com", "p1", ""); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	// Unknown account and wrong password must be indistinguishable.
	_, unknownErr := svc.Login(context.Background(), "nobody@x.com", "p1")
	_, wrongErr := svc.Login(context.Background(), "alice@x.com", "wrong")

	if unknownErr == nil || wrongErr == nil {
		t.Fatalf("both logins must fail")
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Fatalf("failure shapes differ: %q vs %q", unknownErr, wrongErr)
	}
	if code := domainCode(t, unknownErr); code != "UNAUTHORIZED" {
		t.Fatalf("code = %q, want UNAUTHORIZED", code)
	}
}

func TestLogin_CorruptStoredHash(t *testing.T) {
	users := newMockUserRepo()
	svc := newTestAuthService(users)

	corrupt := &domain.User{Username: "eve", Email: "eve@x.com", PasswordHash: "not-a-hash", Role: domain.RoleUser}
	if err := users.Create(context.Background(), corrupt); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, corruptErr := svc.Login(context.Background(), "eve@x.com", "whatever")
	_, unknownErr := svc.Login(context.Background(), "nobody@x.com", "whatever")
	if corruptErr == nil {
		t.Fatalf("login over corrupt hash must fail")
	}
	// Corrupt stored data must not produce a distinguishable outcome.
	if corruptErr.Error() != unknownErr.Error() {
		t.Fatalf("corrupt-hash failure leaks: %q vs %q", corruptErr, unknownErr)
	}
}

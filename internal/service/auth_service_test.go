package service

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"ftth-viability-be/internal/dto"
	"ftth-viability-be/internal/entity"
	"ftth-viability-be/internal/pkg/apperrors"
	"ftth-viability-be/internal/repository/specification"
)

type fakeMailer struct {
	mu          sync.Mutex
	resetTokens []string
}

func (m *fakeMailer) SendAuditOutcome(toEmail, requestCode, outcome, detail string) error {
	return nil
}

func (m *fakeMailer) SendResetToken(toEmail, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetTokens = append(m.resetTokens, token)
	return nil
}

func seedUser(repo *fakeUserRepo, password string, status entity.UserStatus) *entity.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	hashStr := string(hash)
	user := &entity.User{
		Id:           uuid.New(),
		Email:        "auditor@portal.local",
		PasswordHash: &hashStr,
		FullName:     "Test Auditor",
		Role:         entity.UserRoleAuditor,
		Status:       status,
		CreatedAt:    time.Now().UTC(),
	}
	_ = repo.Create(context.Background(), user)
	return user
}

func newTestAuthService(users *fakeUserRepo, mail *fakeMailer) IAuthService {
	factory := &fakeFactory{uow: &fakeUnitOfWork{viability: newFakeViabilityRepo(), users: users}}
	return NewAuthService(factory, mail, nil)
}

func TestLoginIssuesToken(t *testing.T) {
	users := newFakeUserRepo()
	user := seedUser(users, "correct-horse-battery", entity.UserStatusActive)
	svc := newTestAuthService(users, &fakeMailer{})

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    user.Email,
		Password: "correct-horse-battery",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.True(t, resp.ExpiresAt.After(time.Now()))
	assert.Equal(t, user.Email, resp.User.Email)
	assert.Equal(t, "auditor", resp.User.Role)

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_secret"
	}
	parsed, err := jwt.Parse(resp.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	assert.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, user.Id.String(), claims["user_id"])
	assert.Equal(t, "auditor", claims["role"])
}

func TestLoginWrongPassword(t *testing.T) {
	users := newFakeUserRepo()
	user := seedUser(users, "correct-horse-battery", entity.UserStatusActive)
	svc := newTestAuthService(users, &fakeMailer{})

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    user.Email,
		Password: "wrong-password",
	})

	assert.True(t, errors.Is(err, apperrors.ErrForbidden))
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo(), &fakeMailer{})

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@portal.local",
		Password: "whatever-password",
	})

	assert.True(t, errors.Is(err, apperrors.ErrForbidden))
}

func TestLoginSuspendedAccount(t *testing.T) {
	users := newFakeUserRepo()
	user := seedUser(users, "correct-horse-battery", entity.UserStatusSuspended)
	svc := newTestAuthService(users, &fakeMailer{})

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    user.Email,
		Password: "correct-horse-battery",
	})

	assert.True(t, errors.Is(err, apperrors.ErrForbidden))
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo(), &fakeMailer{})

	err := svc.ForgotPassword(context.Background(), &dto.ForgotPasswordRequest{
		Email: "nobody@portal.local",
	})

	assert.NoError(t, err)
}

func TestResetPasswordRoundTrip(t *testing.T) {
	users := newFakeUserRepo()
	user := seedUser(users, "old-password-123", entity.UserStatusActive)
	svc := newTestAuthService(users, &fakeMailer{})

	err := svc.ForgotPassword(context.Background(), &dto.ForgotPasswordRequest{Email: user.Email})
	assert.NoError(t, err)

	// Pull the stored token straight from the fake store.
	users.mu.Lock()
	assert.Len(t, users.tokens, 1)
	var token string
	for k := range users.tokens {
		token = k
	}
	users.mu.Unlock()

	err = svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Token:       token,
		NewPassword: "new-password-456",
	})
	assert.NoError(t, err)

	stored, _ := users.FindOne(context.Background(), specification.ByID{ID: user.Id})
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*stored.PasswordHash), []byte("new-password-456")))

	// The token is single use.
	err = svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Token:       token,
		NewPassword: "another-password",
	})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestResetPasswordExpiredToken(t *testing.T) {
	users := newFakeUserRepo()
	user := seedUser(users, "old-password-123", entity.UserStatusActive)
	expired := &entity.PasswordResetToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		Token:     "expired-token",
		ExpiresAt: time.Now().Add(-time.Minute),
		CreatedAt: time.Now().Add(-2 * time.Hour),
	}
	_ = users.CreatePasswordResetToken(context.Background(), expired)

	svc := newTestAuthService(users, &fakeMailer{})
	err := svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Token:       "expired-token",
		NewPassword: "new-password-456",
	})

	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

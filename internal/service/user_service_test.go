package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"ftth-viability-be/internal/dto"
	"ftth-viability-be/internal/entity"
	"ftth-viability-be/internal/pkg/apperrors"
	"ftth-viability-be/internal/repository/specification"
)

func newTestUserService(users *fakeUserRepo) IUserService {
	factory := &fakeFactory{uow: &fakeUnitOfWork{viability: newFakeViabilityRepo(), users: users}}
	return NewUserService(factory)
}

func TestCreateUserHashesPassword(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestUserService(users)

	profile, err := svc.CreateUser(context.Background(), &dto.CreateUserRequest{
		Email:    "new.auditor@portal.local",
		FullName: "New Auditor",
		Password: "plain-password-1",
		Role:     "auditor",
	})

	assert.NoError(t, err)
	assert.Equal(t, "new.auditor@portal.local", profile.Email)
	assert.Equal(t, "auditor", profile.Role)
	assert.Equal(t, string(entity.UserStatusActive), profile.Status)

	stored, _ := users.FindOne(context.Background(), specification.ByEmail{Email: profile.Email})
	assert.NotNil(t, stored.PasswordHash)
	assert.NotEqual(t, "plain-password-1", *stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*stored.PasswordHash), []byte("plain-password-1")))
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	seedUser(users, "whatever-pass-1", entity.UserStatusActive)
	svc := newTestUserService(users)

	_, err := svc.CreateUser(context.Background(), &dto.CreateUserRequest{
		Email:    "auditor@portal.local",
		FullName: "Duplicate",
		Password: "plain-password-1",
		Role:     "requester",
	})

	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestMeUnknownUser(t *testing.T) {
	svc := newTestUserService(newFakeUserRepo())
	_, err := svc.Me(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestListUsersFiltersByRole(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestUserService(users)

	for _, role := range []string{"auditor", "auditor", "requester"} {
		_, err := svc.CreateUser(context.Background(), &dto.CreateUserRequest{
			Email:    uuid.NewString() + "@portal.local",
			FullName: "Someone",
			Password: "plain-password-1",
			Role:     role,
		})
		assert.NoError(t, err)
	}

	auditors, err := svc.ListUsers(context.Background(), "auditor")
	assert.NoError(t, err)
	assert.Len(t, auditors, 2)

	everyone, err := svc.ListUsers(context.Background(), "")
	assert.NoError(t, err)
	assert.Len(t, everyone, 3)
}

package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"ftth-viability-be/internal/dto"
	"ftth-viability-be/internal/entity"
	"ftth-viability-be/internal/pkg/apperrors"
	"ftth-viability-be/internal/repository/specification"
	"ftth-viability-be/internal/repository/unitofwork"
)

type IUserService interface {
	Me(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserProfileResponse, error)
	ListUsers(ctx context.Context, role string) ([]*dto.UserProfileResponse, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewUserService(uowFactory unitofwork.RepositoryFactory) IUserService {
	return &userService{uowFactory: uowFactory}
}

func (s *userService) Me(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, apperrors.ErrUpstreamUnavailable.WithCause(err)
	}
	if user == nil {
		return nil, apperrors.ErrNotFound
	}
	return profileOf(user), nil
}

// CreateUser provisions a staff account. Admin only; there is no public
// self-registration on the portal.
func (s *userService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, apperrors.ErrUpstreamUnavailable.WithCause(err)
	}
	if existing != nil {
		return nil, apperrors.ErrValidation.WithMessage("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	user := &entity.User{
		Id:           uuid.New(),
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: &hashStr,
		Role:         entity.UserRole(req.Role),
		Status:       entity.UserStatusActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, apperrors.ErrUpstreamUnavailable.WithCause(err)
	}

	return profileOf(user), nil
}

func (s *userService) ListUsers(ctx context.Context, role string) ([]*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	var specs []specification.Specification
	if role != "" {
		specs = append(specs, specification.ByRole{Role: role})
	}
	specs = append(specs, specification.OrderBy{Field: "created_at", Desc: true})

	users, err := uow.UserRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, apperrors.ErrUpstreamUnavailable.WithCause(err)
	}

	out := make([]*dto.UserProfileResponse, 0, len(users))
	for _, u := range users {
		out = append(out, profileOf(u))
	}
	return out, nil
}

func profileOf(user *entity.User) *dto.UserProfileResponse {
	return &dto.UserProfileResponse{
		Id:        user.Id,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      string(user.Role),
		Status:    string(user.Status),
		CreatedAt: user.CreatedAt,
	}
}

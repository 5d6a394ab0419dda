package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"ftth-viability-be/internal/dto"
	"ftth-viability-be/internal/pkg/apperrors"
	"ftth-viability-be/pkg/geocode"
	"ftth-viability-be/pkg/lifecycle"
)

func newTestViabilityService(repo *fakeViabilityRepo) IViabilityService {
	factory := &fakeFactory{uow: &fakeUnitOfWork{viability: repo, users: newFakeUserRepo()}}
	return NewViabilityService(factory, serviceRegion, nil)
}

func TestCreateViabilityRequest(t *testing.T) {
	repo := newFakeViabilityRepo()
	svc := newTestViabilityService(repo)
	requesterId := uuid.New()
	code := geocode.Encode(-34.9050, -56.1700)

	resp, err := svc.Create(context.Background(), requesterId, &dto.CreateViabilityRequest{
		Kind: "ftth",
		Code: code,
	})

	assert.NoError(t, err)
	assert.Equal(t, code, resp.Code)
	assert.Equal(t, string(lifecycle.StatusPending), resp.Status)

	count, _ := repo.Count(context.Background())
	assert.Equal(t, int64(1), count)
}

func TestCreateNormalizesCode(t *testing.T) {
	repo := newFakeViabilityRepo()
	svc := newTestViabilityService(repo)
	code := geocode.Encode(-34.9050, -56.1700)

	resp, err := svc.Create(context.Background(), uuid.New(), &dto.CreateViabilityRequest{
		Kind: "ftta",
		Code: " " + strings.ToLower(code) + " ",
	})

	assert.NoError(t, err)
	assert.Equal(t, code, resp.Code)
}

func TestCreateRejectsUnknownKind(t *testing.T) {
	repo := newFakeViabilityRepo()
	svc := newTestViabilityService(repo)

	_, err := svc.Create(context.Background(), uuid.New(), &dto.CreateViabilityRequest{
		Kind: "hfc",
		Code: geocode.Encode(-34.9050, -56.1700),
	})

	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestCreateRejectsOutOfRegionCode(t *testing.T) {
	repo := newFakeViabilityRepo()
	svc := newTestViabilityService(repo)

	_, err := svc.Create(context.Background(), uuid.New(), &dto.CreateViabilityRequest{
		Kind: "ftth",
		Code: geocode.Encode(40.4168, -3.7038),
	})

	assert.True(t, errors.Is(err, apperrors.ErrOutOfServiceArea))

	// A failed validation persists nothing.
	count, _ := repo.Count(context.Background())
	assert.Equal(t, int64(0), count)
}

func TestCreateRejectsMalformedCode(t *testing.T) {
	repo := newFakeViabilityRepo()
	svc := newTestViabilityService(repo)

	_, err := svc.Create(context.Background(), uuid.New(), &dto.CreateViabilityRequest{
		Kind: "ftth",
		Code: "not-a-code",
	})

	assert.True(t, errors.Is(err, apperrors.ErrInvalidCode))
}

func TestListMineScopesToRequester(t *testing.T) {
	repo := newFakeViabilityRepo()
	mine := uuid.New()
	repo.put(pendingRequest(mine))
	repo.put(pendingRequest(mine))
	repo.put(pendingRequest(uuid.New()))

	svc := newTestViabilityService(repo)
	got, err := svc.ListMine(context.Background(), mine)

	assert.NoError(t, err)
	assert.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, mine, r.RequesterId)
	}
}

func TestListByStatusRejectsUnknownStatus(t *testing.T) {
	svc := newTestViabilityService(newFakeViabilityRepo())
	_, err := svc.ListByStatus(context.Background(), lifecycle.Status("garbage"))
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestListByStatusFilters(t *testing.T) {
	repo := newFakeViabilityRepo()
	claimed := pendingRequest(uuid.New())
	claimed.Status = lifecycle.StatusInReview
	repo.put(claimed)
	repo.put(pendingRequest(uuid.New()))

	svc := newTestViabilityService(repo)
	got, err := svc.ListByStatus(context.Background(), lifecycle.StatusPending)

	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, string(lifecycle.StatusPending), got[0].Status)
}

func TestShowOwnRequest(t *testing.T) {
	repo := newFakeViabilityRepo()
	owner := uuid.New()
	request := pendingRequest(owner)
	repo.put(request)

	svc := newTestViabilityService(repo)
	got, err := svc.Show(context.Background(), owner, false, request.Id)

	assert.NoError(t, err)
	assert.Equal(t, request.Id, got.Id)
}

func TestShowForeignRequestIsNotFound(t *testing.T) {
	repo := newFakeViabilityRepo()
	request := pendingRequest(uuid.New())
	repo.put(request)

	svc := newTestViabilityService(repo)

	// Non-owners get the same not-found as a missing record.
	_, err := svc.Show(context.Background(), uuid.New(), false, request.Id)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	// Auditors can read any record.
	got, err := svc.Show(context.Background(), uuid.New(), true, request.Id)
	assert.NoError(t, err)
	assert.Equal(t, request.Id, got.Id)
}

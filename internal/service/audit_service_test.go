package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"ftth-viability-be/internal/dto"
	"ftth-viability-be/internal/entity"
	"ftth-viability-be/internal/pkg/apperrors"
	"ftth-viability-be/internal/repository/specification"
	"ftth-viability-be/pkg/geocode"
	"ftth-viability-be/pkg/inventory"
	"ftth-viability-be/pkg/lifecycle"
)

var serviceRegion = geocode.Region{Lat: -34.9011, Lon: -56.1645, RadiusM: 60000}

func testSnapshot() *inventory.Snapshot {
	return &inventory.Snapshot{
		Kind:    string(entity.KindFTTH),
		Version: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Cabinets: []inventory.Cabinet{
			{ID: "CTO-BA-101", Label: "cto-ba-101", Lat: -34.9012, Lon: -56.1646},
			{ID: "CTO-BA-102", Label: "cto-ba-102", Lat: -34.9030, Lon: -56.1660},
		},
	}
}

func newTestAuditService(repo *fakeViabilityRepo, factoryOverride *fakeFactory) IAuditService {
	factory := factoryOverride
	if factory == nil {
		factory = &fakeFactory{uow: &fakeUnitOfWork{viability: repo, users: newFakeUserRepo()}}
	}
	return NewAuditService(
		factory,
		&fakeInventory{snapshots: map[string]*inventory.Snapshot{
			string(entity.KindFTTH): testSnapshot(),
		}},
		serviceRegion,
		MatcherConfig{DefaultRadiusM: 300, DefaultLimit: 10},
		nil,
	)
}

func pendingRequest(requesterId uuid.UUID) *entity.ViabilityRequest {
	return &entity.ViabilityRequest{
		Id:          uuid.New(),
		RequesterId: requesterId,
		Kind:        entity.KindFTTH,
		Code:        "48Q2+45",
		Lat:         -34.9011,
		Lon:         -56.1645,
		Status:      lifecycle.StatusPending,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
}

func TestClaimMovesRequestToInReview(t *testing.T) {
	repo := newFakeViabilityRepo()
	request := pendingRequest(uuid.New())
	repo.put(request)
	auditorId := uuid.New()

	svc := newTestAuditService(repo, nil)
	resp, err := svc.Claim(context.Background(), auditorId, request.Id)

	assert.NoError(t, err)
	assert.Equal(t, request.Id, resp.Id)
	assert.Equal(t, string(lifecycle.StatusInReview), resp.Status)
	assert.Equal(t, auditorId, resp.AuditorId)

	stored, _ := repo.FindOne(context.Background(), specification.ByID{ID: request.Id})
	assert.Equal(t, lifecycle.StatusInReview, stored.Status)
	assert.NotNil(t, stored.AuditorId)
	assert.Equal(t, auditorId, *stored.AuditorId)
}

func TestClaimOnClaimedRequest(t *testing.T) {
	repo := newFakeViabilityRepo()
	other := uuid.New()
	request := pendingRequest(uuid.New())
	request.Status = lifecycle.StatusInReview
	request.AuditorId = &other
	repo.put(request)

	svc := newTestAuditService(repo, nil)
	_, err := svc.Claim(context.Background(), uuid.New(), request.Id)

	assert.True(t, errors.Is(err, apperrors.ErrAlreadyClaimed))
}

// staleReadRepo serves a stale pending copy on read while the store has
// already moved on, so the conditional write must catch the race.
type staleReadRepo struct {
	*fakeViabilityRepo
	stale *entity.ViabilityRequest
}

func (r *staleReadRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ViabilityRequest, error) {
	clone := *r.stale
	return &clone, nil
}

func TestClaimLosesRace(t *testing.T) {
	repo := newFakeViabilityRepo()
	other := uuid.New()
	request := pendingRequest(uuid.New())
	request.Status = lifecycle.StatusInReview
	request.AuditorId = &other
	repo.put(request)

	stale := *request
	stale.Status = lifecycle.StatusPending
	stale.AuditorId = nil
	factory := &fakeFactory{uow: &fakeUnitOfWork{
		viability: &staleReadRepo{fakeViabilityRepo: repo, stale: &stale},
		users:     newFakeUserRepo(),
	}}

	svc := newTestAuditService(nil, factory)
	_, err := svc.Claim(context.Background(), uuid.New(), request.Id)

	assert.True(t, errors.Is(err, apperrors.ErrAlreadyClaimed))
}

func TestClaimUnknownRequest(t *testing.T) {
	svc := newTestAuditService(newFakeViabilityRepo(), nil)
	_, err := svc.Claim(context.Background(), uuid.New(), uuid.New())
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func inReviewRequest(repo *fakeViabilityRepo, auditorId uuid.UUID) *entity.ViabilityRequest {
	request := pendingRequest(uuid.New())
	request.Status = lifecycle.StatusInReview
	request.AuditorId = &auditorId
	repo.put(request)
	return request
}

func TestApproveRecordsCabinet(t *testing.T) {
	repo := newFakeViabilityRepo()
	auditorId := uuid.New()
	request := inReviewRequest(repo, auditorId)

	svc := newTestAuditService(repo, nil)
	resp, err := svc.Approve(context.Background(), auditorId, request.Id, &dto.ApproveRequest{CabinetID: "CTO-BA-101"})

	assert.NoError(t, err)
	assert.Equal(t, string(lifecycle.StatusApproved), resp.Status)
	assert.NotNil(t, resp.Resolution)
	assert.Equal(t, "CTO-BA-101", *resp.Resolution.CabinetID)
	assert.Equal(t, "cto-ba-101", *resp.Resolution.CabinetLabel)
}

func TestApproveUnknownCabinet(t *testing.T) {
	repo := newFakeViabilityRepo()
	auditorId := uuid.New()
	request := inReviewRequest(repo, auditorId)

	svc := newTestAuditService(repo, nil)
	_, err := svc.Approve(context.Background(), auditorId, request.Id, &dto.ApproveRequest{CabinetID: "CTO-NOPE"})

	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	// Nothing changed on a rejected validation.
	stored, _ := repo.FindOne(context.Background(), specification.ByID{ID: request.Id})
	assert.Equal(t, lifecycle.StatusInReview, stored.Status)
}

func TestApproveByAnotherAuditor(t *testing.T) {
	repo := newFakeViabilityRepo()
	request := inReviewRequest(repo, uuid.New())

	svc := newTestAuditService(repo, nil)
	_, err := svc.Approve(context.Background(), uuid.New(), request.Id, &dto.ApproveRequest{CabinetID: "CTO-BA-101"})

	assert.True(t, errors.Is(err, apperrors.ErrForbidden))
}

func TestApproveUnclaimedRequest(t *testing.T) {
	repo := newFakeViabilityRepo()
	request := pendingRequest(uuid.New())
	repo.put(request)

	svc := newTestAuditService(repo, nil)
	_, err := svc.Approve(context.Background(), uuid.New(), request.Id, &dto.ApproveRequest{CabinetID: "CTO-BA-101"})

	assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))
}

func TestRejectRecordsReason(t *testing.T) {
	repo := newFakeViabilityRepo()
	auditorId := uuid.New()
	request := inReviewRequest(repo, auditorId)

	svc := newTestAuditService(repo, nil)
	resp, err := svc.Reject(context.Background(), auditorId, request.Id, &dto.RejectRequest{Reason: "no spare ports in the area"})

	assert.NoError(t, err)
	assert.Equal(t, string(lifecycle.StatusRejected), resp.Status)
	assert.NotNil(t, resp.Resolution)
	assert.Equal(t, "no spare ports in the area", *resp.Resolution.Reason)
}

func TestRescheduleReleasesClaim(t *testing.T) {
	repo := newFakeViabilityRepo()
	auditorId := uuid.New()
	request := inReviewRequest(repo, auditorId)
	newTime := time.Date(2025, 7, 1, 14, 0, 0, 0, time.UTC)

	svc := newTestAuditService(repo, nil)
	resp, err := svc.Reschedule(context.Background(), auditorId, request.Id, &dto.RescheduleRequest{NewTime: newTime})

	assert.NoError(t, err)
	// Back in the pending queue, claim released, proposed time recorded.
	assert.Equal(t, string(lifecycle.StatusPending), resp.Status)
	assert.Nil(t, resp.AuditorId)
	assert.NotNil(t, resp.Resolution)
	assert.True(t, resp.Resolution.RescheduleTime.Equal(newTime))

	stored, _ := repo.FindOne(context.Background(), specification.ByID{ID: request.Id})
	assert.Equal(t, lifecycle.StatusPending, stored.Status)
	assert.Nil(t, stored.AuditorId)
}

func TestArchiveResolvedRequest(t *testing.T) {
	repo := newFakeViabilityRepo()
	auditorId := uuid.New()
	cabinetID := "CTO-BA-101"
	request := pendingRequest(uuid.New())
	request.Status = lifecycle.StatusApproved
	request.AuditorId = &auditorId
	request.Resolution = &entity.Resolution{CabinetID: &cabinetID}
	repo.put(request)

	svc := newTestAuditService(repo, nil)
	resp, err := svc.Archive(context.Background(), auditorId, request.Id)

	assert.NoError(t, err)
	assert.Equal(t, string(lifecycle.StatusArchived), resp.Status)
	// The audit outcome survives archival.
	assert.NotNil(t, resp.Resolution)
	assert.Equal(t, cabinetID, *resp.Resolution.CabinetID)
}

func TestArchivePendingRequest(t *testing.T) {
	repo := newFakeViabilityRepo()
	request := pendingRequest(uuid.New())
	repo.put(request)

	svc := newTestAuditService(repo, nil)
	_, err := svc.Archive(context.Background(), uuid.New(), request.Id)

	assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))
}

func TestCandidatesUsesStoredCoordinates(t *testing.T) {
	repo := newFakeViabilityRepo()
	auditorId := uuid.New()
	request := inReviewRequest(repo, auditorId)

	svc := newTestAuditService(repo, nil)
	resp, err := svc.Candidates(context.Background(), auditorId, request.Id, &dto.CandidatesRequest{})

	assert.NoError(t, err)
	assert.Equal(t, request.Code, resp.Code)
	assert.Equal(t, request.Lat, resp.Lat)
	assert.Equal(t, request.Lon, resp.Lon)
	assert.Equal(t, testSnapshot().Version, resp.InventoryVersion)

	// CTO-BA-101 sits a few meters away, CTO-BA-102 a couple hundred.
	assert.Len(t, resp.Candidates, 2)
	assert.Equal(t, "CTO-BA-101", resp.Candidates[0].Cabinet.ID)
	assert.Equal(t, "CTO-BA-102", resp.Candidates[1].Cabinet.ID)
	assert.Less(t, resp.Candidates[0].DistanceM, resp.Candidates[1].DistanceM)
}

func TestCandidatesHonorsLimit(t *testing.T) {
	repo := newFakeViabilityRepo()
	auditorId := uuid.New()
	request := inReviewRequest(repo, auditorId)
	limit := 1

	svc := newTestAuditService(repo, nil)
	resp, err := svc.Candidates(context.Background(), auditorId, request.Id, &dto.CandidatesRequest{Limit: &limit})

	assert.NoError(t, err)
	assert.Len(t, resp.Candidates, 1)
	assert.Equal(t, "CTO-BA-101", resp.Candidates[0].Cabinet.ID)
}

func TestCandidatesWithCodeOverride(t *testing.T) {
	repo := newFakeViabilityRepo()
	auditorId := uuid.New()
	request := inReviewRequest(repo, auditorId)
	override := geocode.Encode(-34.9030, -56.1660)

	svc := newTestAuditService(repo, nil)
	resp, err := svc.Candidates(context.Background(), auditorId, request.Id, &dto.CandidatesRequest{Code: &override})

	assert.NoError(t, err)
	assert.Equal(t, override, resp.Code)
	assert.InDelta(t, -34.9030, resp.Lat, 0.0001)
	assert.InDelta(t, -56.1660, resp.Lon, 0.0001)
	// Nearest to the corrected point now.
	assert.Equal(t, "CTO-BA-102", resp.Candidates[0].Cabinet.ID)
}

func TestCandidatesRejectsOutOfRegionOverride(t *testing.T) {
	repo := newFakeViabilityRepo()
	auditorId := uuid.New()
	request := inReviewRequest(repo, auditorId)
	override := geocode.Encode(40.4168, -3.7038)

	svc := newTestAuditService(repo, nil)
	_, err := svc.Candidates(context.Background(), auditorId, request.Id, &dto.CandidatesRequest{Code: &override})

	assert.True(t, errors.Is(err, apperrors.ErrOutOfServiceArea))
}

func TestCandidatesOnResolvedRequest(t *testing.T) {
	repo := newFakeViabilityRepo()
	request := pendingRequest(uuid.New())
	request.Status = lifecycle.StatusApproved
	repo.put(request)

	svc := newTestAuditService(repo, nil)
	_, err := svc.Candidates(context.Background(), uuid.New(), request.Id, &dto.CandidatesRequest{})

	assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))
}

package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"ftth-viability-be/internal/dto"
	"ftth-viability-be/internal/entity"
	"ftth-viability-be/internal/pkg/apperrors"
	"ftth-viability-be/internal/repository/specification"
	"ftth-viability-be/internal/repository/unitofwork"
	"ftth-viability-be/pkg/events"
	"ftth-viability-be/pkg/geocode"
	"ftth-viability-be/pkg/inventory"
	"ftth-viability-be/pkg/lifecycle"
	"ftth-viability-be/pkg/matcher"
	pktNats "ftth-viability-be/pkg/nats"
)

// InventoryProvider hands out per-kind inventory snapshots. Implemented by
// inventory.Fetcher; faked in tests.
type InventoryProvider interface {
	Snapshot(ctx context.Context, kind string) (*inventory.Snapshot, error)
	Refresh(ctx context.Context, kind string) (*inventory.Snapshot, error)
	Kinds() []string
}

// MatcherConfig bounds the candidate search an auditor runs.
type MatcherConfig struct {
	DefaultRadiusM float64
	DefaultLimit   int
}

type IAuditService interface {
	Claim(ctx context.Context, auditorId, requestId uuid.UUID) (*dto.ClaimResponse, error)
	Candidates(ctx context.Context, auditorId, requestId uuid.UUID, req *dto.CandidatesRequest) (*dto.CandidatesResponse, error)
	Approve(ctx context.Context, auditorId, requestId uuid.UUID, req *dto.ApproveRequest) (*dto.ViabilityRequestResponse, error)
	Reject(ctx context.Context, auditorId, requestId uuid.UUID, req *dto.RejectRequest) (*dto.ViabilityRequestResponse, error)
	Reschedule(ctx context.Context, auditorId, requestId uuid.UUID, req *dto.RescheduleRequest) (*dto.ViabilityRequestResponse, error)
	Archive(ctx context.Context, auditorId, requestId uuid.UUID) (*dto.ViabilityRequestResponse, error)
}

type auditService struct {
	uowFactory     unitofwork.RepositoryFactory
	inventories    InventoryProvider
	region         geocode.Region
	matcherCfg     MatcherConfig
	eventPublisher *pktNats.Publisher
}

func NewAuditService(
	uowFactory unitofwork.RepositoryFactory,
	inventories InventoryProvider,
	region geocode.Region,
	matcherCfg MatcherConfig,
	eventPublisher *pktNats.Publisher,
) IAuditService {
	return &auditService{
		uowFactory:     uowFactory,
		inventories:    inventories,
		region:         region,
		matcherCfg:     matcherCfg,
		eventPublisher: eventPublisher,
	}
}

// Claim moves pending -> in_review for one auditor. The conditional write
// is the contention point: the store is the shared truth, so the claim only
// succeeds if the stored status is still pending at write time.
func (s *auditService) Claim(ctx context.Context, auditorId, requestId uuid.UUID) (*dto.ClaimResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	request, err := s.mustFind(ctx, uow, requestId)
	if err != nil {
		return nil, err
	}

	next, err := lifecycle.Next(request.Status, lifecycle.EventClaim)
	if err != nil {
		if request.Status == lifecycle.StatusInReview {
			return nil, apperrors.ErrAlreadyClaimed
		}
		return nil, err
	}

	ok, err := uow.ViabilityRequestRepository().UpdateStatusIf(ctx, requestId, lifecycle.StatusPending, map[string]interface{}{
		"status":     string(next),
		"auditor_id": auditorId,
		"updated_at": time.Now(),
	})
	if err != nil {
		return nil, apperrors.ErrUpstreamUnavailable.WithCause(err)
	}
	if !ok {
		// Lost the race: another auditor claimed between read and write.
		return nil, apperrors.ErrAlreadyClaimed
	}

	s.publish(ctx, events.NewViabilityEvent(
		events.TypeViabilityClaimed, requestId, request.RequesterId, auditorId, nil,
	))

	return &dto.ClaimResponse{Id: requestId, Status: string(next), AuditorId: auditorId}, nil
}

// Candidates computes the ranked cabinet list for a request. A manual code
// override re-decodes and re-runs the matcher against a fresh snapshot.
func (s *auditService) Candidates(ctx context.Context, auditorId, requestId uuid.UUID, req *dto.CandidatesRequest) (*dto.CandidatesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	request, err := s.mustFind(ctx, uow, requestId)
	if err != nil {
		return nil, err
	}
	if request.Status != lifecycle.StatusPending && request.Status != lifecycle.StatusInReview {
		return nil, apperrors.ErrInvalidTransition.WithMessage("request %s is already resolved", requestId)
	}

	code, lat, lon := request.Code, request.Lat, request.Lon
	if req.Code != nil {
		code = geocode.Normalize(*req.Code)
		lat, lon, err = s.region.CheckCode(code)
		if err != nil {
			return nil, err
		}
	}

	snapshot, err := s.inventories.Snapshot(ctx, string(request.Kind))
	if err != nil {
		return nil, err
	}

	radius := s.matcherCfg.DefaultRadiusM
	if req.RadiusM != nil {
		radius = *req.RadiusM
	}
	limit := s.matcherCfg.DefaultLimit
	if req.Limit != nil {
		limit = *req.Limit
	}

	return &dto.CandidatesResponse{
		RequestId:        requestId,
		Code:             code,
		Lat:              lat,
		Lon:              lon,
		InventoryVersion: snapshot.Version,
		Candidates:       matcher.FindCandidates(lat, lon, snapshot.Cabinets, radius, limit),
	}, nil
}

func (s *auditService) Approve(ctx context.Context, auditorId, requestId uuid.UUID, req *dto.ApproveRequest) (*dto.ViabilityRequestResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	request, err := s.mustFindClaimed(ctx, uow, auditorId, requestId)
	if err != nil {
		return nil, err
	}

	// The selected cabinet must exist in the inventory snapshot used for
	// this audit.
	snapshot, err := s.inventories.Snapshot(ctx, string(request.Kind))
	if err != nil {
		return nil, err
	}
	cabinet := snapshot.FindCabinet(req.CabinetID)
	if cabinet == nil {
		return nil, apperrors.ErrValidation.WithMessage("cabinet %q is not in the current inventory", req.CabinetID)
	}

	resolution := &entity.Resolution{CabinetID: &cabinet.ID, CabinetLabel: &cabinet.Label}
	updated, err := s.transition(ctx, uow, request, lifecycle.EventApprove, resolution, map[string]interface{}{})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewViabilityEvent(
		events.TypeViabilityApproved, requestId, request.RequesterId, auditorId,
		map[string]interface{}{"cabinet_id": cabinet.ID, "cabinet_label": cabinet.Label},
	))

	return dto.NewViabilityRequestResponse(updated), nil
}

func (s *auditService) Reject(ctx context.Context, auditorId, requestId uuid.UUID, req *dto.RejectRequest) (*dto.ViabilityRequestResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	request, err := s.mustFindClaimed(ctx, uow, auditorId, requestId)
	if err != nil {
		return nil, err
	}

	resolution := &entity.Resolution{Reason: &req.Reason}
	updated, err := s.transition(ctx, uow, request, lifecycle.EventReject, resolution, map[string]interface{}{})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewViabilityEvent(
		events.TypeViabilityRejected, requestId, request.RequesterId, auditorId,
		map[string]interface{}{"reason": req.Reason},
	))

	return dto.NewViabilityRequestResponse(updated), nil
}

// Reschedule is a deferral, not a resolution: the request returns to the
// pending queue and the claim is released.
func (s *auditService) Reschedule(ctx context.Context, auditorId, requestId uuid.UUID, req *dto.RescheduleRequest) (*dto.ViabilityRequestResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	request, err := s.mustFindClaimed(ctx, uow, auditorId, requestId)
	if err != nil {
		return nil, err
	}

	resolution := &entity.Resolution{RescheduleTime: &req.NewTime}
	updated, err := s.transition(ctx, uow, request, lifecycle.EventReschedule, resolution, map[string]interface{}{
		"auditor_id": nil,
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewViabilityEvent(
		events.TypeViabilityRescheduled, requestId, request.RequesterId, auditorId,
		map[string]interface{}{"reschedule_time": req.NewTime.Format(time.RFC3339)},
	))

	return dto.NewViabilityRequestResponse(updated), nil
}

// Archive ends the record's life from a terminal audit outcome. Invoked by
// the reporting workflow, never automatically, and emits no notification.
func (s *auditService) Archive(ctx context.Context, auditorId, requestId uuid.UUID) (*dto.ViabilityRequestResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	request, err := s.mustFind(ctx, uow, requestId)
	if err != nil {
		return nil, err
	}

	if _, err := lifecycle.Next(request.Status, lifecycle.EventArchive); err != nil {
		return nil, err
	}

	updated, err := s.transition(ctx, uow, request, lifecycle.EventArchive, request.Resolution, map[string]interface{}{})
	if err != nil {
		return nil, err
	}
	return dto.NewViabilityRequestResponse(updated), nil
}

// transition performs the single conditional write a lifecycle edge rides
// on: status plus side-effect fields update together or not at all.
func (s *auditService) transition(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	request *entity.ViabilityRequest,
	event lifecycle.Event,
	resolution *entity.Resolution,
	extraFields map[string]interface{},
) (*entity.ViabilityRequest, error) {
	next, err := lifecycle.Next(request.Status, event)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"status":     string(next),
		"updated_at": time.Now(),
	}
	if resolution != nil {
		raw, err := json.Marshal(resolution)
		if err != nil {
			return nil, err
		}
		fields["resolution"] = datatypes.JSON(raw)
	}
	for k, v := range extraFields {
		fields[k] = v
	}

	ok, err := uow.ViabilityRequestRepository().UpdateStatusIf(ctx, request.Id, request.Status, fields)
	if err != nil {
		return nil, apperrors.ErrUpstreamUnavailable.WithCause(err)
	}
	if !ok {
		return nil, apperrors.ErrInvalidTransition.WithMessage("request %s changed state concurrently", request.Id)
	}

	updated, err := uow.ViabilityRequestRepository().FindOne(ctx, specification.ByID{ID: request.Id})
	if err != nil {
		return nil, apperrors.ErrUpstreamUnavailable.WithCause(err)
	}
	if updated == nil {
		return nil, apperrors.ErrNotFound
	}
	return updated, nil
}

func (s *auditService) mustFind(ctx context.Context, uow unitofwork.UnitOfWork, requestId uuid.UUID) (*entity.ViabilityRequest, error) {
	request, err := uow.ViabilityRequestRepository().FindOne(ctx, specification.ByID{ID: requestId})
	if err != nil {
		return nil, apperrors.ErrUpstreamUnavailable.WithCause(err)
	}
	if request == nil {
		return nil, apperrors.ErrNotFound
	}
	return request, nil
}

// mustFindClaimed loads a request that must be in_review and claimed by the
// acting auditor.
func (s *auditService) mustFindClaimed(ctx context.Context, uow unitofwork.UnitOfWork, auditorId, requestId uuid.UUID) (*entity.ViabilityRequest, error) {
	request, err := s.mustFind(ctx, uow, requestId)
	if err != nil {
		return nil, err
	}
	if request.Status != lifecycle.StatusInReview {
		return nil, apperrors.ErrInvalidTransition.WithMessage("request %s is not under review", requestId)
	}
	if request.AuditorId == nil || *request.AuditorId != auditorId {
		return nil, apperrors.ErrForbidden.WithMessage("request %s is claimed by another auditor", requestId)
	}
	return request, nil
}

func (s *auditService) publish(ctx context.Context, event events.Event) {
	if s.eventPublisher == nil {
		return
	}
	// Fire-and-forget: a completed transition is never rolled back because
	// its notification could not be delivered.
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		log.Printf("[WARN] Failed to publish %s: %v", event.EventType(), err)
	}
}

package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"ftth-viability-be/internal/dto"
	"ftth-viability-be/internal/entity"
	"ftth-viability-be/internal/pkg/apperrors"
	"ftth-viability-be/internal/repository/specification"
	"ftth-viability-be/internal/repository/unitofwork"
	"ftth-viability-be/pkg/events"
	"ftth-viability-be/pkg/geocode"
	"ftth-viability-be/pkg/lifecycle"
	pktNats "ftth-viability-be/pkg/nats"
)

type IViabilityService interface {
	Create(ctx context.Context, requesterId uuid.UUID, req *dto.CreateViabilityRequest) (*dto.CreateViabilityResponse, error)
	ListMine(ctx context.Context, userId uuid.UUID) ([]*dto.ViabilityRequestResponse, error)
	ListByStatus(ctx context.Context, status lifecycle.Status) ([]*dto.ViabilityRequestResponse, error)
	Show(ctx context.Context, userId uuid.UUID, isAuditor bool, id uuid.UUID) (*dto.ViabilityRequestResponse, error)
}

type viabilityService struct {
	uowFactory     unitofwork.RepositoryFactory
	region         geocode.Region
	eventPublisher *pktNats.Publisher
}

func NewViabilityService(
	uowFactory unitofwork.RepositoryFactory,
	region geocode.Region,
	eventPublisher *pktNats.Publisher,
) IViabilityService {
	return &viabilityService{
		uowFactory:     uowFactory,
		region:         region,
		eventPublisher: eventPublisher,
	}
}

func (s *viabilityService) Create(ctx context.Context, requesterId uuid.UUID, req *dto.CreateViabilityRequest) (*dto.CreateViabilityResponse, error) {
	kind := entity.RequestKind(req.Kind)
	if !entity.ValidKind(kind) {
		return nil, apperrors.ErrValidation.WithMessage("unknown request kind %q", req.Kind)
	}

	// Validation errors surface immediately at creation, never coerced:
	// a bad or out-of-region code means no record is persisted.
	code := geocode.Normalize(req.Code)
	lat, lon, err := s.region.CheckCode(code)
	if err != nil {
		return nil, err
	}

	request := entity.ViabilityRequest{
		Id:          uuid.New(),
		RequesterId: requesterId,
		Kind:        kind,
		Code:        code,
		Lat:         lat,
		Lon:         lon,
		Status:      lifecycle.StatusPending,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ViabilityRequestRepository().Create(ctx, &request); err != nil {
		return nil, apperrors.ErrUpstreamUnavailable.WithCause(err)
	}

	s.publish(ctx, events.NewViabilityEvent(
		events.TypeViabilityCreated, request.Id, requesterId, uuid.Nil,
		map[string]interface{}{"kind": string(kind), "code": code},
	))

	return &dto.CreateViabilityResponse{
		Id:     request.Id,
		Code:   request.Code,
		Status: string(request.Status),
	}, nil
}

func (s *viabilityService) ListMine(ctx context.Context, userId uuid.UUID) ([]*dto.ViabilityRequestResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	requests, err := uow.ViabilityRequestRepository().FindAll(ctx,
		specification.ByRequester{RequesterID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, apperrors.ErrUpstreamUnavailable.WithCause(err)
	}
	return dto.NewViabilityRequestResponses(requests), nil
}

func (s *viabilityService) ListByStatus(ctx context.Context, status lifecycle.Status) ([]*dto.ViabilityRequestResponse, error) {
	if !lifecycle.Valid(status) {
		return nil, apperrors.ErrValidation.WithMessage("unknown status %q", status)
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	requests, err := uow.ViabilityRequestRepository().FindAll(ctx,
		specification.ByStatus{Status: status},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, apperrors.ErrUpstreamUnavailable.WithCause(err)
	}
	return dto.NewViabilityRequestResponses(requests), nil
}

func (s *viabilityService) Show(ctx context.Context, userId uuid.UUID, isAuditor bool, id uuid.UUID) (*dto.ViabilityRequestResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	request, err := uow.ViabilityRequestRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperrors.ErrUpstreamUnavailable.WithCause(err)
	}
	if request == nil {
		return nil, apperrors.ErrNotFound
	}
	// Ownership: a non-auditor may only read their own records. Report the
	// same not-found either way so record existence doesn't leak.
	if !isAuditor && request.RequesterId != userId {
		return nil, apperrors.ErrNotFound
	}
	return dto.NewViabilityRequestResponse(request), nil
}

func (s *viabilityService) publish(ctx context.Context, event events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		log.Printf("[WARN] Failed to publish %s: %v", event.EventType(), err)
	}
}

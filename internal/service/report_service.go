package service

import (
	"context"

	"ftth-viability-be/internal/dto"
	"ftth-viability-be/internal/entity"
	"ftth-viability-be/internal/pkg/apperrors"
	"ftth-viability-be/internal/repository/specification"
	"ftth-viability-be/internal/repository/unitofwork"
	"ftth-viability-be/pkg/lifecycle"
)

type IReportService interface {
	QueueSummary(ctx context.Context) ([]*dto.QueueSummaryResponse, error)
	RefreshInventory(ctx context.Context) (*dto.RefreshInventoryResponse, error)
}

type reportService struct {
	uowFactory  unitofwork.RepositoryFactory
	inventories InventoryProvider
	publisher   IPublisherService
}

func NewReportService(
	uowFactory unitofwork.RepositoryFactory,
	inventories InventoryProvider,
	publisher IPublisherService,
) IReportService {
	return &reportService{
		uowFactory:  uowFactory,
		inventories: inventories,
		publisher:   publisher,
	}
}

// QueueSummary counts requests per status for each request kind. Backs the
// operations dashboard.
func (s *reportService) QueueSummary(ctx context.Context) ([]*dto.QueueSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ViabilityRequestRepository()

	kinds := []entity.RequestKind{entity.KindFTTH, entity.KindFTTA}
	out := make([]*dto.QueueSummaryResponse, 0, len(kinds))

	for _, kind := range kinds {
		row := &dto.QueueSummaryResponse{Kind: string(kind)}
		targets := []struct {
			status lifecycle.Status
			dest   *int64
		}{
			{lifecycle.StatusPending, &row.Pending},
			{lifecycle.StatusInReview, &row.InReview},
			{lifecycle.StatusApproved, &row.Approved},
			{lifecycle.StatusRejected, &row.Rejected},
			{lifecycle.StatusArchived, &row.Archived},
		}
		for _, t := range targets {
			n, err := repo.Count(ctx,
				specification.ByKind{Kind: kind},
				specification.ByStatus{Status: t.status},
			)
			if err != nil {
				return nil, apperrors.ErrUpstreamUnavailable.WithCause(err)
			}
			*t.dest = n
		}
		out = append(out, row)
	}

	return out, nil
}

// RefreshInventory queues a re-fetch of every configured inventory kind.
func (s *reportService) RefreshInventory(ctx context.Context) (*dto.RefreshInventoryResponse, error) {
	kinds := s.inventories.Kinds()
	for _, kind := range kinds {
		if err := s.publisher.PublishRefreshInventory(ctx, kind); err != nil {
			return nil, err
		}
	}
	return &dto.RefreshInventoryResponse{Kinds: kinds}, nil
}

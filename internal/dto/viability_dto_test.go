package dto

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"ftth-viability-be/internal/entity"
	"ftth-viability-be/pkg/lifecycle"
)

func TestResponseTimestampsUseDisplayTimezone(t *testing.T) {
	created := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	reason := "duct is full"
	rescheduled := time.Date(2025, 6, 2, 18, 30, 0, 0, time.UTC)

	resp := NewViabilityRequestResponse(&entity.ViabilityRequest{
		Id:          uuid.New(),
		RequesterId: uuid.New(),
		Kind:        entity.KindFTTH,
		Status:      lifecycle.StatusRejected,
		Resolution:  &entity.Resolution{Reason: &reason, RescheduleTime: &rescheduled},
		CreatedAt:   created,
		UpdatedAt:   created,
	})

	assert.Equal(t, "UTC-3", resp.CreatedAt.Location().String())
	assert.Equal(t, 12, resp.CreatedAt.Hour())
	// Same instant, different wall clock.
	assert.True(t, resp.CreatedAt.Equal(created))

	assert.Equal(t, "duct is full", *resp.Resolution.Reason)
	assert.Equal(t, 15, resp.Resolution.RescheduleTime.Hour())
	assert.True(t, resp.Resolution.RescheduleTime.Equal(rescheduled))
}

func TestResponseOfNilEntity(t *testing.T) {
	assert.Nil(t, NewViabilityRequestResponse(nil))
}

package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"ftth-viability-be/internal/entity"
	"ftth-viability-be/internal/repository/contract"
	"ftth-viability-be/internal/repository/specification"
	"ftth-viability-be/internal/repository/unitofwork"
	"ftth-viability-be/pkg/inventory"
	"ftth-viability-be/pkg/lifecycle"
)

// fakeViabilityRepo is an in-memory stand-in for the GORM repository. It
// honors the same conditional-update contract, which is what the workflow
// tests exercise.
type fakeViabilityRepo struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*entity.ViabilityRequest
}

func newFakeViabilityRepo() *fakeViabilityRepo {
	return &fakeViabilityRepo{requests: make(map[uuid.UUID]*entity.ViabilityRequest)}
}

func (r *fakeViabilityRepo) put(req *entity.ViabilityRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *req
	r.requests[req.Id] = &clone
}

func (r *fakeViabilityRepo) Create(ctx context.Context, request *entity.ViabilityRequest) error {
	r.put(request)
	return nil
}

func (r *fakeViabilityRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ViabilityRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range specs {
		if byID, ok := s.(specification.ByID); ok {
			if req, found := r.requests[byID.ID]; found {
				clone := *req
				return &clone, nil
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *fakeViabilityRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ViabilityRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ViabilityRequest
	for _, req := range r.requests {
		if matches(req, specs) {
			clone := *req
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeViabilityRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r *fakeViabilityRepo) UpdateStatusIf(ctx context.Context, id uuid.UUID, expected lifecycle.Status, fields map[string]interface{}) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, found := r.requests[id]
	if !found || req.Status != expected {
		return false, nil
	}

	if v, ok := fields["status"]; ok {
		req.Status = lifecycle.Status(v.(string))
	}
	if v, ok := fields["auditor_id"]; ok {
		switch val := v.(type) {
		case uuid.UUID:
			req.AuditorId = &val
		case nil:
			req.AuditorId = nil
		}
	}
	if v, ok := fields["resolution"]; ok {
		raw, _ := json.Marshal(v)
		var res entity.Resolution
		if err := json.Unmarshal(raw, &res); err == nil {
			req.Resolution = &res
		}
	}
	if v, ok := fields["updated_at"]; ok {
		req.UpdatedAt = v.(time.Time)
	}
	return true, nil
}

func matches(req *entity.ViabilityRequest, specs []specification.Specification) bool {
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByRequester:
			if req.RequesterId != spec.RequesterID {
				return false
			}
		case specification.ByStatus:
			if req.Status != spec.Status {
				return false
			}
		case specification.ByKind:
			if req.Kind != spec.Kind {
				return false
			}
		}
	}
	return true
}

// fakeUserRepo covers only what the workflow tests touch.
type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[uuid.UUID]*entity.User
	tokens map[string]*entity.PasswordResetToken
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  make(map[uuid.UUID]*entity.User),
		tokens: make(map[string]*entity.PasswordResetToken),
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *user
	r.users[user.Id] = &clone
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	return r.Create(ctx, user)
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByID:
			if u, found := r.users[spec.ID]; found {
				clone := *u
				return &clone, nil
			}
			return nil, nil
		case specification.ByEmail:
			for _, u := range r.users {
				if u.Email == spec.Email {
					clone := *u
					return &clone, nil
				}
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.User
	for _, u := range r.users {
		keep := true
		for _, s := range specs {
			if byRole, ok := s.(specification.ByRole); ok && string(u.Role) != byRole.Role {
				keep = false
			}
		}
		if keep {
			clone := *u
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) CreatePasswordResetToken(ctx context.Context, token *entity.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *token
	r.tokens[token.Token] = &clone
	return nil
}

func (r *fakeUserRepo) FindPasswordResetToken(ctx context.Context, token string) (*entity.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, found := r.tokens[token]; found {
		clone := *t
		return &clone, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) MarkPasswordResetTokenUsed(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.Id == id {
			t.Used = true
		}
	}
	return nil
}

// fakeUnitOfWork hands out the fakes; transactions are no-ops.
type fakeUnitOfWork struct {
	viability contract.ViabilityRequestRepository
	users     contract.UserRepository
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository {
	return u.users
}

func (u *fakeUnitOfWork) ViabilityRequestRepository() contract.ViabilityRequestRepository {
	return u.viability
}

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

// fakeInventory serves a fixed snapshot per kind and counts refreshes.
type fakeInventory struct {
	snapshots map[string]*inventory.Snapshot
	refreshes int
}

func (f *fakeInventory) Snapshot(ctx context.Context, kind string) (*inventory.Snapshot, error) {
	return f.snapshots[kind], nil
}

func (f *fakeInventory) Refresh(ctx context.Context, kind string) (*inventory.Snapshot, error) {
	f.refreshes++
	return f.snapshots[kind], nil
}

func (f *fakeInventory) Kinds() []string {
	kinds := make([]string, 0, len(f.snapshots))
	for k := range f.snapshots {
		kinds = append(kinds, k)
	}
	return kinds
}

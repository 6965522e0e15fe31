package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/huntboard/huntboard/internal/platform/httpx"
)

// Service handles job business logic.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a new job owned by the caller.
func (s *Service) Create(ctx context.Context, ownerID int64, req CreateJobRequest) (*Job, error) {
	status := req.Status
	if status == "" {
		status = StatusActive
	}
	job := Job{
		Company:   req.Company,
		Position:  req.Position,
		Status:    status,
		Salary:    req.Salary,
		CreatedBy: ownerID,
	}
	created, err := s.repo.Create(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return created, nil
}

// Get returns a job owned by the caller.
func (s *Service) Get(ctx context.Context, id, ownerID int64) (*Job, error) {
	job, err := s.repo.Get(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, fmt.Errorf("%w: job not found", httpx.ErrNotFound)
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// List returns the caller's jobs matching the filters.
func (s *Service) List(ctx context.Context, ownerID int64, req ListJobsRequest) ([]Job, error) {
	return s.repo.List(ctx, ownerID, req)
}

// Update applies the provided fields to a job owned by the caller.
func (s *Service) Update(ctx context.Context, id, ownerID int64, req UpdateJobRequest) (*Job, error) {
	updates := make(map[string]any)
	if req.Company != nil {
		updates["company"] = *req.Company
	}
	if req.Position != nil {
		updates["position"] = *req.Position
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Salary != nil {
		updates["salary"] = *req.Salary
	}
	if len(updates) == 0 {
		return s.Get(ctx, id, ownerID)
	}

	job, err := s.repo.Update(ctx, id, ownerID, updates)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, fmt.Errorf("%w: job not found", httpx.ErrNotFound)
		}
		return nil, fmt.Errorf("update job: %w", err)
	}
	return job, nil
}

// Delete removes a job owned by the caller.
func (s *Service) Delete(ctx context.Context, id, ownerID int64) error {
	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return fmt.Errorf("%w: job not found", httpx.ErrNotFound)
		}
		return fmt.Errorf("delete job: %w", err)
	}
	return nil
}

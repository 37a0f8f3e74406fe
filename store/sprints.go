package store

import (
	"context"
	"time"

	"github.com/teamplane/teamplane/internal/ident"
)

// ListSprints returns every sprint in the domain, ordered by creation time.
func (s *Store) ListSprints(ctx context.Context, domain string) ([]Sprint, error) {
	recs, err := listRecords[Sprint](ctx, s, domain, EntitySprint)
	if err != nil {
		return nil, err
	}
	sprints := make([]Sprint, 0, len(recs))
	for _, rec := range recs {
		sprints = append(sprints, rec.Data)
	}
	return sprints, nil
}

// GetSprint returns the sprint, or (nil, nil) when it does not exist.
func (s *Store) GetSprint(ctx context.Context, domain, id string) (*Sprint, error) {
	rec, err := getRecord[Sprint](ctx, s, domain, EntitySprint, id)
	if err != nil || rec == nil {
		return nil, err
	}
	sprint := rec.Data
	return &sprint, nil
}

// CreateSprint creates a sprint with a generated id. Task ids are stored as
// given; membership of deleted tasks is not cleaned up later.
func (s *Store) CreateSprint(ctx context.Context, domain string, in CreateSprintInput, actor string) (*Sprint, error) {
	now := time.Now()
	ts := stamp(now)

	taskIDs := in.TaskIDs
	if taskIDs == nil {
		taskIDs = []string{}
	}

	sprint := Sprint{
		ID:        ident.NewAt("sprint", now),
		Name:      in.Name,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		TaskIDs:   taskIDs,
		Domain:    domain,
		CreatedAt: ts,
		UpdatedAt: ts,
		CreatedBy: actor,
	}

	rec := entityRecord(domain, EntitySprint, sprint.ID, ts, ts, sprint)
	if err := putNew(ctx, s, rec); err != nil {
		return nil, err
	}
	return &sprint, nil
}

// UpdateSprint shallow-merges patch over the stored sprint. id and domain
// are re-pinned; createdAt is preserved. A patched taskIds replaces the
// stored list wholesale.
func (s *Store) UpdateSprint(ctx context.Context, domain, id string, patch SprintPatch, actor string) (*Sprint, error) {
	rec, err := getRecord[Sprint](ctx, s, domain, EntitySprint, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}

	prev := rec.Data
	next := prev

	if patch.Name != nil {
		next.Name = *patch.Name
	}
	if patch.StartDate != nil {
		next.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		next.EndDate = *patch.EndDate
	}
	if patch.TaskIDs != nil {
		next.TaskIDs = patch.TaskIDs
	}

	next.ID = prev.ID
	next.Domain = prev.Domain
	next.CreatedAt = prev.CreatedAt
	next.CreatedBy = prev.CreatedBy
	next.UpdatedAt = stamp(time.Now())

	newRec := entityRecord(domain, EntitySprint, id, rec.CreatedAt, next.UpdatedAt, next)
	if err := putVersioned(ctx, s, newRec, rec.Version); err != nil {
		return nil, err
	}
	return &next, nil
}

// DeleteSprint removes the sprint. Missing sprints are a no-op.
func (s *Store) DeleteSprint(ctx context.Context, domain, id string) error {
	return deleteRecord(ctx, s, domain, EntitySprint, id)
}

package store

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/teamplane/teamplane/internal/ident"
)

// ListTasks returns every task in the domain, ordered by creation time.
func (s *Store) ListTasks(ctx context.Context, domain string) ([]Task, error) {
	recs, err := listRecords[Task](ctx, s, domain, EntityTask)
	if err != nil {
		return nil, err
	}
	tasks := make([]Task, 0, len(recs))
	for _, rec := range recs {
		tasks = append(tasks, rec.Data)
	}
	return tasks, nil
}

// GetTask returns the task, or (nil, nil) when it does not exist.
func (s *Store) GetTask(ctx context.Context, domain, id string) (*Task, error) {
	rec, err := getRecord[Task](ctx, s, domain, EntityTask, id)
	if err != nil || rec == nil {
		return nil, err
	}
	task := rec.Data
	return &task, nil
}

// CreateTask creates a task with a generated id and a seed "created"
// activity authored by the actor. Status defaults to backlog.
func (s *Store) CreateTask(ctx context.Context, domain string, in CreateTaskInput, actor string) (*Task, error) {
	now := time.Now()
	ts := stamp(now)

	status := in.Status
	if status == "" {
		status = TaskStatusBacklog
	}

	id := ident.NewAt("task", now)
	task := Task{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		Activities: []Activity{{
			ID:        ident.ForActivity(id, now),
			Type:      ActivityCreated,
			Text:      "Task created",
			Author:    actor,
			Timestamp: ts,
		}},
		HoursExpected: in.HoursExpected,
		AssignedTo:    in.AssignedTo,
		LinkedTasks:   []string{},
		DueDate:       in.DueDate,
		StartDate:     in.StartDate,
		Domain:        domain,
		CreatedAt:     ts,
		UpdatedAt:     ts,
		CreatedBy:     actor,
	}

	rec := entityRecord(domain, EntityTask, task.ID, ts, ts, task)
	if err := putNew(ctx, s, rec); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask shallow-merges patch over the stored task and writes it back.
// id and domain are re-pinned to the stored values regardless of the patch,
// and createdAt is preserved so the task keeps its GSI1 sort position.
// Changes to status, assignedTo, hoursSpent and hoursExpected each append
// one activity describing the diff against the stored value; a patched
// field equal to the stored value appends nothing.
func (s *Store) UpdateTask(ctx context.Context, domain, id string, patch TaskPatch, actor string) (*Task, error) {
	rec, err := getRecord[Task](ctx, s, domain, EntityTask, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}

	now := time.Now()
	prev := rec.Data
	next := prev

	if patch.Title != nil {
		next.Title = *patch.Title
	}
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	if patch.Status != nil {
		next.Status = *patch.Status
	}
	if patch.HoursSpent != nil {
		next.HoursSpent = *patch.HoursSpent
	}
	if patch.HoursExpected != nil {
		next.HoursExpected = *patch.HoursExpected
	}
	if patch.AssignedTo != nil {
		next.AssignedTo = *patch.AssignedTo
	}
	if patch.LinkedTasks != nil {
		next.LinkedTasks = patch.LinkedTasks
	}
	if patch.DueDate != nil {
		next.DueDate = *patch.DueDate
	}
	if patch.StartDate != nil {
		next.StartDate = *patch.StartDate
	}

	// id and domain are immutable after creation.
	next.ID = prev.ID
	next.Domain = prev.Domain
	next.CreatedAt = prev.CreatedAt
	next.CreatedBy = prev.CreatedBy
	next.UpdatedAt = stamp(now)
	next.Activities = append(slices.Clip(prev.Activities), taskChangeActivities(prev, patch, actor, now)...)

	newRec := entityRecord(domain, EntityTask, id, rec.CreatedAt, next.UpdatedAt, next)
	if err := putVersioned(ctx, s, newRec, rec.Version); err != nil {
		return nil, err
	}
	return &next, nil
}

// DeleteTask removes the task. Missing tasks are a no-op.
func (s *Store) DeleteTask(ctx context.Context, domain, id string) error {
	return deleteRecord(ctx, s, domain, EntityTask, id)
}

// AddActivity appends one activity to the task's log, assigning it an id
// and timestamp, and returns the updated task. This is the sole mutation
// path of the append-only log.
func (s *Store) AddActivity(ctx context.Context, domain, taskID string, activity Activity) (*Task, error) {
	rec, err := getRecord[Task](ctx, s, domain, EntityTask, taskID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}

	now := time.Now()
	activity.ID = ident.ForActivity(taskID, now)
	activity.Timestamp = stamp(now)

	task := rec.Data
	task.Activities = append(slices.Clip(task.Activities), activity)
	task.UpdatedAt = stamp(now)

	newRec := entityRecord(domain, EntityTask, taskID, rec.CreatedAt, task.UpdatedAt, task)
	if err := putVersioned(ctx, s, newRec, rec.Version); err != nil {
		return nil, err
	}
	return &task, nil
}

// LinkTasks records a link from taskID to otherID and logs it. Two
// sequential writes (update, then activity append); not atomic.
func (s *Store) LinkTasks(ctx context.Context, domain, taskID, otherID, actor string) (*Task, error) {
	other, err := s.GetTask(ctx, domain, otherID)
	if err != nil {
		return nil, err
	}
	if other == nil {
		return nil, ErrNotFound
	}
	task, err := s.GetTask(ctx, domain, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrNotFound
	}

	linked := slices.Clone(task.LinkedTasks)
	if !slices.Contains(linked, otherID) {
		linked = append(linked, otherID)
	}
	if _, err := s.UpdateTask(ctx, domain, taskID, TaskPatch{LinkedTasks: linked}, actor); err != nil {
		return nil, err
	}

	return s.AddActivity(ctx, domain, taskID, Activity{
		Type:   ActivityAssignment,
		Text:   fmt.Sprintf("Linked task %q", other.Title),
		Author: actor,
		Metadata: &ActivityMetadata{
			FieldName: "linkedTasks",
			NewValue:  otherID,
		},
	})
}

// UnlinkTasks removes the link from taskID to otherID and logs it. Like
// LinkTasks, two sequential writes.
func (s *Store) UnlinkTasks(ctx context.Context, domain, taskID, otherID, actor string) (*Task, error) {
	other, err := s.GetTask(ctx, domain, otherID)
	if err != nil {
		return nil, err
	}
	if other == nil {
		return nil, ErrNotFound
	}
	task, err := s.GetTask(ctx, domain, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrNotFound
	}

	linked := make([]string, 0, len(task.LinkedTasks))
	for _, id := range task.LinkedTasks {
		if id != otherID {
			linked = append(linked, id)
		}
	}
	if _, err := s.UpdateTask(ctx, domain, taskID, TaskPatch{LinkedTasks: linked}, actor); err != nil {
		return nil, err
	}

	return s.AddActivity(ctx, domain, taskID, Activity{
		Type:   ActivityAssignment,
		Text:   fmt.Sprintf("Unlinked task %q", other.Title),
		Author: actor,
		Metadata: &ActivityMetadata{
			FieldName: "linkedTasks",
			OldValue:  otherID,
		},
	})
}

// taskChangeActivities derives the activities recorded by an update. Each
// tracked field present in the patch with a value different from the stored
// one yields exactly one activity; equal values yield none. Comparison is
// always against prev, the stored state.
func taskChangeActivities(prev Task, patch TaskPatch, actor string, now time.Time) []Activity {
	ts := stamp(now)
	var acts []Activity

	add := func(typ, text, field, oldValue, newValue string) {
		acts = append(acts, Activity{
			ID:        ident.ForActivity(prev.ID, now),
			Type:      typ,
			Text:      text,
			Author:    actor,
			Timestamp: ts,
			Metadata: &ActivityMetadata{
				OldValue:  oldValue,
				NewValue:  newValue,
				FieldName: field,
			},
		})
	}

	if patch.Status != nil && *patch.Status != prev.Status {
		add(ActivityStatusChange,
			fmt.Sprintf("Status changed from %q to %q", prev.Status, *patch.Status),
			"status", prev.Status, *patch.Status)
	}
	if patch.AssignedTo != nil && *patch.AssignedTo != prev.AssignedTo {
		text := fmt.Sprintf("Assigned to %s", *patch.AssignedTo)
		if *patch.AssignedTo == "" {
			text = "Unassigned"
		}
		add(ActivityAssignment, text, "assignedTo", prev.AssignedTo, *patch.AssignedTo)
	}
	if patch.HoursSpent != nil && *patch.HoursSpent != prev.HoursSpent {
		add(ActivityHoursUpdate,
			fmt.Sprintf("Hours spent changed from %s to %s", formatHours(prev.HoursSpent), formatHours(*patch.HoursSpent)),
			"hoursSpent", formatHours(prev.HoursSpent), formatHours(*patch.HoursSpent))
	}
	if patch.HoursExpected != nil && *patch.HoursExpected != prev.HoursExpected {
		add(ActivityHoursUpdate,
			fmt.Sprintf("Hours expected changed from %s to %s", formatHours(prev.HoursExpected), formatHours(*patch.HoursExpected)),
			"hoursExpected", formatHours(prev.HoursExpected), formatHours(*patch.HoursExpected))
	}

	return acts
}

func formatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

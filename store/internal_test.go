package store

import (
	"testing"
	"time"
)

func strp(s string) *string   { return &s }
func f64p(f float64) *float64 { return &f }

func TestTaskChangeActivities(t *testing.T) {
	now := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	prev := Task{
		ID:            "task-1",
		Status:        TaskStatusBacklog,
		AssignedTo:    "Alice",
		HoursSpent:    2,
		HoursExpected: 8,
	}

	tests := []struct {
		name      string
		patch     TaskPatch
		wantTypes []string
		wantField string
		wantOld   string
		wantNew   string
	}{
		{
			name:      "status change",
			patch:     TaskPatch{Status: strp(TaskStatusInProgress)},
			wantTypes: []string{ActivityStatusChange},
			wantField: "status",
			wantOld:   "backlog",
			wantNew:   "in-progress",
		},
		{
			name:      "status unchanged",
			patch:     TaskPatch{Status: strp(TaskStatusBacklog)},
			wantTypes: nil,
		},
		{
			name:      "status absent",
			patch:     TaskPatch{Title: strp("Renamed")},
			wantTypes: nil,
		},
		{
			name:      "reassignment",
			patch:     TaskPatch{AssignedTo: strp("Bob")},
			wantTypes: []string{ActivityAssignment},
			wantField: "assignedTo",
			wantOld:   "Alice",
			wantNew:   "Bob",
		},
		{
			name:      "unassignment",
			patch:     TaskPatch{AssignedTo: strp("")},
			wantTypes: []string{ActivityAssignment},
			wantField: "assignedTo",
			wantOld:   "Alice",
			wantNew:   "",
		},
		{
			name:      "hours spent",
			patch:     TaskPatch{HoursSpent: f64p(3.5)},
			wantTypes: []string{ActivityHoursUpdate},
			wantField: "hoursSpent",
			wantOld:   "2",
			wantNew:   "3.5",
		},
		{
			name:      "hours expected unchanged",
			patch:     TaskPatch{HoursExpected: f64p(8)},
			wantTypes: nil,
		},
		{
			name: "all fields at once",
			patch: TaskPatch{
				Status:        strp(TaskStatusCompleted),
				AssignedTo:    strp("Bob"),
				HoursSpent:    f64p(10),
				HoursExpected: f64p(12),
			},
			wantTypes: []string{ActivityStatusChange, ActivityAssignment, ActivityHoursUpdate, ActivityHoursUpdate},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acts := taskChangeActivities(prev, tt.patch, "Carol", now)
			if len(acts) != len(tt.wantTypes) {
				t.Fatalf("got %d activities, want %d", len(acts), len(tt.wantTypes))
			}
			for i, typ := range tt.wantTypes {
				if acts[i].Type != typ {
					t.Errorf("activity %d type = %q, want %q", i, acts[i].Type, typ)
				}
				if acts[i].Author != "Carol" {
					t.Errorf("activity %d author = %q, want Carol", i, acts[i].Author)
				}
				if acts[i].Metadata == nil {
					t.Fatalf("activity %d metadata missing", i)
				}
			}
			if len(acts) == 1 {
				md := acts[0].Metadata
				if md.FieldName != tt.wantField || md.OldValue != tt.wantOld || md.NewValue != tt.wantNew {
					t.Errorf("metadata = %+v, want {%s %s %s}", *md, tt.wantOld, tt.wantNew, tt.wantField)
				}
			}
		})
	}
}

func TestNormalizeTicket(t *testing.T) {
	legacy := normalizeTicket(Ticket{ID: "ticket-1"})
	if legacy.Type != TicketTypeFeature {
		t.Errorf("type = %q, want feature", legacy.Type)
	}

	bug := normalizeTicket(Ticket{ID: "ticket-2", Type: TicketTypeBug})
	if bug.Type != TicketTypeBug {
		t.Errorf("type = %q, want bug preserved", bug.Type)
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{8, "8"},
		{3.5, "3.5"},
		{0.25, "0.25"},
	}
	for _, tt := range tests {
		if got := formatHours(tt.in); got != tt.want {
			t.Errorf("formatHours(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStamp(t *testing.T) {
	ts := stamp(time.Date(2026, 8, 24, 10, 30, 45, 123_000_000, time.UTC))
	if ts != "2026-08-24T10:30:45.123Z" {
		t.Errorf("stamp = %q", ts)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("TABLE_NAME", "")
	if _, err := ConfigFromEnv(); err == nil {
		t.Error("expected error for missing TABLE_NAME")
	}

	t.Setenv("TABLE_NAME", "teamplane")
	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}
	if cfg.TableName != "teamplane" {
		t.Errorf("table = %q", cfg.TableName)
	}
	if cfg.GSI1Name != "GSI1" || cfg.GSI2Name != "GSI2" {
		t.Errorf("index defaults = %q, %q", cfg.GSI1Name, cfg.GSI2Name)
	}
}

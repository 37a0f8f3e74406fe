package store

// Task statuses.
const (
	TaskStatusBacklog    = "backlog"
	TaskStatusInProgress = "in-progress"
	TaskStatusCompleted  = "completed"
)

// Ticket statuses.
const (
	TicketStatusNew        = "new"
	TicketStatusInProgress = "in-progress"
	TicketStatusDone       = "done"
)

// Ticket types.
const (
	TicketTypeBug     = "bug"
	TicketTypeFeature = "feature"
)

// User roles.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Activity types.
const (
	ActivityCreated      = "created"
	ActivityComment      = "comment"
	ActivityStatusChange = "status_change"
	ActivityAssignment   = "assignment"
	ActivityHoursUpdate  = "hours_update"
)

// ActivityMetadata captures the field diff behind a change activity.
type ActivityMetadata struct {
	OldValue  string `json:"oldValue" dynamodbav:"oldValue"`
	NewValue  string `json:"newValue" dynamodbav:"newValue"`
	FieldName string `json:"fieldName" dynamodbav:"fieldName"`
}

// Activity is one entry in a task's append-only log. Activities are owned
// by their task and are never addressable on their own.
type Activity struct {
	ID        string            `json:"id" dynamodbav:"id"`
	Type      string            `json:"type" dynamodbav:"type"`
	Text      string            `json:"text" dynamodbav:"text"`
	Author    string            `json:"author" dynamodbav:"author"`
	Timestamp string            `json:"timestamp" dynamodbav:"timestamp"`
	Metadata  *ActivityMetadata `json:"metadata,omitempty" dynamodbav:"metadata,omitempty"`
}

// Task is a work item on a workspace board.
type Task struct {
	ID            string     `json:"id" dynamodbav:"id"`
	Title         string     `json:"title" dynamodbav:"title"`
	Description   string     `json:"description" dynamodbav:"description"`
	Status        string     `json:"status" dynamodbav:"status"`
	Activities    []Activity `json:"activities" dynamodbav:"activities"`
	HoursSpent    float64    `json:"hoursSpent" dynamodbav:"hoursSpent"`
	HoursExpected float64    `json:"hoursExpected" dynamodbav:"hoursExpected"`
	AssignedTo    string     `json:"assignedTo" dynamodbav:"assignedTo"`
	LinkedTasks   []string   `json:"linkedTasks" dynamodbav:"linkedTasks"`
	DueDate       string     `json:"dueDate,omitempty" dynamodbav:"dueDate,omitempty"`
	StartDate     string     `json:"startDate,omitempty" dynamodbav:"startDate,omitempty"`
	Domain        string     `json:"domain" dynamodbav:"domain"`
	CreatedAt     string     `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt     string     `json:"updatedAt" dynamodbav:"updatedAt"`
	CreatedBy     string     `json:"createdBy" dynamodbav:"createdBy"`
}

// Ticket is a bug or feature request.
type Ticket struct {
	ID          string `json:"id" dynamodbav:"id"`
	Title       string `json:"title" dynamodbav:"title"`
	Description string `json:"description" dynamodbav:"description"`
	Status      string `json:"status" dynamodbav:"status"`
	Type        string `json:"type" dynamodbav:"type"`
	AssignedTo  string `json:"assignedTo,omitempty" dynamodbav:"assignedTo,omitempty"`
	Domain      string `json:"domain" dynamodbav:"domain"`
	CreatedAt   string `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt   string `json:"updatedAt" dynamodbav:"updatedAt"`
	CreatedBy   string `json:"createdBy" dynamodbav:"createdBy"`
}

// UserProfile is a workspace member. Email is stored lowercased and is
// unique within a domain (checked at create time, not enforced by the table).
type UserProfile struct {
	UserID    string `json:"userId" dynamodbav:"userId"`
	Email     string `json:"email" dynamodbav:"email"`
	Name      string `json:"name" dynamodbav:"name"`
	Domain    string `json:"domain" dynamodbav:"domain"`
	Role      string `json:"role" dynamodbav:"role"`
	CreatedAt string `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt string `json:"updatedAt" dynamodbav:"updatedAt"`
}

// Sprint is a time-boxed grouping of tasks.
type Sprint struct {
	ID        string   `json:"id" dynamodbav:"id"`
	Name      string   `json:"name" dynamodbav:"name"`
	StartDate string   `json:"startDate" dynamodbav:"startDate"`
	EndDate   string   `json:"endDate" dynamodbav:"endDate"`
	TaskIDs   []string `json:"taskIds" dynamodbav:"taskIds"`
	Domain    string   `json:"domain" dynamodbav:"domain"`
	CreatedAt string   `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt string   `json:"updatedAt" dynamodbav:"updatedAt"`
	CreatedBy string   `json:"createdBy" dynamodbav:"createdBy"`
}

// DomainExport is the result of listing every entity of a domain via GSI2.
type DomainExport struct {
	Tasks   []Task        `json:"tasks"`
	Tickets []Ticket      `json:"tickets"`
	Users   []UserProfile `json:"users"`
	Sprints []Sprint      `json:"sprints"`
}

// CreateTaskInput carries the caller-settable fields of a new task.
type CreateTaskInput struct {
	Title         string
	Description   string
	Status        string
	HoursExpected float64
	AssignedTo    string
	DueDate       string
	StartDate     string
}

// TaskPatch is a shallow-merge update: nil fields are left untouched,
// non-nil fields replace the stored value wholesale. ID and Domain are
// accepted but always re-pinned to the stored values.
type TaskPatch struct {
	ID            *string
	Domain        *string
	Title         *string
	Description   *string
	Status        *string
	HoursSpent    *float64
	HoursExpected *float64
	AssignedTo    *string
	LinkedTasks   []string
	DueDate       *string
	StartDate     *string
}

// CreateTicketInput carries the caller-settable fields of a new ticket.
type CreateTicketInput struct {
	Title       string
	Description string
	Status      string
	Type        string
	AssignedTo  string
}

// TicketPatch is a shallow-merge update for tickets.
type TicketPatch struct {
	ID          *string
	Domain      *string
	Title       *string
	Description *string
	Status      *string
	Type        *string
	AssignedTo  *string
}

// CreateUserInput carries the caller-settable fields of a new user profile.
// UserID usually comes from the identity provider; when empty, an id is
// generated.
type CreateUserInput struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

// UserPatch is a shallow-merge update for user profiles.
type UserPatch struct {
	UserID *string
	Domain *string
	Email  *string
	Name   *string
	Role   *string
}

// CreateSprintInput carries the caller-settable fields of a new sprint.
type CreateSprintInput struct {
	Name      string
	StartDate string
	EndDate   string
	TaskIDs   []string
}

// SprintPatch is a shallow-merge update for sprints.
type SprintPatch struct {
	ID        *string
	Domain    *string
	Name      *string
	StartDate *string
	EndDate   *string
	TaskIDs   []string
}

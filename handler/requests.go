package handler

// Request bodies. Create requests carry the fields settable at creation;
// update requests use pointer fields so absent keys are distinguishable
// from zero values, matching the store's shallow-merge patches.

type createTaskRequest struct {
	Title         string  `json:"title" validate:"required"`
	Description   string  `json:"description"`
	Status        string  `json:"status" validate:"omitempty,oneof=backlog in-progress completed"`
	HoursExpected float64 `json:"hoursExpected" validate:"omitempty,gte=0"`
	AssignedTo    string  `json:"assignedTo"`
	DueDate       string  `json:"dueDate"`
	StartDate     string  `json:"startDate"`
}

type updateTaskRequest struct {
	Title         *string  `json:"title" validate:"omitempty,min=1"`
	Description   *string  `json:"description"`
	Status        *string  `json:"status" validate:"omitempty,oneof=backlog in-progress completed"`
	HoursSpent    *float64 `json:"hoursSpent" validate:"omitempty,gte=0"`
	HoursExpected *float64 `json:"hoursExpected" validate:"omitempty,gte=0"`
	AssignedTo    *string  `json:"assignedTo"`
	LinkedTasks   []string `json:"linkedTasks"`
	DueDate       *string  `json:"dueDate"`
	StartDate     *string  `json:"startDate"`
}

type addCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

type linkTaskRequest struct {
	TaskID string `json:"taskId" validate:"required"`
}

type createTicketRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Status      string `json:"status" validate:"omitempty,oneof=new in-progress done"`
	Type        string `json:"type" validate:"omitempty,oneof=bug feature"`
	AssignedTo  string `json:"assignedTo"`
}

type updateTicketRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	Status      *string `json:"status" validate:"omitempty,oneof=new in-progress done"`
	Type        *string `json:"type" validate:"omitempty,oneof=bug feature"`
	AssignedTo  *string `json:"assignedTo"`
}

type createUserRequest struct {
	UserID string `json:"userId"`
	Email  string `json:"email" validate:"required,email"`
	Name   string `json:"name" validate:"required"`
	Role   string `json:"role" validate:"omitempty,oneof=admin member"`
}

type updateUserRequest struct {
	Email *string `json:"email" validate:"omitempty,email"`
	Name  *string `json:"name" validate:"omitempty,min=1"`
	Role  *string `json:"role" validate:"omitempty,oneof=admin member"`
}

type createSprintRequest struct {
	Name      string   `json:"name" validate:"required"`
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate"`
	TaskIDs   []string `json:"taskIds"`
}

type updateSprintRequest struct {
	Name      *string  `json:"name" validate:"omitempty,min=1"`
	StartDate *string  `json:"startDate"`
	EndDate   *string  `json:"endDate"`
	TaskIDs   []string `json:"taskIds"`
}

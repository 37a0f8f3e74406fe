// Package handler exposes the store through API-Gateway-routed Lambda
// requests. It owns the boundary concerns the store does not: identity
// claim extraction, request validation, and response envelopes.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-playground/validator/v10"

	"github.com/teamplane/teamplane/store"
)

// Handler routes API Gateway proxy requests to store operations.
type Handler struct {
	store    *store.Store
	logger   *slog.Logger
	validate *validator.Validate
}

// New creates a new Handler.
func New(s *store.Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:    s,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// HandleRequest dispatches one API Gateway request. It is designed to be
// passed to lambda.Start.
func (h *Handler) HandleRequest(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	id, err := identityFromRequest(req)
	if err != nil {
		h.logger.Warn("request without usable claims", "resource", req.Resource, "error", err)
		return errorBody(http.StatusUnauthorized, "unauthorized"), nil
	}

	h.logger.Info("handling request",
		"method", req.HTTPMethod,
		"resource", req.Resource,
		"domain", id.domain,
	)

	resp, err := h.route(ctx, req, id)
	if err != nil {
		return h.errorResponse(req, err), nil
	}
	return resp, nil
}

func (h *Handler) route(ctx context.Context, req events.APIGatewayProxyRequest, id identity) (events.APIGatewayProxyResponse, error) {
	entityID := req.PathParameters["id"]

	switch req.Resource {
	case "/tasks":
		switch req.HTTPMethod {
		case http.MethodGet:
			return h.listTasks(ctx, id)
		case http.MethodPost:
			return h.createTask(ctx, req, id)
		}
	case "/tasks/{id}":
		switch req.HTTPMethod {
		case http.MethodGet:
			return h.getTask(ctx, id, entityID)
		case http.MethodPut:
			return h.updateTask(ctx, req, id, entityID)
		case http.MethodDelete:
			return h.deleteTask(ctx, id, entityID)
		}
	case "/tasks/{id}/activities":
		if req.HTTPMethod == http.MethodPost {
			return h.addComment(ctx, req, id, entityID)
		}
	case "/tasks/{id}/link":
		if req.HTTPMethod == http.MethodPost {
			return h.linkTasks(ctx, req, id, entityID, true)
		}
	case "/tasks/{id}/unlink":
		if req.HTTPMethod == http.MethodPost {
			return h.linkTasks(ctx, req, id, entityID, false)
		}
	case "/tickets":
		switch req.HTTPMethod {
		case http.MethodGet:
			return h.listTickets(ctx, id)
		case http.MethodPost:
			return h.createTicket(ctx, req, id)
		}
	case "/tickets/{id}":
		switch req.HTTPMethod {
		case http.MethodGet:
			return h.getTicket(ctx, id, entityID)
		case http.MethodPut:
			return h.updateTicket(ctx, req, id, entityID)
		case http.MethodDelete:
			return h.deleteTicket(ctx, id, entityID)
		}
	case "/users":
		switch req.HTTPMethod {
		case http.MethodGet:
			return h.listUsers(ctx, id)
		case http.MethodPost:
			return h.createUser(ctx, req, id)
		}
	case "/users/{id}":
		switch req.HTTPMethod {
		case http.MethodGet:
			return h.getUser(ctx, id, entityID)
		case http.MethodPut:
			return h.updateUser(ctx, req, id, entityID)
		case http.MethodDelete:
			return h.deleteUser(ctx, id, entityID)
		}
	case "/sprints":
		switch req.HTTPMethod {
		case http.MethodGet:
			return h.listSprints(ctx, id)
		case http.MethodPost:
			return h.createSprint(ctx, req, id)
		}
	case "/sprints/{id}":
		switch req.HTTPMethod {
		case http.MethodGet:
			return h.getSprint(ctx, id, entityID)
		case http.MethodPut:
			return h.updateSprint(ctx, req, id, entityID)
		case http.MethodDelete:
			return h.deleteSprint(ctx, id, entityID)
		}
	case "/export":
		if req.HTTPMethod == http.MethodGet {
			return h.exportDomain(ctx, id)
		}
	}

	return errorBody(http.StatusNotFound, "route not found"), nil
}

// --- Tasks ---

func (h *Handler) listTasks(ctx context.Context, id identity) (events.APIGatewayProxyResponse, error) {
	tasks, err := h.store.ListTasks(ctx, id.domain)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return respond(http.StatusOK, map[string]any{"tasks": tasks})
}

func (h *Handler) getTask(ctx context.Context, id identity, taskID string) (events.APIGatewayProxyResponse, error) {
	task, err := h.store.GetTask(ctx, id.domain, taskID)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	if task == nil {
		return errorBody(http.StatusNotFound, "task not found"), nil
	}
	return respond(http.StatusOK, map[string]any{"task": task})
}

func (h *Handler) createTask(ctx context.Context, req events.APIGatewayProxyRequest, id identity) (events.APIGatewayProxyResponse, error) {
	var body createTaskRequest
	if err := h.decode(req, &body); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	task, err := h.store.CreateTask(ctx, id.domain, store.CreateTaskInput{
		Title:         body.Title,
		Description:   body.Description,
		Status:        body.Status,
		HoursExpected: body.HoursExpected,
		AssignedTo:    body.AssignedTo,
		DueDate:       body.DueDate,
		StartDate:     body.StartDate,
	}, id.actor)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return respond(http.StatusCreated, map[string]any{"task": task})
}

func (h *Handler) updateTask(ctx context.Context, req events.APIGatewayProxyRequest, id identity, taskID string) (events.APIGatewayProxyResponse, error) {
	var body updateTaskRequest
	if err := h.decode(req, &body); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	task, err := h.store.UpdateTask(ctx, id.domain, taskID, store.TaskPatch{
		Title:         body.Title,
		Description:   body.Description,
		Status:        body.Status,
		HoursSpent:    body.HoursSpent,
		HoursExpected: body.HoursExpected,
		AssignedTo:    body.AssignedTo,
		LinkedTasks:   body.LinkedTasks,
		DueDate:       body.DueDate,
		StartDate:     body.StartDate,
	}, id.actor)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return respond(http.StatusOK, map[string]any{"task": task})
}

func (h *Handler) deleteTask(ctx context.Context, id identity, taskID string) (events.APIGatewayProxyResponse, error) {
	if err := h.store.DeleteTask(ctx, id.domain, taskID); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return respond(http.StatusNoContent, nil)
}

func (h *Handler) addComment(ctx context.Context, req events.APIGatewayProxyRequest, id identity, taskID string) (events.APIGatewayProxyResponse, error) {
	var body addCommentRequest
	if err := h.decode(req, &body); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	task, err := h.store.AddActivity(ctx, id.domain, taskID, store.Activity{
		Type:   store.ActivityComment,
		Text:   body.Text,
		Author: id.actor,
	})
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return respond(http.StatusOK, map[string]any{"task": task})
}

func (h *Handler) linkTasks(ctx context.Context, req events.APIGatewayProxyRequest, id identity, taskID string, link bool) (events.APIGatewayProxyResponse, error) {
	var body linkTaskRequest
	if err := h.decode(req, &body); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	var task *store.Task
	var err error
	if link {
		task, err = h.store.LinkTasks(ctx, id.domain, taskID, body.TaskID, id.actor)
	} else {
		task, err = h.store.UnlinkTasks(ctx, id.domain, taskID, body.TaskID, id.actor)
	}
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return respond(http.StatusOK, map[string]any{"task": task})
}

// --- Tickets ---

func (h *Handler) listTickets(ctx context.Context, id identity) (events.APIGatewayProxyResponse, error) {
	tickets, err := h.store.ListTickets(ctx, id.domain)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return respond(http.StatusOK, map[string]any{"tickets": tickets})
}

func (h *Handler) getTicket(ctx context.Context, id identity, ticketID string) (events.APIGatewayProxyResponse, error) {
	ticket, err := h.store.GetTicket(ctx, id.domain, ticketID)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	if ticket == nil {
		return errorBody(http.StatusNotFound, "ticket not found"), nil
	}
	return respond(http.StatusOK, map[string]any{"ticket": ticket})
}

func (h *Handler) createTicket(ctx context.Context, req events.APIGatewayProxyRequest, id identity) (events.APIGatewayProxyResponse, error) {
	var body createTicketRequest
	if err := h.decode(req, &body); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	ticket, err := h.store.CreateTicket(ctx, id.domain, store.CreateTicketInput{
		Title:       body.Title,
		Description: body.Description,
		Status:      body.Status,
		Type:        body.Type,
		AssignedTo:  body.AssignedTo,
	}, id.actor)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return respond(http.StatusCreated, map[string]any{"ticket": ticket})
}

func (h *Handler) updateTicket(ctx context.Context, req events.APIGatewayProxyRequest, id identity, ticketID string) (events.APIGatewayProxyResponse, error) {
	var body updateTicketRequest
	if err := h.decode(req, &body); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	ticket, err := h.store.UpdateTicket(ctx, id.domain, ticketID, store.TicketPatch{
		Title:       body.Title,
		Description: body.Description,
		Status:      body.Status,
		Type:        body.Type,
		AssignedTo:  body.AssignedTo,
	}, id.actor)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return respond(http.StatusOK, map[string]any{"ticket": ticket})
}

func (h *Handler) deleteTicket(ctx context.Context, id identity, ticketID string) (events.APIGatewayProxyResponse, error) {
	if err := h.store.DeleteTicket(ctx, id.domain, ticketID); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return respond(http.StatusNoContent, nil)
}

// --- Users ---

func (h *Handler) listUsers(ctx context.Context, id identity) (events.APIGatewayProxyResponse, error) {
	users, err := h.store.ListUsers(ctx, id.domain)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return respond(http.StatusOK, map[string]any{"users": users})
}

func (h *Handler) getUser(ctx context.Context, id identity, userID string) (events.APIGatewayProxyResponse, error) {
	user, err := h.store.GetUser(ctx, id.domain, userID)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	if user == nil {
		return errorBody(http.StatusNotFound, "user not found"), nil
	}
	return respond(http.StatusOK, map[string]any{"user": user})
}

func (h *Handler) createUser(ctx context.Context, req events.APIGatewayProxyRequest, id identity) (events.APIGatewayProxyResponse, error) {
	var body createUserRequest
	if err := h.decode(req, &body); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	user, err := h.store.CreateUser(ctx, id.domain, store.CreateUserInput{
		UserID: body.UserID,
		Email:  body.Email,
		Name:   body.Name,
		Role:   body.Role,
	})
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return respond(http.StatusCreated, map[string]any{"user": user})
}

func (h *Handler) updateUser(ctx context.Context, req events.APIGatewayProxyRequest, id identity, userID string) (events.APIGatewayProxyResponse, error) {
	var body updateUserRequest
	if err := h.decode(req, &body); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	user, err := h.store.UpdateUser(ctx, id.domain, userID, store.UserPatch{
		Email: body.Email,
		Name:  body.Name,
		Role:  body.Role,
	})
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return respond(http.StatusOK, map[string]any{"user": user})
}

func (h *Handler) deleteUser(ctx context.Context, id identity, userID string) (events.APIGatewayProxyResponse, error) {
	if err := h.store.DeleteUser(ctx, id.domain, userID); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return respond(http.StatusNoContent, nil)
}

// --- Sprints ---

func (h *Handler) listSprints(ctx context.Context, id identity) (events.APIGatewayProxyResponse, error) {
	sprints, err := h.store.ListSprints(ctx, id.domain)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return respond(http.StatusOK, map[string]any{"sprints": sprints})
}

func (h *Handler) getSprint(ctx context.Context, id identity, sprintID string) (events.APIGatewayProxyResponse, error) {
	sprint, err := h.store.GetSprint(ctx, id.domain, sprintID)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	if sprint == nil {
		return errorBody(http.StatusNotFound, "sprint not found"), nil
	}
	return respond(http.StatusOK, map[string]any{"sprint": sprint})
}

func (h *Handler) createSprint(ctx context.Context, req events.APIGatewayProxyRequest, id identity) (events.APIGatewayProxyResponse, error) {
	var body createSprintRequest
	if err := h.decode(req, &body); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	sprint, err := h.store.CreateSprint(ctx, id.domain, store.CreateSprintInput{
		Name:      body.Name,
		StartDate: body.StartDate,
		EndDate:   body.EndDate,
		TaskIDs:   body.TaskIDs,
	}, id.actor)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return respond(http.StatusCreated, map[string]any{"sprint": sprint})
}

func (h *Handler) updateSprint(ctx context.Context, req events.APIGatewayProxyRequest, id identity, sprintID string) (events.APIGatewayProxyResponse, error) {
	var body updateSprintRequest
	if err := h.decode(req, &body); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	sprint, err := h.store.UpdateSprint(ctx, id.domain, sprintID, store.SprintPatch{
		Name:      body.Name,
		StartDate: body.StartDate,
		EndDate:   body.EndDate,
		TaskIDs:   body.TaskIDs,
	}, id.actor)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return respond(http.StatusOK, map[string]any{"sprint": sprint})
}

func (h *Handler) deleteSprint(ctx context.Context, id identity, sprintID string) (events.APIGatewayProxyResponse, error) {
	if err := h.store.DeleteSprint(ctx, id.domain, sprintID); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return respond(http.StatusNoContent, nil)
}

// --- Export ---

func (h *Handler) exportDomain(ctx context.Context, id identity) (events.APIGatewayProxyResponse, error) {
	export, err := h.store.ListAll(ctx, id.domain)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return respond(http.StatusOK, export)
}

// decode unmarshals and validates a request body.
func (h *Handler) decode(req events.APIGatewayProxyRequest, out any) error {
	if err := json.Unmarshal([]byte(req.Body), out); err != nil {
		return &badRequestError{msg: "invalid request body"}
	}
	if err := h.validate.Struct(out); err != nil {
		return &badRequestError{msg: err.Error()}
	}
	return nil
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamplane/teamplane/store"
	"github.com/teamplane/teamplane/store/storetest"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	s := store.New(storetest.New(), store.Config{TableName: "teamplane-test"})
	return New(s, nil)
}

func request(method, resource, body string, pathParams map[string]string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{
		HTTPMethod:     method,
		Resource:       resource,
		Body:           body,
		PathParameters: pathParams,
		RequestContext: events.APIGatewayProxyRequestContext{
			Authorizer: map[string]any{
				"claims": map[string]any{
					"email": "Alice@Acme.com",
					"name":  "Alice",
				},
			},
		},
	}
}

func decodeBody(t *testing.T, resp events.APIGatewayProxyResponse) map[string]json.RawMessage {
	t.Helper()
	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &out))
	return out
}

func TestHandleRequestUnauthorized(t *testing.T) {
	h := newTestHandler(t)

	req := events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet, Resource: "/tasks"}
	resp, err := h.HandleRequest(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestIdentityFromRequest(t *testing.T) {
	req := request(http.MethodGet, "/tasks", "", nil)
	id, err := identityFromRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "acme.com", id.domain)
	assert.Equal(t, "alice@acme.com", id.email)
	assert.Equal(t, "Alice", id.actor)

	req.RequestContext.Authorizer["claims"].(map[string]any)["name"] = ""
	id, err = identityFromRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "Alice@Acme.com", id.actor, "actor falls back to the raw email claim")

	req.RequestContext.Authorizer["claims"].(map[string]any)["email"] = "not-an-email"
	_, err = identityFromRequest(req)
	assert.Error(t, err)
}

func TestCreateAndGetTask(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	resp, err := h.HandleRequest(ctx, request(http.MethodPost, "/tasks", `{"title":"Ship the API"}`, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	var created store.Task
	require.NoError(t, json.Unmarshal(body["task"], &created))
	assert.Equal(t, "Ship the API", created.Title)
	assert.Equal(t, store.TaskStatusBacklog, created.Status)
	assert.Equal(t, "acme.com", created.Domain)
	assert.Equal(t, "Alice", created.CreatedBy)

	resp, err = h.HandleRequest(ctx, request(http.MethodGet, "/tasks/{id}", "", map[string]string{"id": created.ID}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = h.HandleRequest(ctx, request(http.MethodGet, "/tasks", "", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	var tasks []store.Task
	require.NoError(t, json.Unmarshal(body["tasks"], &tasks))
	assert.Len(t, tasks, 1)
}

func TestCreateTaskValidation(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"description":"no title"}`},
		{"bad status", `{"title":"x","status":"archived"}`},
		{"malformed json", `{"title":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := h.HandleRequest(ctx, request(http.MethodPost, "/tasks", tt.body, nil))
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestUpdateTaskRecordsActivity(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	resp, err := h.HandleRequest(ctx, request(http.MethodPost, "/tasks", `{"title":"Track me"}`, nil))
	require.NoError(t, err)
	var created store.Task
	require.NoError(t, json.Unmarshal(decodeBody(t, resp)["task"], &created))

	resp, err = h.HandleRequest(ctx, request(http.MethodPut, "/tasks/{id}", `{"status":"in-progress"}`, map[string]string{"id": created.ID}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated store.Task
	require.NoError(t, json.Unmarshal(decodeBody(t, resp)["task"], &updated))
	assert.Equal(t, store.TaskStatusInProgress, updated.Status)
	require.Len(t, updated.Activities, 2)
	assert.Equal(t, store.ActivityStatusChange, updated.Activities[1].Type)
}

func TestTaskNotFound(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	resp, err := h.HandleRequest(ctx, request(http.MethodGet, "/tasks/{id}", "", map[string]string{"id": "task-missing"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = h.HandleRequest(ctx, request(http.MethodPut, "/tasks/{id}", `{"title":"x"}`, map[string]string{"id": "task-missing"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLinkRoute(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	resp, err := h.HandleRequest(ctx, request(http.MethodPost, "/tasks", `{"title":"One"}`, nil))
	require.NoError(t, err)
	var t1 store.Task
	require.NoError(t, json.Unmarshal(decodeBody(t, resp)["task"], &t1))

	resp, err = h.HandleRequest(ctx, request(http.MethodPost, "/tasks", `{"title":"Two"}`, nil))
	require.NoError(t, err)
	var t2 store.Task
	require.NoError(t, json.Unmarshal(decodeBody(t, resp)["task"], &t2))

	resp, err = h.HandleRequest(ctx, request(http.MethodPost, "/tasks/{id}/link", `{"taskId":"`+t2.ID+`"}`, map[string]string{"id": t1.ID}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var linked store.Task
	require.NoError(t, json.Unmarshal(decodeBody(t, resp)["task"], &linked))
	assert.Equal(t, []string{t2.ID}, linked.LinkedTasks)

	resp, err = h.HandleRequest(ctx, request(http.MethodPost, "/tasks/{id}/unlink", `{"taskId":"`+t2.ID+`"}`, map[string]string{"id": t1.ID}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var unlinked store.Task
	require.NoError(t, json.Unmarshal(decodeBody(t, resp)["task"], &unlinked))
	assert.Empty(t, unlinked.LinkedTasks)
}

func TestAddCommentRoute(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	resp, err := h.HandleRequest(ctx, request(http.MethodPost, "/tasks", `{"title":"Discuss"}`, nil))
	require.NoError(t, err)
	var created store.Task
	require.NoError(t, json.Unmarshal(decodeBody(t, resp)["task"], &created))

	resp, err = h.HandleRequest(ctx, request(http.MethodPost, "/tasks/{id}/activities", `{"text":"looks good"}`, map[string]string{"id": created.ID}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated store.Task
	require.NoError(t, json.Unmarshal(decodeBody(t, resp)["task"], &updated))
	require.Len(t, updated.Activities, 2)
	assert.Equal(t, store.ActivityComment, updated.Activities[1].Type)
	assert.Equal(t, "looks good", updated.Activities[1].Text)
	assert.Equal(t, "Alice", updated.Activities[1].Author)
}

func TestTicketRoutes(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	resp, err := h.HandleRequest(ctx, request(http.MethodPost, "/tickets", `{"title":"Crash on login","type":"bug"}`, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var ticket store.Ticket
	require.NoError(t, json.Unmarshal(decodeBody(t, resp)["ticket"], &ticket))
	assert.Equal(t, store.TicketTypeBug, ticket.Type)
	assert.Equal(t, store.TicketStatusNew, ticket.Status)

	resp, err = h.HandleRequest(ctx, request(http.MethodPost, "/tickets", `{"title":"x","type":"chore"}`, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "type outside the enum is rejected at the boundary")
}

func TestUserRoutesDuplicateEmail(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	resp, err := h.HandleRequest(ctx, request(http.MethodPost, "/users", `{"email":"a@acme.com","name":"A"}`, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = h.HandleRequest(ctx, request(http.MethodPost, "/users", `{"email":"A@ACME.com","name":"B"}`, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestDeleteReturnsNoContent(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	resp, err := h.HandleRequest(ctx, request(http.MethodPost, "/tasks", `{"title":"Gone"}`, nil))
	require.NoError(t, err)
	var created store.Task
	require.NoError(t, json.Unmarshal(decodeBody(t, resp)["task"], &created))

	resp, err = h.HandleRequest(ctx, request(http.MethodDelete, "/tasks/{id}", "", map[string]string{"id": created.ID}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, resp.Body)

	// Deleting again is a no-op, not an error.
	resp, err = h.HandleRequest(ctx, request(http.MethodDelete, "/tasks/{id}", "", map[string]string{"id": created.ID}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestExportRoute(t *testing.T) {
	h := newTestHandler(t)
	ctx := context.Background()

	_, err := h.HandleRequest(ctx, request(http.MethodPost, "/tasks", `{"title":"T"}`, nil))
	require.NoError(t, err)
	_, err = h.HandleRequest(ctx, request(http.MethodPost, "/tickets", `{"title":"Tk"}`, nil))
	require.NoError(t, err)

	resp, err := h.HandleRequest(ctx, request(http.MethodGet, "/export", "", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var export store.DomainExport
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &export))
	assert.Len(t, export.Tasks, 1)
	assert.Len(t, export.Tickets, 1)
}

func TestUnknownRoute(t *testing.T) {
	h := newTestHandler(t)

	resp, err := h.HandleRequest(context.Background(), request(http.MethodGet, "/boards", "", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

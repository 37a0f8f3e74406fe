package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/teamplane/teamplane/store"
)

var defaultHeaders = map[string]string{
	"Content-Type":                "application/json",
	"Access-Control-Allow-Origin": "*",
}

// badRequestError marks decode/validation failures so errorResponse can map
// them to 400.
type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string { return e.msg }

// respond serializes payload as the response body. A nil payload yields an
// empty body (used for 204).
func respond(status int, payload any) (events.APIGatewayProxyResponse, error) {
	resp := events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    defaultHeaders,
	}
	if payload == nil {
		return resp, nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	resp.Body = string(body)
	return resp, nil
}

// errorBody builds an {"error": ...} response.
func errorBody(status int, message string) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(map[string]string{"error": message})
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    defaultHeaders,
		Body:       string(body),
	}
}

// errorResponse maps store and boundary errors to user-facing responses.
func (h *Handler) errorResponse(req events.APIGatewayProxyRequest, err error) events.APIGatewayProxyResponse {
	var badReq *badRequestError
	switch {
	case errors.As(err, &badReq):
		return errorBody(http.StatusBadRequest, badReq.msg)
	case errors.Is(err, store.ErrNotFound):
		return errorBody(http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrDuplicateEmail):
		return errorBody(http.StatusConflict, "email already in use")
	case errors.Is(err, store.ErrConcurrentModification):
		return errorBody(http.StatusConflict, "entity was modified concurrently, retry")
	default:
		h.logger.Error("request failed",
			"method", req.HTTPMethod,
			"resource", req.Resource,
			"error", err,
		)
		return errorBody(http.StatusInternalServerError, "internal error")
	}
}

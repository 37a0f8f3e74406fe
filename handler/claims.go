package handler

import (
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// identity is what the store needs from the authenticated caller: the
// tenant domain and a display name for activity attribution.
type identity struct {
	domain string
	email  string
	actor  string
}

// identityFromRequest extracts the identity from the Cognito claims the
// API Gateway authorizer attaches to the request. The tenant domain is the
// lowercased part of the email after "@"; the actor is the name claim,
// falling back to the email.
func identityFromRequest(req events.APIGatewayProxyRequest) (identity, error) {
	claims, ok := req.RequestContext.Authorizer["claims"].(map[string]any)
	if !ok {
		return identity{}, fmt.Errorf("no claims on request")
	}

	email, _ := claims["email"].(string)
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return identity{}, fmt.Errorf("claim email %q has no domain", email)
	}

	actor, _ := claims["name"].(string)
	if actor == "" {
		actor = email
	}

	return identity{
		domain: strings.ToLower(email[at+1:]),
		email:  strings.ToLower(email),
		actor:  actor,
	}, nil
}

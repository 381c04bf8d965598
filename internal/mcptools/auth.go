package mcptools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// PendingStates records states handed out by get_auth_url so the callback
// listener can validate the one WHOOP sends back.
type PendingStates interface {
	Add(state string)
}

// AuthURLTool starts the OAuth flow by handing the user an authorization
// link.
type AuthURLTool struct {
	auth   Authorizer
	states PendingStates
}

func NewAuthURLTool(auth Authorizer, states PendingStates) *AuthURLTool {
	return &AuthURLTool{auth: auth, states: states}
}

func (t *AuthURLTool) Definition() mcp.Tool {
	return mcp.NewTool("get_auth_url",
		mcp.WithDescription("Generate a WHOOP authorization URL. Open it in a browser and approve access; tokens are captured by the local callback listener."),
	)
}

func (t *AuthURLTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, state := t.auth.AuthorizationURL()
	t.states.Add(state)

	text := fmt.Sprintf("Open this URL in a browser to authorize WHOOP access:\n\n%s\n\nAfter approving, the local callback stores the tokens and every other tool starts working.", url)
	return mcp.NewToolResultText(text), nil
}

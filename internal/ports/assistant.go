package ports

import (
	"context"
	"errors"
)

// ErrAssistantNotConfigured signals the assistant feature is disabled.
var ErrAssistantNotConfigured = errors.New("assistant is not configured")

// Assistant is the language-model collaborator. Invoked on demand only;
// failures surface to the user and are never retried automatically.
type Assistant interface {
	Ask(ctx context.Context, systemContext string, userPrompt string) (string, error)
	Ping(ctx context.Context) (string, error)
}

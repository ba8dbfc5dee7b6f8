package assistant

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go"
	oaioption "github.com/openai/openai-go/option"

	"platecheck/internal/bootstrap/config"
	"platecheck/internal/errs"
	"platecheck/internal/ports"
)

// OpenAIAssistant answers insight questions with a chat completion. An empty
// API key leaves the feature disabled rather than failing bootstrap.
type OpenAIAssistant struct {
	cfg    config.OpenAIConfig
	client openai.Client
}

var _ ports.Assistant = (*OpenAIAssistant)(nil)

func NewOpenAIAssistant(cfg config.OpenAIConfig) *OpenAIAssistant {
	opts := []oaioption.RequestOption{oaioption.WithAPIKey(cfg.APIKey)}
	if org := strings.TrimSpace(cfg.Organization); org != "" {
		opts = append(opts, oaioption.WithHeader("OpenAI-Organization", org))
	}
	if project := strings.TrimSpace(cfg.Project); project != "" {
		opts = append(opts, oaioption.WithHeader("OpenAI-Project", project))
	}

	return &OpenAIAssistant{
		cfg:    cfg,
		client: openai.NewClient(opts...),
	}
}

func (a *OpenAIAssistant) Ask(ctx context.Context, systemContext string, userPrompt string) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}
	if strings.TrimSpace(a.cfg.APIKey) == "" {
		return "", ports.ErrAssistantNotConfigured
	}
	if strings.TrimSpace(userPrompt) == "" {
		return "", errors.New("user prompt is required")
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if strings.TrimSpace(systemContext) != "" {
		messages = append(messages, openai.SystemMessage(systemContext))
	}
	messages = append(messages, openai.UserMessage(userPrompt))

	completion, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(a.cfg.Model),
		Messages: messages,
	})
	if err != nil {
		return "", errs.Wrap(err, "chat completion")
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

func (a *OpenAIAssistant) Ping(ctx context.Context) (string, error) {
	return a.Ask(ctx, "", "Reply with a single short sentence confirming you are reachable.")
}

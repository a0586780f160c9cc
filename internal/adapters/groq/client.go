package groq

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
	"github.com/rs/zerolog"

	"github.com/example/review-pulse/internal/config"
)

const baseURL = "https://api.groq.com/openai/v1"

// temperature is fixed low for deterministic-leaning summaries.
const temperature = 0.3

// ErrThrottled marks the provider's rate-limit response so callers can
// decide on a fallback model without inspecting SDK error types.
var ErrThrottled = errors.New("groq: throttled")

type Client struct {
	key string
	cli openai.Client
	log zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
	cli := openai.NewClient(option.WithAPIKey(cfg.GroqAPIKey), option.WithBaseURL(baseURL))
	return &Client{key: cfg.GroqAPIKey, cli: cli, log: log}
}

// Generate runs one chat completion against the given model.
func (c *Client) Generate(ctx context.Context, model, system, user string, maxTokens int64) (string, error) {
	if strings.TrimSpace(c.key) == "" { return "", errors.New("groq: missing key") }
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		MaxTokens:   openai.Int(maxTokens),
		Temperature: openai.Float(temperature),
	}
	resp, err := c.cli.Chat.Completions.New(ctx, params)
	if err != nil {
		var apierr *openai.Error
		if errors.As(err, &apierr) && apierr.StatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: model=%s", ErrThrottled, model)
		}
		return "", err
	}
	if len(resp.Choices) == 0 { return "", errors.New("groq: no choices") }
	return resp.Choices[0].Message.Content, nil
}

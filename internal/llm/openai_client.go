package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lachdunc/health-coach/internal/domain"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

var (
	// ErrOpenAIUnavailable indicates the OpenAI service is not configured or unavailable.
	ErrOpenAIUnavailable = errors.New("OpenAI service unavailable")
	// ErrOpenAIRequest indicates an error during the OpenAI API request.
	ErrOpenAIRequest = errors.New("OpenAI request failed")
	// ErrOpenAIResponse indicates an empty or unusable OpenAI response.
	ErrOpenAIResponse = errors.New("unusable OpenAI response")
)

const systemPrompt = `You are a personal training coach aware of migraines.

You receive a compact JSON health context for a single user:
- "daily": recent completed days (oldest to newest) with sleep duration,
  sleep efficiency, sleep score, resting HR, and HR range.
- "hourly": hourly heart-rate means for the most recent day with data.
- "today_partial": present only when that day is still in progress.
  Its statistics cover the observed hours only; later hours are not yet
  represented. Weigh it for near-term advice when present.

Recommend tonight's plan (Zwift session, rest, or intensity level) in
at most 3 short bullets. Be conservative if sleep quality or resting HR
trends worsen. Do not give medical advice.`

const userPromptTemplate = `Here is the user's recent health context as JSON:

%s

Respond with the recommendation bullets only.`

// CoachLLM is the boundary to the reasoning call. The context object
// is the only contract; everything past it is external.
type CoachLLM interface {
	// Recommend turns a health context into a short training recommendation.
	Recommend(ctx context.Context, healthCtx *domain.HealthContext) (string, error)
}

// OpenAIClient implements CoachLLM using the OpenAI API.
type OpenAIClient struct {
	client openai.Client
	model  string
}

// NewOpenAIClient creates a new OpenAI client for coach recommendations.
// Returns nil if apiKey is empty.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	if apiKey == "" {
		return nil
	}

	if model == "" {
		model = "gpt-4o-mini"
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	return &OpenAIClient{
		client: client,
		model:  model,
	}
}

// Recommend calls OpenAI with the serialized health context.
func (c *OpenAIClient) Recommend(ctx context.Context, healthCtx *domain.HealthContext) (string, error) {
	if c == nil {
		return "", ErrOpenAIUnavailable
	}

	contextJSON, err := json.MarshalIndent(healthCtx, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: failed to serialize context: %v", ErrOpenAIRequest, err)
	}

	userPrompt := fmt.Sprintf(userPromptTemplate, string(contextJSON))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOpenAIRequest, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", ErrOpenAIResponse)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: empty completion", ErrOpenAIResponse)
	}

	return content, nil
}

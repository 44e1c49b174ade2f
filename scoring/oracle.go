package scoring

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ErrNotConfigured marks the designed degradation mode: no scoring credential
// means callers skip the oracle entirely and use default scores.
var ErrNotConfigured = errors.New("scoring oracle not configured")

const systemPrompt = `You are an expert content analyst. Analyze content for knowledge value, credibility, and potential for distraction.

Provide scores (0-10) and analysis in this exact JSON format:
{
    "knowledge_density_score": 7.5,
    "credibility_score": 8.0,
    "distraction_score": 3.0,
    "summary": "Brief 1-2 sentence summary focusing on key insights",
    "tags": ["tag1", "tag2", "tag3"],
    "evidence_links": ["url1", "url2"]
}

Scoring Guide:
- Knowledge Density: How much useful information per word? Technical depth? Novel insights?
- Credibility: Source reliability? Factual accuracy? Evidence provided?
- Distraction: Clickbait? Emotional manipulation? Sensationalism? (higher = more distracting)`

// OpenAIOracle scores content through the chat completions API. A zero-value
// or keyless oracle reports ErrNotConfigured instead of calling out.
type OpenAIOracle struct {
	client *openai.Client
	model  openai.ChatModel
}

func NewOpenAIOracle(apiKey string) *OpenAIOracle {
	if apiKey == "" {
		return &OpenAIOracle{}
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
	)
	return &OpenAIOracle{
		client: &client,
		model:  openai.ChatModelGPT4oMini,
	}
}

// Score sends one piece of content for analysis and returns the raw assistant
// response for the extractor to interpret.
func (o *OpenAIOracle) Score(ctx context.Context, title, excerpt, source string) (string, error) {
	if o == nil || o.client == nil {
		return "", ErrNotConfigured
	}

	prompt := fmt.Sprintf("Analyze this content:\n\nTitle: %s\nSource: %s\nContent: %s\n\nProvide detailed scoring and analysis.",
		title, source, excerpt)

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	return resp.Choices[0].Message.Content, nil
}

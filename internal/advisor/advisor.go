package advisor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"coinfolio/internal/config"
)

// FallbackMessage is the deterministic substitute used whenever text
// generation is unavailable or fails. A triggered rule must always end in
// a persisted notification, at worst carrying this text.
const FallbackMessage = "Unable to generate an automatic recommendation. Reassess your positions manually."

const (
	defaultEndpoint = "https://api.openai.com/v1/chat/completions"
	defaultModel    = "gpt-4o-mini"
)

// ErrUnavailable signals that no credential was found in any source, so no
// generation request was attempted.
var ErrUnavailable = errors.New("text generation unavailable: no API key configured")

// ResolveAPIKey returns the advisor credential from the first source that
// has one: the config file value, then the OPENAI_API_KEY environment
// variable. An empty result means generation is unavailable; callers use
// FallbackMessage, never a startup error.
func ResolveAPIKey(configured string) string {
	if configured != "" {
		return configured
	}
	return os.Getenv("OPENAI_API_KEY")
}

// Client calls the OpenAI chat-completions API to draft a short advisory
// sentence for a triggered alert.
type Client struct {
	http     *resty.Client
	endpoint string
	apiKey   string
	model    string
}

// NewClient creates an advisor client from configuration.
func NewClient(cfg config.AdvisorConfig) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		http:     resty.New().SetTimeout(timeout),
		endpoint: endpoint,
		apiKey:   ResolveAPIKey(cfg.APIKey),
		model:    model,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Advise turns the alert context into one or two advisory sentences.
func (c *Client) Advise(ctx context.Context, baseMessage, portfolioSummary string) (string, error) {
	if c.apiKey == "" {
		return "", ErrUnavailable
	}

	prompt := strings.Join([]string{
		"You are a financial assistant that writes concise notifications.",
		"Review the information provided and produce a one-to-two sentence, action-oriented advisory.",
		"System message: " + baseMessage,
		"Portfolio summary: " + portfolioSummary,
		"Mention whether to add to, trim or watch the position, staying neutral and without giving direct orders.",
	}, "\n")

	body := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.4,
		MaxTokens:   120,
	}

	var out chatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+c.apiKey).
		SetBody(body).
		SetResult(&out).
		Post(c.endpoint)

	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("chat completion returned status %d: %s", resp.StatusCode(), resp.String())
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

// Package llm provides a provider-agnostic chat-completion client with
// primary/secondary fallback and circuit breaking, grounded on tarsy's
// pkg/agent LLM client wrapper and wired to anthropic-sdk-go as the primary
// provider (LLM-backed extractors).
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sony/gobreaker"

	"github.com/codeready-toolchain/knowledgepipeline/internal/config"
)

// Client is the narrow interface every extractor depends on — a single
// prompt/response call, independent of the underlying provider.
type Client interface {
	// Complete sends systemPrompt + userPrompt and returns the raw text
	// response.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ParseJSON extracts the first well-formed JSON value from an LLM response,
// tolerating prose wrapping and fenced code blocks — models routinely answer
// "Here is the result:\n```json\n{.}\n```" instead of bare JSON.
func ParseJSON(raw string, out interface{}) error {
	if err := json.Unmarshal([]byte(raw), out); err == nil {
		return nil
	}

	if m := fencedJSONRe.FindStringSubmatch(raw); len(m) > 1 {
		if err := json.Unmarshal([]byte(m[1]), out); err == nil {
			return nil
		}
	}

	if span := firstJSONSpan(raw); span != "" {
		if err := json.Unmarshal([]byte(span), out); err == nil {
			return nil
		}
	}

	return fmt.Errorf("no parseable JSON found in LLM response")
}

var fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\}|\\[.*?\\])\\s*```")

// firstJSONSpan returns the text between the first '{' or '[' and its
// matching close brace/bracket by depth counting, the last-resort fallback
// when a response has no fence and isn't itself bare JSON.
func firstJSONSpan(s string) string {
	start := strings.IndexAny(s, "{[")
	if start == -1 {
		return ""
	}
	open, close := s[start], byte('}')
	if open == '[' {
		close = ']'
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start: i+1]
			}
		}
	}
	return ""
}

// anthropicClient implements Client against the Anthropic Messages API.
type anthropicClient struct {
	client anthropic.Client
	model string
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
}

// NewAnthropicClient builds a circuit-breaker-wrapped Anthropic client from
// configuration, opening the breaker after cfg.BreakerMaxFailures
// consecutive failures and resetting after cfg.BreakerResetTimeout, mirroring
// the breaker settings tarsy's agent package applies to outbound LLM calls.
func NewAnthropicClient(cfg config.LLMConfig, apiKey string) *anthropicClient {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "anthropic-llm",
			MaxRequests: 1,
			Timeout: cfg.BreakerResetTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= uint32(cfg.BreakerMaxFailures)
			},
		})
	return &anthropicClient{client: c, model: cfg.Model, breaker: cb, timeout: cfg.RequestTimeout}
}

func (a *anthropicClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	result, err := a.breaker.Execute(func() (interface{}, error) {
			msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
					Model: anthropic.Model(a.model),
					MaxTokens: 4096,
					System: []anthropic.TextBlockParam{{Text: systemPrompt}},
					Messages: []anthropic.MessageParam{
						anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
					},
				})
			if err != nil {
				return "", err
			}
			var sb strings.Builder
			for _, block := range msg.Content {
				if block.Type == "text" {
					sb.WriteString(block.Text)
				}
			}
			return sb.String(), nil
		})
	if err != nil {
		return "", fmt.Errorf("anthropic completion: %w", err)
	}
	text, _ := result.(string)
	return text, nil
}

// FallbackClient tries primary first and falls back to secondary on error,
// the same primary/secondary pattern used elsewhere for extractor
// resilience when one provider is rate-limited or down.
type FallbackClient struct {
	Primary Client
	Secondary Client
}

func (f *FallbackClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	text, err := f.Primary.Complete(ctx, systemPrompt, userPrompt)
	if err == nil {
		return text, nil
	}
	if f.Secondary == nil {
		return "", err
	}
	text, secErr := f.Secondary.Complete(ctx, systemPrompt, userPrompt)
	if secErr != nil {
		return "", errors.Join(err, secErr)
	}
	return text, nil
}

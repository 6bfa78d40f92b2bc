package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/katara/mono-repo/backend/services/chat-service/internal/config"
	"github.com/katara/mono-repo/backend/shared/go-models"
	"github.com/katara/mono-repo/backend/shared/go-utils"
)

// NotConfiguredReply is returned instead of calling the provider when no API
// key is set.
const NotConfiguredReply = "⚠️ Katara no está configurada (falta GROQ_API_KEY_CHAT)."

type ChatTurn struct {
	Role    models.MessageRole
	Content string
}

// LLMClient completes a conversation and returns the assistant reply.
type LLMClient interface {
	Complete(ctx context.Context, turns []ChatTurn) (string, error)
}

// OpenAICompatibleClient talks to any OpenAI-compatible chat completions
// endpoint (Groq by default). A nil client answers NotConfiguredReply.
type OpenAICompatibleClient struct {
	client      *openai.Client
	model       string
	temperature float64
	maxTokens   int64
	timeout     time.Duration
}

func NewLLMClient(cfg *config.Config) *OpenAICompatibleClient {
	c := &OpenAICompatibleClient{
		model:       cfg.ChatModel,
		temperature: cfg.LLMTemperature,
		maxTokens:   int64(cfg.LLMMaxTokens),
		timeout:     cfg.LLMTimeout,
	}
	if cfg.LLMAPIKey == "" {
		utils.Logger.Warn("GROQ_API_KEY_CHAT not set; chat replies are disabled")
		return c
	}
	client := openai.NewClient(
		option.WithAPIKey(cfg.LLMAPIKey),
		option.WithBaseURL(cfg.LLMBaseURL),
		option.WithMaxRetries(1),
	)
	c.client = &client
	return c
}

func (c *OpenAICompatibleClient) Complete(ctx context.Context, turns []ChatTurn) (string, error) {
	if c.client == nil {
		return NotConfiguredReply, nil
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case models.MessageRoleSystem:
			messages = append(messages, openai.SystemMessage(t.Content))
		case models.MessageRoleAssistant:
			messages = append(messages, openai.AssistantMessage(t.Content))
		default:
			messages = append(messages, openai.UserMessage(t.Content))
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(c.model),
		Messages:    messages,
		Temperature: openai.Float(c.temperature),
		MaxTokens:   openai.Int(c.maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("llm: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: no choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

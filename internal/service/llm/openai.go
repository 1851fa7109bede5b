package llm

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"

	"github.com/zhouzirui/genz-chat/backend/internal/model/chat"
)

// OpenAIProvider talks to any OpenAI-compatible chat completion endpoint,
// Groq by default.
type OpenAIProvider struct {
	name   string
	client *openai.Client
	model  string
}

// NewOpenAIProvider builds a client for baseURL; an empty baseURL keeps the
// library default.
func NewOpenAIProvider(name, apiKey, baseURL, modelName string) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIProvider{
		name:   name,
		client: openai.NewClientWithConfig(cfg),
		model:  modelName,
	}
}

// Name implements Provider.
func (p *OpenAIProvider) Name() string {
	return p.name
}

// Complete implements Provider.
func (p *OpenAIProvider) Complete(ctx context.Context, messages []chat.Message, params Params) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, p.request(messages, params, false))
	if err != nil {
		return "", errors.Wrapf(describe(err), "%s chat completion", p.name)
	}
	if len(resp.Choices) == 0 {
		return "", errors.Errorf("%s chat completion returned no choices", p.name)
	}
	return resp.Choices[0].Message.Content, nil
}

// Stream implements Provider.
func (p *OpenAIProvider) Stream(ctx context.Context, messages []chat.Message, params Params) (ChunkReader, error) {
	stream, err := p.client.CreateChatCompletionStream(ctx, p.request(messages, params, true))
	if err != nil {
		return nil, errors.Wrapf(describe(err), "%s chat completion stream", p.name)
	}
	return &openAIReader{stream: stream}, nil
}

func (p *OpenAIProvider) request(messages []chat.Message, params Params, stream bool) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    toOpenAIMessages(messages),
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
		TopP:        params.TopP,
		Stream:      stream,
	}
}

type openAIReader struct {
	stream *openai.ChatCompletionStream
}

func (r *openAIReader) Recv() (string, error) {
	resp, err := r.stream.Recv()
	if err != nil {
		return "", describe(err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Delta.Content, nil
}

func (r *openAIReader) Close() error {
	return r.stream.Close()
}

// describe reduces API errors to the provider's own message.
func describe(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return errors.New(apiErr.Message)
	}
	return err
}

func toOpenAIMessages(messages []chat.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		role := openai.ChatMessageRoleUser
		switch msg.Role {
		case chat.RoleSystem:
			role = openai.ChatMessageRoleSystem
		case chat.RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: msg.Content})
	}
	return out
}

package llm

import (
	"context"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/pkg/errors"

	"github.com/zhouzirui/genz-chat/backend/internal/model/chat"
)

// EinoProvider adapts an eino chat model (Ark in production) to Provider.
type EinoProvider struct {
	name  string
	model model.BaseChatModel
}

// NewEinoProvider wraps chatModel under the given provider name.
func NewEinoProvider(name string, chatModel model.BaseChatModel) *EinoProvider {
	return &EinoProvider{name: name, model: chatModel}
}

// Name implements Provider.
func (p *EinoProvider) Name() string {
	return p.name
}

// Complete implements Provider.
func (p *EinoProvider) Complete(ctx context.Context, messages []chat.Message, params Params) (string, error) {
	resp, err := p.model.Generate(ctx, toSchemaMessages(messages), callOptions(params)...)
	if err != nil {
		return "", errors.Wrapf(err, "%s generate", p.name)
	}
	if resp == nil {
		return "", errors.Errorf("%s generate returned no message", p.name)
	}
	return resp.Content, nil
}

// Stream implements Provider.
func (p *EinoProvider) Stream(ctx context.Context, messages []chat.Message, params Params) (ChunkReader, error) {
	sr, err := p.model.Stream(ctx, toSchemaMessages(messages), callOptions(params)...)
	if err != nil {
		return nil, errors.Wrapf(err, "%s stream", p.name)
	}
	return &einoReader{sr: sr}, nil
}

type einoReader struct {
	sr *schema.StreamReader[*schema.Message]
}

func (r *einoReader) Recv() (string, error) {
	msg, err := r.sr.Recv()
	if err != nil {
		return "", err
	}
	if msg == nil {
		return "", nil
	}
	return msg.Content, nil
}

func (r *einoReader) Close() error {
	r.sr.Close()
	return nil
}

func callOptions(params Params) []model.Option {
	return []model.Option{
		model.WithTemperature(params.Temperature),
		model.WithMaxTokens(params.MaxTokens),
		model.WithTopP(params.TopP),
	}
}

func toSchemaMessages(messages []chat.Message) []*schema.Message {
	out := make([]*schema.Message, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case chat.RoleSystem:
			out = append(out, schema.SystemMessage(msg.Content))
		case chat.RoleUser:
			out = append(out, schema.UserMessage(msg.Content))
		case chat.RoleAssistant:
			out = append(out, schema.AssistantMessage(msg.Content, nil))
		}
	}
	return out
}

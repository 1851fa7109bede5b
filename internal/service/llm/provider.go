package llm

import (
	"context"

	"github.com/zhouzirui/genz-chat/backend/internal/model/chat"
)

// Params are the sampling parameters sent with every completion request.
type Params struct {
	Temperature float32
	MaxTokens   int
	TopP        float32
}

// DefaultParams are the relay's fixed sampling settings.
var DefaultParams = Params{
	Temperature: 0.8,
	MaxTokens:   800,
	TopP:        0.9,
}

// ChunkReader yields reply fragments until io.EOF.
type ChunkReader interface {
	// Recv blocks for the next fragment. An empty fragment with a nil error
	// carries no text and can be skipped.
	Recv() (string, error)
	Close() error
}

// Provider is a hosted completion API.
type Provider interface {
	Name() string
	// Complete returns the whole reply for the ordered transcript.
	Complete(ctx context.Context, messages []chat.Message, params Params) (string, error)
	// Stream opens an incremental reply for the ordered transcript.
	Stream(ctx context.Context, messages []chat.Message, params Params) (ChunkReader, error)
}

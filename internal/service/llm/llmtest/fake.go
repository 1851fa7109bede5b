// Package llmtest provides an in-memory llm.Provider for tests.
package llmtest

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/zhouzirui/genz-chat/backend/internal/model/chat"
	"github.com/zhouzirui/genz-chat/backend/internal/service/llm"
)

// Provider replies with canned text. Chunks drive streaming; when empty the
// stream yields Reply as a single fragment. FailAfter > 0 makes the stream
// fail with Err after that many fragments; otherwise Err fails the call itself.
type Provider struct {
	Reply     string
	Chunks    []string
	Err       error
	FailAfter int

	mu     sync.Mutex
	calls  [][]chat.Message
	params []llm.Params
	closed int
}

// Name implements llm.Provider.
func (p *Provider) Name() string {
	return "fake"
}

// Complete implements llm.Provider.
func (p *Provider) Complete(_ context.Context, messages []chat.Message, params llm.Params) (string, error) {
	p.record(messages, params)
	if p.Err != nil {
		return "", p.Err
	}
	if p.Reply == "" && len(p.Chunks) > 0 {
		return strings.Join(p.Chunks, ""), nil
	}
	return p.Reply, nil
}

// Stream implements llm.Provider.
func (p *Provider) Stream(ctx context.Context, messages []chat.Message, params llm.Params) (llm.ChunkReader, error) {
	p.record(messages, params)
	if p.Err != nil && p.FailAfter == 0 {
		return nil, p.Err
	}
	chunks := p.Chunks
	if len(chunks) == 0 {
		chunks = []string{p.Reply}
	}
	return &reader{ctx: ctx, owner: p, chunks: chunks}, nil
}

// Calls returns the transcripts passed to the provider, oldest first.
func (p *Provider) Calls() [][]chat.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]chat.Message(nil), p.calls...)
}

// Params returns the sampling parameters of every call.
func (p *Provider) Params() []llm.Params {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]llm.Params(nil), p.params...)
}

// Closed counts stream readers that were closed.
func (p *Provider) Closed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *Provider) record(messages []chat.Message, params llm.Params) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, append([]chat.Message(nil), messages...))
	p.params = append(p.params, params)
}

type reader struct {
	ctx    context.Context
	owner  *Provider
	chunks []string
	sent   int
}

func (r *reader) Recv() (string, error) {
	if err := r.ctx.Err(); err != nil {
		return "", err
	}
	if r.owner.FailAfter > 0 && r.sent >= r.owner.FailAfter {
		return "", r.owner.Err
	}
	if r.sent >= len(r.chunks) {
		return "", io.EOF
	}
	chunk := r.chunks[r.sent]
	r.sent++
	return chunk, nil
}

func (r *reader) Close() error {
	r.owner.mu.Lock()
	r.owner.closed++
	r.owner.mu.Unlock()
	return nil
}

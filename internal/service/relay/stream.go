package relay

import (
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/zhouzirui/genz-chat/backend/internal/service/llm"
	"github.com/zhouzirui/genz-chat/backend/internal/service/session"
)

// Event is one item of a streamed reply. A terminal event has Done set and
// carries either FullResponse or Error.
type Event struct {
	Chunk         string
	Done          bool
	FullResponse  string
	PersonalityID string
	Error         string
}

// Stream delivers a reply fragment by fragment. Each Recv pulls exactly one
// fragment from the provider. The assistant message is committed once, when
// the provider ends the stream cleanly; failure or an early Close commits
// nothing.
type Stream struct {
	svc     *Service
	handle  *session.Handle
	reader  llm.ChunkReader
	openErr error
	logger  zerolog.Logger

	acc      strings.Builder
	finished bool
	closed   bool
}

// HandleTurnStreaming starts a streamed turn. Only ErrInvalidInput and
// session-lock errors are returned directly; provider failures surface as the
// terminal event. The caller must Close the stream.
func (s *Service) HandleTurnStreaming(ctx context.Context, turn Turn) (*Stream, error) {
	turn = turn.withDefaults()
	if turn.Message == "" {
		return nil, ErrInvalidInput
	}

	logger := s.turnLogger(turn)
	h, err := s.begin(ctx, turn, logger)
	if err != nil {
		return nil, err
	}

	st := &Stream{svc: s, handle: h, logger: logger}
	st.reader, st.openErr = s.provider.Stream(ctx, h.Transcript(), s.params)
	return st, nil
}

// Recv returns the next event, or io.EOF once the terminal event was delivered.
func (st *Stream) Recv() (Event, error) {
	if st.finished || st.closed {
		return Event{}, io.EOF
	}
	if st.openErr != nil {
		return st.fail(st.openErr), nil
	}

	for {
		chunk, err := st.reader.Recv()
		if errors.Is(err, io.EOF) {
			return st.complete(), nil
		}
		if err != nil {
			return st.fail(err), nil
		}
		if chunk == "" {
			continue
		}
		st.acc.WriteString(chunk)
		return Event{Chunk: chunk}, nil
	}
}

func (st *Stream) complete() Event {
	full := st.acc.String()
	st.svc.store.AppendAssistant(st.handle, full)
	personalityID := st.handle.PersonalityID()
	st.finish()
	st.logger.Info().Int("length", len(full)).Msg("stream completed")

	return Event{Done: true, FullResponse: full, PersonalityID: personalityID}
}

func (st *Stream) fail(cause error) Event {
	upstream := newUpstreamError(st.svc.provider.Name(), cause)
	st.finish()
	st.logger.Error().Err(cause).Int("partial", st.acc.Len()).Msg("stream failed")

	return Event{Done: true, Error: upstream.Message}
}

func (st *Stream) finish() {
	st.finished = true
	if st.reader != nil {
		_ = st.reader.Close()
	}
	st.handle.Release()
}

// Close abandons the stream if it has not finished, discarding any partial
// reply, and releases the session. It is safe to call more than once.
func (st *Stream) Close() error {
	if st.closed {
		return nil
	}
	st.closed = true
	if !st.finished {
		st.logger.Warn().Int("partial", st.acc.Len()).Msg("stream abandoned, partial reply discarded")
		st.finish()
	}
	return nil
}

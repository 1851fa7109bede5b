package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/genz-chat/backend/internal/model/chat"
	"github.com/zhouzirui/genz-chat/backend/internal/model/personality"
)

func newTestStore() (*Store, personality.Registry) {
	reg := personality.NewMemoryRegistry(personality.Seed())
	return NewStore(reg), reg
}

func TestGetOrInitCreatesSystemMessage(t *testing.T) {
	store, reg := newTestStore()
	ctx := context.Background()

	h, err := store.GetOrInit(ctx, "s1", "study_buddy")
	require.NoError(t, err)
	transcript := h.Transcript()
	h.Release()

	require.Len(t, transcript, 1)
	assert.Equal(t, chat.RoleSystem, transcript[0].Role)
	assert.Equal(t, reg.Resolve("study_buddy").SystemPrompt, transcript[0].Content)
}

func TestGetOrInitUnknownPersonalityUsesDefaultPrompt(t *testing.T) {
	store, reg := newTestStore()

	h, err := store.GetOrInit(context.Background(), "s1", "xyz")
	require.NoError(t, err)
	defer h.Release()

	assert.Equal(t, "xyz", h.PersonalityID())
	assert.Equal(t, reg.Resolve(personality.DefaultID).SystemPrompt, h.Transcript()[0].Content)
}

func TestTurnsAlternateAfterSystemMessage(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	const turns = 4
	for i := 0; i < turns; i++ {
		h, err := store.GetOrInit(ctx, "s1", personality.DefaultID)
		require.NoError(t, err)
		store.AppendUser(h, fmt.Sprintf("q%d", i))
		store.AppendAssistant(h, fmt.Sprintf("a%d", i))
		h.Release()
	}

	snap, ok, err := store.Snapshot(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, snap.Transcript, 1+2*turns)
	for i, msg := range snap.Transcript[1:] {
		if i%2 == 0 {
			assert.Equal(t, chat.RoleUser, msg.Role)
		} else {
			assert.Equal(t, chat.RoleAssistant, msg.Role)
		}
	}
}

func TestPersonalityChangeResetsTranscript(t *testing.T) {
	store, reg := newTestStore()
	ctx := context.Background()

	h, err := store.GetOrInit(ctx, "s1", personality.DefaultID)
	require.NoError(t, err)
	store.AppendUser(h, "hi")
	store.AppendAssistant(h, "yo")
	h.Release()

	h, err = store.GetOrInit(ctx, "s1", "therapist_friend")
	require.NoError(t, err)
	transcript := h.Transcript()
	h.Release()

	require.Len(t, transcript, 1)
	assert.Equal(t, reg.Resolve("therapist_friend").SystemPrompt, transcript[0].Content)
}

func TestSamePersonalityKeepsTranscript(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	h, err := store.GetOrInit(ctx, "s1", personality.DefaultID)
	require.NoError(t, err)
	store.AppendUser(h, "hi")
	h.Release()

	h, err = store.GetOrInit(ctx, "s1", personality.DefaultID)
	require.NoError(t, err)
	defer h.Release()
	assert.Len(t, h.Transcript(), 2)
}

func TestSnapshotMissingSession(t *testing.T) {
	store, _ := newTestStore()

	_, ok, err := store.Snapshot(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSnapshotIsACopy(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	h, err := store.GetOrInit(ctx, "s1", personality.DefaultID)
	require.NoError(t, err)
	h.Release()

	snap, _, err := store.Snapshot(ctx, "s1")
	require.NoError(t, err)
	snap.Transcript[0].Content = "mutated"

	again, _, err := store.Snapshot(ctx, "s1")
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", again.Transcript[0].Content)
}

func TestSameSessionIsSerialised(t *testing.T) {
	store, _ := newTestStore()

	h, err := store.GetOrInit(context.Background(), "s1", personality.DefaultID)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = store.GetOrInit(ctx, "s1", personality.DefaultID)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	other, err := store.GetOrInit(context.Background(), "s2", personality.DefaultID)
	require.NoError(t, err, "distinct ids must not contend")
	other.Release()

	h.Release()
	h.Release()

	h, err = store.GetOrInit(context.Background(), "s1", personality.DefaultID)
	require.NoError(t, err)
	h.Release()
	assert.Equal(t, 2, store.Len())
}

func TestConcurrentTurnsKeepPairsTogether(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h, err := store.GetOrInit(ctx, "shared", personality.DefaultID)
			if err != nil {
				t.Error(err)
				return
			}
			defer h.Release()
			store.AppendUser(h, fmt.Sprintf("q%d", i))
			time.Sleep(time.Millisecond)
			store.AppendAssistant(h, fmt.Sprintf("a%d", i))
		}(i)
	}
	wg.Wait()

	snap, ok, err := store.Snapshot(ctx, "shared")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, snap.Transcript, 1+2*workers)
	for i := 1; i < len(snap.Transcript); i += 2 {
		q := snap.Transcript[i]
		a := snap.Transcript[i+1]
		require.Equal(t, chat.RoleUser, q.Role)
		require.Equal(t, chat.RoleAssistant, a.Role)
		assert.Equal(t, "a"+q.Content[1:], a.Content)
	}
}

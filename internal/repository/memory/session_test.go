package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/domain/session"
	"hermes/pkg/errors"
)

func TestSessionRegistry_GetMissing(t *testing.T) {
	reg := NewSessionRegistry()

	_, err := reg.Get(context.Background(), session.Key{ClientID: "CLT-001", SessionID: "s1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSessionNotFound))
}

func TestSessionRegistry_PutReturnsCopies(t *testing.T) {
	ctx := context.Background()
	reg := NewSessionRegistry()

	sess := session.New("CLT-001", "s1")
	require.NoError(t, reg.Put(ctx, sess))

	// Mutating the original after Put must not leak into the store.
	sess.ChatHistory = append(sess.ChatHistory, session.ChatTurn{UserText: "leak?"})

	got, err := reg.Get(ctx, session.Key{ClientID: "CLT-001", SessionID: "s1"})
	require.NoError(t, err)
	assert.Empty(t, got.ChatHistory)

	// Mutating a fetched copy must not leak either.
	got.IntermediateResults["x"] = 1
	again, err := reg.Get(ctx, session.Key{ClientID: "CLT-001", SessionID: "s1"})
	require.NoError(t, err)
	assert.Empty(t, again.IntermediateResults)
}

// Two concurrent sessions must not observe each other's chat history.
func TestSessionRegistry_ConcurrentIsolation(t *testing.T) {
	ctx := context.Background()
	reg := NewSessionRegistry()

	const workers = 8
	const turns = 25

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()

			clientID := fmt.Sprintf("CLT-%03d", id)
			sess := session.New(clientID, "s1")
			_ = reg.Put(ctx, sess)

			for j := 0; j < turns; j++ {
				got, err := reg.Get(ctx, session.Key{ClientID: clientID, SessionID: "s1"})
				if err != nil {
					t.Errorf("get failed: %v", err)
					return
				}
				got.AppendTurn(session.ChatTurn{
					UserText:      fmt.Sprintf("%s question %d", clientID, j),
					AssistantText: "answer",
				}, 100)
				_ = reg.Put(ctx, got)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		clientID := fmt.Sprintf("CLT-%03d", i)
		got, err := reg.Get(ctx, session.Key{ClientID: clientID, SessionID: "s1"})
		require.NoError(t, err)
		require.Len(t, got.ChatHistory, turns)

		for _, turn := range got.ChatHistory {
			assert.Contains(t, turn.UserText, clientID, "history leaked across sessions")
		}
	}
}

func TestSessionRegistry_Clear(t *testing.T) {
	ctx := context.Background()
	reg := NewSessionRegistry()

	sess := session.New("CLT-001", "s1")
	require.NoError(t, reg.Put(ctx, sess))
	require.NoError(t, reg.Clear(ctx, session.Key{ClientID: "CLT-001", SessionID: "s1"}))

	_, err := reg.Get(ctx, session.Key{ClientID: "CLT-001", SessionID: "s1"})
	assert.True(t, errors.Is(err, errors.ErrSessionNotFound))
}

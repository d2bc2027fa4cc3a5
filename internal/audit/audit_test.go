package audit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublisherStampsEvents(t *testing.T) {
	inbox := make(chan Event, 1)
	publisher := NewPublisher(inbox, testLogger())

	publisher.Emit(context.Background(), Event{Action: ActionAttendanceMarked, Subject: "user42"})

	event := <-inbox
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.Timestamp.IsZero())
	assert.Equal(t, ActionAttendanceMarked, event.Action)
	assert.Equal(t, "user42", event.Subject)
}

func TestPublisherDropsWhenInboxFull(t *testing.T) {
	inbox := make(chan Event, 1)
	publisher := NewPublisher(inbox, testLogger())
	ctx := context.Background()

	publisher.Emit(ctx, Event{Action: ActionAttendanceMarked})
	// Inbox is full now; this must not block.
	done := make(chan struct{})
	go func() {
		publisher.Emit(ctx, Event{Action: ActionAttendanceRejected})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a full inbox")
	}
}

func TestWorkerDrainsIntoSink(t *testing.T) {
	inbox := make(chan Event, 8)
	store := NewInMemoryStore(100)
	worker := NewWorker(store, inbox, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	publisher := NewPublisher(inbox, testLogger())
	publisher.Emit(ctx, Event{Action: ActionOutsideRadius, Distance: 2000})
	publisher.Emit(ctx, Event{Action: ActionAttendanceMarked, Subject: "user42"})

	require.Eventually(t, func() bool {
		events, err := store.ListRecent(ctx, 10)
		return err == nil && len(events) == 2
	}, time.Second, 10*time.Millisecond)

	events, err := store.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, ActionAttendanceMarked, events[0].Action)
	assert.Equal(t, ActionOutsideRadius, events[1].Action)
}

func TestInMemoryStoreBounded(t *testing.T) {
	store := NewInMemoryStore(3)
	ctx := context.Background()

	for i := range 5 {
		require.NoError(t, store.Append(ctx, Event{ID: string(rune('a' + i))}))
	}

	events, err := store.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "e", events[0].ID)
	assert.Equal(t, "c", events[2].ID)
}

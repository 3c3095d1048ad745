package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Rrens/ai-debate/internal/domain"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClient connects to REDIS_TEST_ADDR or skips the test
func testClient(t *testing.T) *Client {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	require.NoError(t, rdb.Ping(context.Background()).Err())
	t.Cleanup(func() { _ = rdb.Close() })
	return NewClientFrom(rdb)
}

func TestBus_PublishSubscribe(t *testing.T) {
	client := testClient(t)
	b := NewBus(client, 4)
	ctx := context.Background()
	topic := "ai-debate-updates:test-" + time.Now().Format("150405.000000")

	ch, cancel, err := b.Subscribe(ctx, topic)
	require.NoError(t, err)
	defer cancel()

	event := domain.TurnEvent{SessionID: "s1", Speaker: "AI 1", Message: "hi"}
	require.NoError(t, b.Publish(ctx, topic, event))

	select {
	case got := <-ch:
		assert.Equal(t, event, got)
	case <-time.After(3 * time.Second):
		t.Fatal("no update received")
	}
}

func TestArchive_SaveGet(t *testing.T) {
	client := testClient(t)
	a := NewArchive(client, time.Minute)
	ctx := context.Background()

	record := &domain.DebateRecord{
		SessionID:  "test-" + time.Now().Format("150405.000000"),
		Topic:      "cats",
		TurnLimit:  1,
		Transcript: []domain.Entry{{Speaker: "AI 1", Message: "meow"}},
		Outcome:    domain.OutcomeCompleted,
	}
	require.NoError(t, a.Save(ctx, record))

	got, err := a.Get(ctx, record.SessionID)
	require.NoError(t, err)
	assert.Equal(t, record.Transcript, got.Transcript)

	_, err = a.Get(ctx, "missing-session")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestArchive_Recent(t *testing.T) {
	client := testClient(t)
	a := NewArchive(client, time.Minute)
	ctx := context.Background()

	base := time.Now().UTC()
	older := &domain.DebateRecord{SessionID: "test-older-" + base.Format("150405.000000"), FinishedAt: base.Add(-time.Second)}
	newer := &domain.DebateRecord{SessionID: "test-newer-" + base.Format("150405.000000"), FinishedAt: base}
	require.NoError(t, a.Save(ctx, older))
	require.NoError(t, a.Save(ctx, newer))

	recent, err := a.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, newer.SessionID, recent[0].SessionID)
	assert.Equal(t, older.SessionID, recent[1].SessionID)

	// An index entry whose record expired is skipped
	require.NoError(t, client.Client().Del(ctx, archivePrefix+newer.SessionID).Err())
	recent, err = a.Recent(ctx, 2)
	require.NoError(t, err)
	require.NotEmpty(t, recent)
	assert.Equal(t, older.SessionID, recent[0].SessionID)

	empty, err := a.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRateLimiter_Allow(t *testing.T) {
	client := testClient(t)
	rl := NewRateLimiter(client, 2, 1)
	ctx := context.Background()
	key := "test-" + time.Now().Format("150405.000000")
	defer rl.Reset(ctx, key)

	for i := 0; i < 3; i++ {
		allowed, _, _, err := rl.Allow(ctx, key)
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	allowed, remaining, _, err := rl.Allow(ctx, key)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)
}

package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Rrens/ai-debate/internal/config"
	"github.com/Rrens/ai-debate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchive_SaveGet(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx := context.Background()
	a, err := Connect(ctx, config.MongoConfig{
		URI:        uri,
		Database:   "ai_debate_test",
		Collection: "debates",
		Timeout:    5 * time.Second,
	})
	require.NoError(t, err)
	defer a.Close(ctx)

	record := &domain.DebateRecord{
		SessionID:  "test-" + time.Now().Format("150405.000000"),
		Topic:      "cats",
		TurnLimit:  2,
		Transcript: []domain.Entry{{Speaker: "AI 1", Message: "a"}, {Speaker: "AI 2", Message: "b"}},
		Outcome:    domain.OutcomeCompleted,
		StartedAt:  time.Now().UTC().Truncate(time.Millisecond),
		FinishedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, a.Save(ctx, record))
	require.NoError(t, a.Save(ctx, record))

	got, err := a.Get(ctx, record.SessionID)
	require.NoError(t, err)
	assert.Equal(t, record.Transcript, got.Transcript)
	assert.Equal(t, record.Outcome, got.Outcome)

	recent, err := a.Recent(ctx, 5)
	require.NoError(t, err)
	assert.NotEmpty(t, recent)

	_, err = a.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

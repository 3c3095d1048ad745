package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Rrens/ai-debate/internal/debate"
	"github.com/Rrens/ai-debate/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDebateService(starter *MockStarter, runner *MockSyncRunner, registry domain.SessionRegistry, archive domain.DebateArchive) *DebateService {
	return NewDebateService(debate.NewIssuer(5, 500), starter, runner, registry, archive, 0)
}

func TestDebateService_CreateSession(t *testing.T) {
	svc := newDebateService(new(MockStarter), new(MockSyncRunner), debate.NewMemoryRegistry(), nil)

	t.Run("success", func(t *testing.T) {
		ticket, err := svc.CreateSession(domain.DebateRequest{Topic: "pineapple pizza", Turns: "8"})
		require.NoError(t, err)
		assert.Equal(t, 5, ticket.TurnLimit)
		assert.Equal(t, 8, ticket.RequestedTurns)
		assert.Equal(t, "pineapple pizza", ticket.Topic)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := svc.CreateSession(domain.DebateRequest{Topic: ""})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestDebateService_Start(t *testing.T) {
	starter := new(MockStarter)
	svc := newDebateService(starter, new(MockSyncRunner), debate.NewMemoryRegistry(), nil)
	id := uuid.NewString()

	t.Run("success", func(t *testing.T) {
		starter.On("Start", debate.Ticket{SessionID: id, Topic: "tabs", TurnLimit: 3, RequestedTurns: 3}).Return(nil).Once()

		ticket, err := svc.Start(id, domain.DebateRequest{Topic: "tabs", Turns: "3"})
		require.NoError(t, err)
		assert.Equal(t, id, ticket.SessionID)
		starter.AssertExpectations(t)
	})

	t.Run("already running", func(t *testing.T) {
		starter.On("Start", mock.AnythingOfType("debate.Ticket")).Return(domain.ErrSessionActive).Once()

		_, err := svc.Start(id, domain.DebateRequest{Topic: "tabs"})
		assert.ErrorIs(t, err, domain.ErrSessionActive)
	})

	t.Run("invalid id never starts", func(t *testing.T) {
		_, err := svc.Start("nope", domain.DebateRequest{Topic: "tabs"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		starter.AssertNumberOfCalls(t, "Start", 2)
	})
}

func TestDebateService_RunSync(t *testing.T) {
	ctx := context.Background()

	t.Run("completed", func(t *testing.T) {
		runner := new(MockSyncRunner)
		svc := newDebateService(new(MockStarter), runner, debate.NewMemoryRegistry(), nil)
		record := &domain.DebateRecord{TurnLimit: 2, Outcome: domain.OutcomeCompleted}
		runner.On("Run", mock.Anything, mock.MatchedBy(func(tk debate.Ticket) bool {
			return tk.TurnLimit == 2 && tk.Topic == "tabs"
		})).Return(record, nil)

		got, err := svc.RunSync(ctx, domain.DebateRequest{Topic: "tabs", Turns: "2"})
		require.NoError(t, err)
		assert.Same(t, record, got)
		runner.AssertExpectations(t)
	})

	t.Run("failed debate keeps its record", func(t *testing.T) {
		runner := new(MockSyncRunner)
		svc := newDebateService(new(MockStarter), runner, debate.NewMemoryRegistry(), nil)
		record := &domain.DebateRecord{Outcome: domain.OutcomeFailed, Failure: "AI 2 response failed"}
		runner.On("Run", mock.Anything, mock.Anything).Return(record, errors.New("model down"))

		got, err := svc.RunSync(ctx, domain.DebateRequest{Topic: "tabs"})
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeFailed, got.Outcome)
	})

	t.Run("never ran", func(t *testing.T) {
		runner := new(MockSyncRunner)
		svc := newDebateService(new(MockStarter), runner, debate.NewMemoryRegistry(), nil)
		runner.On("Run", mock.Anything, mock.Anything).Return(nil, domain.ErrSessionActive)

		_, err := svc.RunSync(ctx, domain.DebateRequest{Topic: "tabs"})
		assert.ErrorIs(t, err, domain.ErrSessionActive)
	})

	t.Run("invalid input", func(t *testing.T) {
		runner := new(MockSyncRunner)
		svc := newDebateService(new(MockStarter), runner, debate.NewMemoryRegistry(), nil)

		_, err := svc.RunSync(ctx, domain.DebateRequest{Topic: "tabs", Turns: "x"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
	})
}

func TestDebateService_ActiveAndTranscript(t *testing.T) {
	ctx := context.Background()
	registry := debate.NewMemoryRegistry()
	archive := new(MockArchive)
	svc := newDebateService(new(MockStarter), new(MockSyncRunner), registry, archive)

	session := domain.NewDebateSession("running", "tabs", 3)
	session.Append("AI 1", "tabs rule")
	require.NoError(t, registry.Put(session))

	active := svc.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "running", active[0].SessionID)
	assert.Equal(t, 1, active[0].Turns)

	live, err := svc.Transcript(ctx, "running")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeRunning, live.Outcome)
	assert.Len(t, live.Transcript, 1)

	archived := &domain.DebateRecord{SessionID: "done", Outcome: domain.OutcomeCompleted}
	archive.On("Get", ctx, "done").Return(archived, nil)
	archive.On("Get", ctx, "missing").Return(nil, domain.ErrNotFound)

	got, err := svc.Transcript(ctx, "done")
	require.NoError(t, err)
	assert.Same(t, archived, got)

	_, err = svc.Transcript(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDebateService_TranscriptWithoutArchive(t *testing.T) {
	svc := newDebateService(new(MockStarter), new(MockSyncRunner), debate.NewMemoryRegistry(), nil)
	_, err := svc.Transcript(context.Background(), "anything")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDebateService_Recent(t *testing.T) {
	archive := new(MockArchive)
	svc := newDebateService(new(MockStarter), new(MockSyncRunner), debate.NewMemoryRegistry(), archive)
	ctx := context.Background()
	records := []*domain.DebateRecord{{SessionID: "b"}, {SessionID: "a"}}

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "default", limit: 0, want: DefaultRecentLimit},
		{name: "explicit", limit: 7, want: 7},
		{name: "clamped", limit: 5000, want: MaxRecentLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archive.On("Recent", ctx, tt.want).Return(records, nil).Once()

			got, err := svc.Recent(ctx, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, records, got)
		})
	}

	archive.On("Recent", ctx, 3).Return(nil, errors.New("connection reset")).Once()
	_, err := svc.Recent(ctx, 3)
	assert.ErrorContains(t, err, "failed to list debates")

	archive.AssertExpectations(t)
}

func TestDebateService_RecentWithoutArchive(t *testing.T) {
	svc := newDebateService(new(MockStarter), new(MockSyncRunner), debate.NewMemoryRegistry(), nil)

	got, err := svc.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

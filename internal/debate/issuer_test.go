package debate

import (
	"strings"
	"testing"

	"github.com/Rrens/ai-debate/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_Issue(t *testing.T) {
	issuer := NewIssuer(5, 500)

	tests := []struct {
		name      string
		req       domain.DebateRequest
		wantLimit int
		wantReq   int
		wantTopic string
		wantErr   string
	}{
		{name: "explicit turns", req: domain.DebateRequest{Topic: "cats", Turns: "3"}, wantLimit: 3, wantReq: 3, wantTopic: "cats"},
		{name: "capped", req: domain.DebateRequest{Topic: "cats", Turns: "10"}, wantLimit: 5, wantReq: 10, wantTopic: "cats"},
		{name: "omitted turns", req: domain.DebateRequest{Topic: "cats"}, wantLimit: 5, wantReq: 5, wantTopic: "cats"},
		{name: "topic trimmed", req: domain.DebateRequest{Topic: "  cats  ", Turns: " 2 "}, wantLimit: 2, wantReq: 2, wantTopic: "cats"},
		{name: "empty topic", req: domain.DebateRequest{Topic: "   "}, wantErr: "debate topic is required"},
		{name: "non numeric", req: domain.DebateRequest{Topic: "cats", Turns: "abc"}, wantErr: "invalid turn count"},
		{name: "zero", req: domain.DebateRequest{Topic: "cats", Turns: "0"}, wantErr: "turn count must be at least 1"},
		{name: "negative", req: domain.DebateRequest{Topic: "cats", Turns: "-2"}, wantErr: "turn count must be at least 1"},
		{name: "topic too long", req: domain.DebateRequest{Topic: strings.Repeat("x", 501)}, wantErr: "at most 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket, err := issuer.Issue(tt.req)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, ticket.TurnLimit)
			assert.Equal(t, tt.wantReq, ticket.RequestedTurns)
			assert.Equal(t, tt.wantTopic, ticket.Topic)
			_, err = uuid.Parse(ticket.SessionID)
			assert.NoError(t, err)
		})
	}
}

func TestIssuer_IssueMintsDistinctIDs(t *testing.T) {
	issuer := NewIssuer(5, 500)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ticket, err := issuer.Issue(domain.DebateRequest{Topic: "cats"})
		require.NoError(t, err)
		assert.False(t, seen[ticket.SessionID])
		seen[ticket.SessionID] = true
	}
}

func TestIssuer_Validate(t *testing.T) {
	issuer := NewIssuer(5, 500)
	id := uuid.NewString()

	ticket, err := issuer.Validate(id, domain.DebateRequest{Topic: "cats", Turns: "7"})
	require.NoError(t, err)
	assert.Equal(t, id, ticket.SessionID)
	assert.Equal(t, 5, ticket.TurnLimit)

	_, err = issuer.Validate("not-a-uuid", domain.DebateRequest{Topic: "cats"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = issuer.Validate(id, domain.DebateRequest{Topic: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/ai-debate/internal/debate"
	"github.com/Rrens/ai-debate/internal/domain"
	"github.com/rs/zerolog/log"
)

// BackgroundStarter runs a registered debate without blocking the caller
type BackgroundStarter interface {
	Start(t debate.Ticket) error
}

// SyncRunner runs a debate to its end in the calling goroutine
type SyncRunner interface {
	Run(ctx context.Context, t debate.Ticket) (*domain.DebateRecord, error)
}

// SessionStatus describes a running debate
type SessionStatus struct {
	SessionID string    `json:"sessionId"`
	Topic     string    `json:"topic"`
	TurnLimit int       `json:"turnLimit"`
	Turns     int       `json:"turns"`
	StartedAt time.Time `json:"startedAt"`
}

// DebateService is the entry point for creating, triggering and inspecting debates
type DebateService struct {
	issuer      *debate.Issuer
	starter     BackgroundStarter
	runner      SyncRunner
	registry    domain.SessionRegistry
	archive     domain.DebateArchive
	syncTimeout time.Duration
}

// NewDebateService creates a new debate service. archive may be nil.
func NewDebateService(
	issuer *debate.Issuer,
	starter BackgroundStarter,
	runner SyncRunner,
	registry domain.SessionRegistry,
	archive domain.DebateArchive,
	syncTimeout time.Duration,
) *DebateService {
	return &DebateService{
		issuer:      issuer,
		starter:     starter,
		runner:      runner,
		registry:    registry,
		archive:     archive,
		syncTimeout: syncTimeout,
	}
}

// MaxTurns returns the server-enforced turn cap
func (s *DebateService) MaxTurns() int {
	return s.issuer.MaxTurns()
}

// CreateSession validates req and returns a ticket. No model is called.
func (s *DebateService) CreateSession(req domain.DebateRequest) (*debate.Ticket, error) {
	ticket, err := s.issuer.Issue(req)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("session_id", ticket.SessionID).
		Int("turn_limit", ticket.TurnLimit).
		Int("requested_turns", ticket.RequestedTurns).
		Msg("debate session issued")
	return ticket, nil
}

// Start triggers the debate for a previously issued session ID.
// It returns once the run is registered; results arrive on the update channel.
func (s *DebateService) Start(sessionID string, req domain.DebateRequest) (*debate.Ticket, error) {
	ticket, err := s.issuer.Validate(sessionID, req)
	if err != nil {
		return nil, err
	}
	if err := s.starter.Start(*ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// RunSync runs a whole debate in-request. A debate that fails at some turn
// still returns its record; the error is reserved for requests that never ran.
func (s *DebateService) RunSync(ctx context.Context, req domain.DebateRequest) (*domain.DebateRecord, error) {
	ticket, err := s.issuer.Issue(req)
	if err != nil {
		return nil, err
	}

	if s.syncTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.syncTimeout)
		defer cancel()
	}

	record, err := s.runner.Run(ctx, *ticket)
	if record == nil {
		if err == nil {
			err = fmt.Errorf("%w: debate produced no record", domain.ErrInternalFault)
		}
		return nil, err
	}
	if err != nil {
		log.Warn().Err(err).Str("session_id", ticket.SessionID).Msg("synchronous debate failed")
	}
	return record, nil
}

// Active lists running debates
func (s *DebateService) Active() []SessionStatus {
	ids := s.registry.IDs()
	out := make([]SessionStatus, 0, len(ids))
	for _, id := range ids {
		session, ok := s.registry.Get(id)
		if !ok {
			continue
		}
		out = append(out, SessionStatus{
			SessionID: session.ID,
			Topic:     session.Topic,
			TurnLimit: session.TurnLimit,
			Turns:     session.Len(),
			StartedAt: session.StartedAt,
		})
	}
	return out
}

// Recent history bounds
const (
	DefaultRecentLimit = 20
	MaxRecentLimit     = 100
)

// Recent lists archived debates, most recently finished first. limit is
// clamped to MaxRecentLimit; zero or less selects DefaultRecentLimit.
func (s *DebateService) Recent(ctx context.Context, limit int) ([]*domain.DebateRecord, error) {
	switch {
	case limit <= 0:
		limit = DefaultRecentLimit
	case limit > MaxRecentLimit:
		limit = MaxRecentLimit
	}

	if s.archive == nil {
		return []*domain.DebateRecord{}, nil
	}

	records, err := s.archive.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list debates: %w", err)
	}
	return records, nil
}

// Transcript returns a running debate's transcript so far, or the archived
// record of a finished one
func (s *DebateService) Transcript(ctx context.Context, sessionID string) (*domain.DebateRecord, error) {
	if session, ok := s.registry.Get(sessionID); ok {
		return &domain.DebateRecord{
			SessionID:  session.ID,
			Topic:      session.Topic,
			TurnLimit:  session.TurnLimit,
			Transcript: session.Snapshot(),
			Outcome:    domain.OutcomeRunning,
			StartedAt:  session.StartedAt,
		}, nil
	}

	if s.archive == nil {
		return nil, domain.ErrNotFound
	}

	record, err := s.archive.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load debate: %w", err)
	}
	return record, nil
}

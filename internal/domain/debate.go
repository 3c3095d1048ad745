package domain

import (
	"context"
	"sync"
	"time"
)

// Reserved speaker labels for terminal events
const (
	SpeakerSystem = "System"
	SpeakerError  = "Error"
)

// DebateState is a state of the orchestration state machine
type DebateState string

const (
	StateInitiated DebateState = "initiated"
	StateTurn      DebateState = "turn"
	StateCompleted DebateState = "completed"
	StateFailed    DebateState = "failed"
)

// DebateRequest is the raw input of a debate session request
type DebateRequest struct {
	Topic string `json:"topic"`
	Turns string `json:"turns,omitempty"`
}

// Persona is one side of a debate
type Persona struct {
	Key                 string `json:"key"`
	DisplayName         string `json:"display_name"`
	Provider            string `json:"provider"`
	Model               string `json:"model"`
	Stance              string `json:"stance"`
	InstructionTemplate string `json:"-"`
}

// Entry is one line of a debate transcript
type Entry struct {
	Speaker string `json:"speaker"`
	Message string `json:"message"`
}

// TurnEvent is pushed to the update channel of a session
type TurnEvent struct {
	SessionID   string `json:"sessionId"`
	Speaker     string `json:"speaker"`
	Message     string `json:"message"`
	IsCompleted bool   `json:"isCompleted"`
}

// DebateSession is the in-progress state of one debate run.
// Only the orchestration run that created it appends to the transcript.
type DebateSession struct {
	ID        string
	Topic     string
	TurnLimit int
	StartedAt time.Time

	mu         sync.RWMutex
	transcript []Entry
}

// NewDebateSession creates an empty session
func NewDebateSession(id, topic string, turnLimit int) *DebateSession {
	return &DebateSession{
		ID:         id,
		Topic:      topic,
		TurnLimit:  turnLimit,
		StartedAt:  time.Now(),
		transcript: make([]Entry, 0, turnLimit),
	}
}

// Append adds a turn to the transcript
func (s *DebateSession) Append(speaker, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, Entry{Speaker: speaker, Message: message})
}

// Snapshot returns a copy of the transcript
func (s *DebateSession) Snapshot() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Len returns the number of turns taken so far
func (s *DebateSession) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.transcript)
}

// Debate outcomes
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeRunning   = "running"
)

// DebateRecord is the archived result of a finished debate
type DebateRecord struct {
	SessionID  string    `json:"session_id" bson:"_id"`
	Topic      string    `json:"topic" bson:"topic"`
	TurnLimit  int       `json:"turn_limit" bson:"turn_limit"`
	Transcript []Entry   `json:"debate_log" bson:"transcript"`
	Outcome    string    `json:"outcome" bson:"outcome"`
	Failure    string    `json:"failure,omitempty" bson:"failure,omitempty"`
	StartedAt  time.Time `json:"started_at" bson:"started_at"`
	FinishedAt time.Time `json:"finished_at" bson:"finished_at"`
}

// SessionRegistry tracks running debate sessions
type SessionRegistry interface {
	Put(session *DebateSession) error
	Get(id string) (*DebateSession, bool)
	Remove(id string, owner *DebateSession)
	IDs() []string
}

// EventPublisher delivers turn events to subscribers of a topic.
// Delivery is best-effort: subscribers that join late miss earlier events.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event TurnEvent) error
}

// EventSubscriber opens a subscription on a topic.
// The returned cancel func releases the subscription and closes the channel.
type EventSubscriber interface {
	Subscribe(ctx context.Context, topic string) (<-chan TurnEvent, func(), error)
}

// DebateArchive stores finished debates for later lookup
type DebateArchive interface {
	Save(ctx context.Context, record *DebateRecord) error
	Get(ctx context.Context, sessionID string) (*DebateRecord, error)
	// Recent returns up to limit records, most recently finished first
	Recent(ctx context.Context, limit int) ([]*DebateRecord, error)
}

package debate

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Rrens/ai-debate/internal/domain"
	"github.com/google/uuid"
)

// Ticket is a validated debate request bound to a session ID
type Ticket struct {
	SessionID      string `json:"sessionId"`
	Topic          string `json:"topic"`
	TurnLimit      int    `json:"turnLimit"`
	RequestedTurns int    `json:"requestedTurns"`
}

// Issuer validates debate requests and mints session IDs.
// It never touches the registry: a session only exists once a run starts.
type Issuer struct {
	maxTurns       int
	maxTopicLength int
}

// NewIssuer creates an issuer capping every debate at maxTurns
func NewIssuer(maxTurns, maxTopicLength int) *Issuer {
	return &Issuer{maxTurns: maxTurns, maxTopicLength: maxTopicLength}
}

// MaxTurns returns the server-enforced turn cap
func (i *Issuer) MaxTurns() int {
	return i.maxTurns
}

// Issue validates req and returns a ticket with a fresh session ID
func (i *Issuer) Issue(req domain.DebateRequest) (*Ticket, error) {
	t, err := i.resolve(req)
	if err != nil {
		return nil, err
	}
	t.SessionID = uuid.NewString()
	return t, nil
}

// Validate checks a trigger for a previously issued session ID
func (i *Issuer) Validate(sessionID string, req domain.DebateRequest) (*Ticket, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, domain.InvalidInput("invalid session ID")
	}
	t, err := i.resolve(req)
	if err != nil {
		return nil, err
	}
	t.SessionID = sessionID
	return t, nil
}

func (i *Issuer) resolve(req domain.DebateRequest) (*Ticket, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, domain.InvalidInput("debate topic is required")
	}
	if i.maxTopicLength > 0 && utf8.RuneCountInString(topic) > i.maxTopicLength {
		return nil, domain.InvalidInput("debate topic must be at most " + strconv.Itoa(i.maxTopicLength) + " characters")
	}

	requested := i.maxTurns
	if turns := strings.TrimSpace(req.Turns); turns != "" {
		n, err := strconv.Atoi(turns)
		if err != nil {
			return nil, domain.InvalidInput("invalid turn count")
		}
		if n <= 0 {
			return nil, domain.InvalidInput("turn count must be at least 1")
		}
		requested = n
	}

	return &Ticket{
		Topic:          topic,
		TurnLimit:      min(requested, i.maxTurns),
		RequestedTurns: requested,
	}, nil
}

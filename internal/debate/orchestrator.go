package debate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/ai-debate/internal/bus"
	"github.com/Rrens/ai-debate/internal/domain"
	"github.com/Rrens/ai-debate/internal/llm"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Terminal messages
const (
	MessageCompleted = "debate complete"
	MessageCancelled = "debate cancelled"
	MessageInternal  = "debate stopped by an internal error"
)

const terminalPublishTimeout = 5 * time.Second

// ErrCancelled is returned when a run is stopped through its context
var ErrCancelled = errors.New("debate cancelled")

// Options tunes every model call and the pacing of updates
type Options struct {
	MaxOutputTokens int
	Temperature     float64
	// TurnDelay throttles client-visible updates; zero disables it
	TurnDelay time.Duration
}

// DefaultOptions returns the reference tuning
func DefaultOptions() Options {
	return Options{
		MaxOutputTokens: 300,
		Temperature:     0.7,
		TurnDelay:       time.Second,
	}
}

// Orchestrator drives debates from initiation to completion or failure
type Orchestrator struct {
	registry  domain.SessionRegistry
	invoker   llm.Invoker
	publisher domain.EventPublisher
	archive   domain.DebateArchive
	personas  [2]domain.Persona
	opts      Options
}

// NewOrchestrator creates an orchestrator. archive may be nil.
func NewOrchestrator(
	registry domain.SessionRegistry,
	invoker llm.Invoker,
	publisher domain.EventPublisher,
	archive domain.DebateArchive,
	personas [2]domain.Persona,
	opts Options,
) *Orchestrator {
	return &Orchestrator{
		registry:  registry,
		invoker:   invoker,
		publisher: publisher,
		archive:   archive,
		personas:  personas,
		opts:      opts,
	}
}

// Personas returns the pair in speaking order
func (o *Orchestrator) Personas() [2]domain.Persona {
	return o.personas
}

// Run is a registered debate waiting to be executed
type Run struct {
	o       *Orchestrator
	session *domain.DebateSession
	topic   string
	logger  zerolog.Logger
	// terminated is set once the terminal event went out
	terminated bool
}

// Begin registers an empty transcript for the ticket's session.
// It fails with domain.ErrSessionActive if the ID is already running.
func (o *Orchestrator) Begin(t Ticket) (*Run, error) {
	if t.TurnLimit <= 0 {
		return nil, domain.InvalidInput("turn count must be at least 1")
	}

	session := domain.NewDebateSession(t.SessionID, t.Topic, t.TurnLimit)
	if err := o.registry.Put(session); err != nil {
		return nil, err
	}

	return &Run{
		o:       o,
		session: session,
		topic:   t.Topic,
		logger:  log.With().Str("session_id", t.SessionID).Logger(),
	}, nil
}

// Run registers and executes a debate in the calling goroutine
func (o *Orchestrator) Run(ctx context.Context, t Ticket) (*domain.DebateRecord, error) {
	run, err := o.Begin(t)
	if err != nil {
		return nil, err
	}
	return run.Execute(ctx)
}

// SessionID returns the ID of the run's session
func (r *Run) SessionID() string {
	return r.session.ID
}

// Execute takes every turn, publishes each one and a single terminal event,
// then removes the session from the registry. It is called once per Run.
func (r *Run) Execute(ctx context.Context) (record *domain.DebateRecord, err error) {
	record = &domain.DebateRecord{
		SessionID: r.session.ID,
		Topic:     r.topic,
		TurnLimit: r.session.TurnLimit,
		StartedAt: r.session.StartedAt,
	}

	r.transition(domain.StateInitiated, 0, "")

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", domain.ErrInternalFault, p)
			r.logger.Error().Interface("panic", p).Msg("debate run panicked")
			if !r.terminated {
				r.fail(ctx, record, MessageInternal)
			}
		}

		r.o.registry.Remove(r.session.ID, r.session)
		record.Transcript = r.session.Snapshot()
		record.FinishedAt = time.Now()
		r.save(ctx, record)

		r.logger.Info().
			Str("outcome", record.Outcome).
			Int("turns", len(record.Transcript)).
			Dur("elapsed", record.FinishedAt.Sub(record.StartedAt)).
			Msg("debate finished")
	}()

	if err = r.takeTurns(ctx); err != nil {
		var message string
		switch {
		case errors.Is(err, ErrCancelled):
			message = MessageCancelled
		default:
			message = err.Error()
		}
		r.fail(ctx, record, message)
		return record, err
	}

	record.Outcome = domain.OutcomeCompleted
	r.transition(domain.StateCompleted, r.session.Len(), "")
	r.publishTerminal(ctx, domain.SpeakerSystem, MessageCompleted)
	return record, nil
}

func (r *Run) takeTurns(ctx context.Context) error {
	o := r.o
	limit := r.session.TurnLimit

	for turn := 1; turn <= limit; turn++ {
		if ctx.Err() != nil {
			return ErrCancelled
		}

		persona := o.personas[(turn-1)%2]
		r.transition(domain.StateTurn, turn, persona.DisplayName)

		resp, err := o.invoker.Invoke(ctx, llm.Request{
			Provider:    persona.Provider,
			Model:       persona.Model,
			Prompt:      BuildTurnPrompt(persona, r.topic, r.session.Snapshot()),
			MaxTokens:   o.opts.MaxOutputTokens,
			Temperature: o.opts.Temperature,
		})
		if err != nil {
			if ctx.Err() != nil {
				return ErrCancelled
			}
			return &TurnError{Turn: turn, Speaker: persona.DisplayName, Err: err}
		}

		r.session.Append(persona.DisplayName, resp.Text)
		r.publish(ctx, persona.DisplayName, resp.Text, false)

		if turn < limit && !sleep(ctx, o.opts.TurnDelay) {
			return ErrCancelled
		}
	}

	return nil
}

func (r *Run) fail(ctx context.Context, record *domain.DebateRecord, message string) {
	record.Outcome = domain.OutcomeFailed
	record.Failure = message
	r.transition(domain.StateFailed, r.session.Len(), "")
	r.publishTerminal(ctx, domain.SpeakerError, message)
}

// publishTerminal keeps the final event deliverable after cancellation
func (r *Run) publishTerminal(ctx context.Context, speaker, message string) {
	r.terminated = true
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), terminalPublishTimeout)
	defer cancel()
	r.publish(ctx, speaker, message, true)
}

func (r *Run) publish(ctx context.Context, speaker, message string, completed bool) {
	event := domain.TurnEvent{
		SessionID:   r.session.ID,
		Speaker:     speaker,
		Message:     message,
		IsCompleted: completed,
	}
	if err := r.o.publisher.Publish(ctx, bus.Topic(r.session.ID), event); err != nil {
		r.logger.Warn().Err(err).Str("speaker", speaker).Msg("failed to publish debate update")
		return
	}
	r.logger.Debug().Str("speaker", speaker).Bool("completed", completed).Msg("debate update sent")
}

func (r *Run) save(ctx context.Context, record *domain.DebateRecord) {
	if r.o.archive == nil {
		return
	}
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), terminalPublishTimeout)
	defer cancel()
	if err := r.o.archive.Save(saveCtx, record); err != nil {
		r.logger.Warn().Err(err).Msg("failed to archive debate")
	}
}

func (r *Run) transition(state domain.DebateState, turn int, speaker string) {
	ev := r.logger.Info().Str("state", string(state))
	if turn > 0 {
		ev = ev.Int("turn", turn)
	}
	if speaker != "" {
		ev = ev.Str("speaker", speaker)
	}
	ev.Msg("debate state")
}

// TurnError reports the turn whose model call failed
type TurnError struct {
	Turn    int
	Speaker string
	Err     error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("%s response failed: %v", e.Speaker, e.Err)
}

func (e *TurnError) Unwrap() error {
	return e.Err
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

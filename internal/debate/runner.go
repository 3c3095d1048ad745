package debate

import (
	"context"
	"errors"
	"sync"

	"github.com/Rrens/ai-debate/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
)

// ErrRunnerClosed is returned by Start and Run after Shutdown
var ErrRunnerClosed = errors.New("debate runner is shut down")

// Runner executes debates in the background so triggers return immediately
type Runner struct {
	orchestrator *Orchestrator

	ctx    context.Context
	cancel context.CancelFunc
	wg     conc.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewRunner creates a runner whose debates stop when Shutdown is called
func NewRunner(o *Orchestrator) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		orchestrator: o,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start registers the session and runs it in the background.
// Registration errors such as domain.ErrSessionActive are returned synchronously.
func (r *Runner) Start(t Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRunnerClosed
	}

	run, err := r.orchestrator.Begin(t)
	if err != nil {
		return err
	}

	r.wg.Go(func() {
		if _, err := run.Execute(r.ctx); err != nil {
			log.Debug().Err(err).Str("session_id", run.SessionID()).Msg("background debate ended with error")
		}
	})
	return nil
}

// Run executes a debate in the calling goroutine. It stops when ctx is done
// or the runner shuts down, whichever comes first.
func (r *Runner) Run(ctx context.Context, t Ticket) (*domain.DebateRecord, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrRunnerClosed
	}

	run, err := r.orchestrator.Begin(t)
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}

	var record *domain.DebateRecord
	done := make(chan struct{})
	r.wg.Go(func() {
		defer close(done)

		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		stop := context.AfterFunc(r.ctx, cancel)
		defer stop()

		record, err = run.Execute(runCtx)
	})
	r.mu.Unlock()

	<-done
	return record, err
}

// Shutdown cancels running debates and waits for them to publish their
// terminal events, or until ctx expires.
func (r *Runner) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	r.cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if p := r.wg.WaitAndRecover(); p != nil {
			log.Error().Str("panic", p.String()).Msg("debate runner recovered panic")
		}
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package grobid

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	// DefaultStartTimeout bounds how long the subprocess may take to start.
	DefaultStartTimeout = 5 * time.Second

	// DefaultReadyAttempts is the number of health probes made after launch.
	DefaultReadyAttempts = 20

	// DefaultReadyInterval separates consecutive health probes after launch.
	DefaultReadyInterval = time.Second
)

// Prober checks service health. *Client implements it.
type Prober interface {
	IsAlive(ctx context.Context) error
}

// Supervisor makes sure a GROBID service is reachable, launching one local
// instance if needed. It launches at most once over its lifetime and only
// stops the process it launched itself.
type Supervisor struct {
	prober        Prober
	launcher      Launcher
	process       Process
	startTimeout  time.Duration
	readyAttempts int
	readyInterval time.Duration
	logger        zerolog.Logger
}

// SupervisorOption configures a Supervisor.
type SupervisorOption func(*Supervisor)

// WithStartTimeout sets how long the subprocess may take to start.
func WithStartTimeout(timeout time.Duration) SupervisorOption {
	return func(s *Supervisor) {
		s.startTimeout = timeout
	}
}

// WithReadyPolling sets the post-launch health polling budget.
func WithReadyPolling(attempts int, interval time.Duration) SupervisorOption {
	return func(s *Supervisor) {
		s.readyAttempts = attempts
		s.readyInterval = interval
	}
}

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(logger zerolog.Logger) SupervisorOption {
	return func(s *Supervisor) {
		s.logger = logger
	}
}

// NewSupervisor creates a Supervisor. A nil launcher means the service is
// never launched, only probed.
func NewSupervisor(prober Prober, launcher Launcher, opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		prober:        prober,
		launcher:      launcher,
		startTimeout:  DefaultStartTimeout,
		readyAttempts: DefaultReadyAttempts,
		readyInterval: DefaultReadyInterval,
		logger:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureAvailable returns nil once the service answers its health check.
// When it is already healthy this costs a single probe.
func (s *Supervisor) EnsureAvailable(ctx context.Context) error {
	err := s.prober.IsAlive(ctx)
	if err == nil {
		return nil
	}
	s.logger.Debug().Err(err).Msg("GROBID health check failed")

	if s.process == nil {
		if s.launcher == nil {
			return fmt.Errorf("%w: service is down and launching is disabled", ErrNotReady)
		}
		if err := s.launch(ctx); err != nil {
			return err
		}
	}

	return s.waitReady(ctx)
}

func (s *Supervisor) launch(ctx context.Context) error {
	s.logger.Info().Msg("starting GROBID")

	launchCtx, cancel := context.WithTimeout(ctx, s.startTimeout)
	defer cancel()

	proc, err := s.launcher.Launch(launchCtx)
	if err != nil {
		return fmt.Errorf("launching GROBID: %w", err)
	}
	s.process = proc
	s.logger.Debug().Int("pid", proc.PID()).Msg("GROBID process started")
	return nil
}

func (s *Supervisor) waitReady(ctx context.Context) error {
	limiter := rate.NewLimiter(rate.Every(s.readyInterval), 1)

	for attempt := 1; attempt <= s.readyAttempts; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return fmt.Errorf("waiting for GROBID: %w", err)
		}

		err := s.prober.IsAlive(ctx)
		if err == nil {
			s.logger.Info().Int("attempt", attempt).Msg("GROBID is ready")
			return nil
		}
		s.logger.Debug().Int("attempt", attempt).Err(err).Msg("GROBID not ready yet")

		select {
		case <-s.process.Done():
			if exitErr := s.process.Err(); exitErr != nil {
				s.logger.Debug().Err(exitErr).Msg("GROBID process exited")
				return fmt.Errorf("%w: %v", ErrExited, exitErr)
			}
			return ErrExited
		default:
		}
	}

	return fmt.Errorf("%w: no healthy response after %d attempts", ErrNotReady, s.readyAttempts)
}

// Launched reports whether this supervisor started a process.
func (s *Supervisor) Launched() bool {
	return s.process != nil
}

// Status describes the supervised service.
type Status struct {
	Healthy  bool `json:"healthy"`
	Launched bool `json:"launched"`
	PID      int  `json:"pid,omitempty"`
}

// Status probes the service once and reports what the supervisor knows.
func (s *Supervisor) Status(ctx context.Context) Status {
	st := Status{
		Healthy:  s.prober.IsAlive(ctx) == nil,
		Launched: s.process != nil,
	}
	if s.process != nil {
		st.PID = s.process.PID()
	}
	return st
}

// Shutdown stops the process this supervisor launched, if any. A service
// that was already running before is left alone. The handle is kept so the
// supervisor never launches a second instance.
func (s *Supervisor) Shutdown() error {
	if s.process == nil {
		return nil
	}
	s.logger.Info().Int("pid", s.process.PID()).Msg("stopping GROBID")
	return s.process.Stop()
}

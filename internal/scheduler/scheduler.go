package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler triggers batch passes on a cron cadence. A pass that is still
// running when the next tick fires is not re-entered.
type Scheduler struct {
	cron   *cron.Cron
	spec   string
	run    func(ctx context.Context)
	logger zerolog.Logger
}

// New creates a scheduler that invokes run on the given cron spec
// (standard five-field syntax, e.g. "0 8 1 * *" for 08:00 on the first
// day of every month).
func New(spec string, run func(ctx context.Context), logger zerolog.Logger) (*Scheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}

	cl := cronLogger{logger}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		spec:   spec,
		run:    run,
		logger: logger,
	}, nil
}

// Start registers the job and starts the cron loop. Jobs run with the given
// context so shutdown cancels in-flight passes cooperatively.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.run(ctx) }); err != nil {
		return fmt.Errorf("schedule batch job: %w", err)
	}
	s.cron.Start()
	s.logger.Info().Str("cron", s.spec).Msg("billing scheduler started")
	return nil
}

// Stop stops the cron loop. The returned context is done once any running
// job has finished.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info().Msg("billing scheduler stopping")
	return s.cron.Stop()
}

// cronLogger adapts zerolog to the cron logger interface.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

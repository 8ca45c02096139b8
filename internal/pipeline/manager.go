package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"retailfx/internal/infrastructure"
)

// Manager orchestrates pipeline execution
type Manager struct {
	registry *Registry
	parallel bool
	tracer   *RunTracer
	logger   *slog.Logger
}

// ManagerOptions tune a Manager.
type ManagerOptions struct {
	// Parallel runs the steps of one dependency wave concurrently.
	Parallel bool
	Tracer   *RunTracer
	Logger   *slog.Logger
}

// NewManager creates a manager over registry.
func NewManager(registry *Registry, opts ManagerOptions) *Manager {
	if registry == nil {
		registry = NewRegistry()
	}
	if opts.Tracer == nil {
		opts.Tracer, _ = NewRunTracer(nil)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Manager{
		registry: registry,
		parallel: opts.Parallel,
		tracer:   opts.Tracer,
		logger:   infrastructure.WithComponent(opts.Logger, "pipeline"),
	}
}

// Registry returns the registry for accessing registered steps
func (m *Manager) Registry() *Registry {
	return m.registry
}

// Run executes every registered step in dependency order. An empty runID
// reuses the trace ID already on ctx, or generates one. The returned state is
// populated even when the run fails, so callers can report per-step status.
func (m *Manager) Run(ctx context.Context, runID string) (*RunState, error) {
	if runID == "" {
		ctx = infrastructure.EnsureTraceID(ctx)
		runID = infrastructure.GetTraceID(ctx)
	} else {
		ctx = infrastructure.WithTraceID(ctx, runID)
	}
	state := NewRunState(runID)

	waves, err := m.registry.GetWaves()
	if err != nil {
		m.logger.ErrorContext(ctx, "invalid step graph", slog.String("error", err.Error()))
		return state, err
	}

	total := 0
	for _, w := range waves {
		for _, step := range w {
			state.SetStep(step.ID(), NewStepState(step.ID(), step.Name()))
			total++
		}
	}

	ctx, span := m.tracer.TraceRun(ctx, runID, total)
	m.logger.InfoContext(ctx, "pipeline run started",
		slog.Int("step_count", total),
		slog.Int("wave_count", len(waves)),
		slog.Bool("parallel", m.parallel))

	for i, wave := range waves {
		if err = ctx.Err(); err != nil {
			err = NewCancellationError(wave[0].ID(), err)
		} else {
			err = m.executeWave(ctx, state, wave)
		}
		if err != nil {
			m.skipRemaining(state, waves[i:], err)
			break
		}
	}

	rows := len(state.Rows())
	m.tracer.EndRun(ctx, span, rows, err)

	if err != nil {
		m.logger.ErrorContext(ctx, "pipeline run failed",
			slog.String("step", FailedStep(err)),
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(state.StartTime)))
		return state, err
	}

	m.logger.InfoContext(ctx, "pipeline run completed",
		slog.Int("rows", rows),
		slog.Duration("elapsed", time.Since(state.StartTime)))
	return state, nil
}

func (m *Manager) executeWave(ctx context.Context, state *RunState, wave []Step) error {
	if !m.parallel || len(wave) == 1 {
		for _, step := range wave {
			if err := m.executeStep(ctx, state, step); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, step := range wave {
		g.Go(func() error {
			return m.executeStep(gctx, state, step)
		})
	}
	return g.Wait()
}

func (m *Manager) executeStep(ctx context.Context, state *RunState, step Step) error {
	st := state.Step(step.ID())
	if st == nil {
		return NewFatalError(fmt.Sprintf("step state for %s not found", step.ID()), nil)
	}

	ctx, span := m.tracer.TraceStep(ctx, state.ID, step.ID())
	logger := m.logger.With(slog.String("step", step.ID()))
	logger.InfoContext(ctx, "executing step", slog.String("name", step.Name()))

	st.Start()
	err := step.Execute(ctx, state)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			err = NewCancellationError(step.ID(), err)
		} else {
			err = NewExecutionError(step.ID(), err)
		}
		st.Fail(err)
	} else {
		st.Complete()
	}

	report := st.Report()
	m.tracer.EndStep(ctx, span, step.ID(), st.Duration(), report.RowsOut, err)

	if err != nil {
		logger.ErrorContext(ctx, "step failed", slog.String("error", err.Error()))
		return err
	}
	for _, w := range report.Warnings {
		logger.WarnContext(ctx, "step warning", slog.String("warning", w))
	}
	logger.InfoContext(ctx, "step completed",
		slog.Int("rows_in", report.RowsIn),
		slog.Int("rows_out", report.RowsOut),
		slog.Int64("duration_ms", report.DurationMS))
	return nil
}

// skipRemaining marks every step that never started as skipped.
func (m *Manager) skipRemaining(state *RunState, waves [][]Step, cause error) {
	reason := "run aborted"
	if id := FailedStep(cause); id != "" {
		reason = fmt.Sprintf("run aborted after step %s failed", id)
	}
	for _, w := range waves {
		for _, step := range w {
			if st := state.Step(step.ID()); st != nil && st.Report().Status == StepStatusPending {
				st.Skip(reason)
			}
		}
	}
}

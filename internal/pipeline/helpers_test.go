package pipeline_test

import (
	"context"

	"retailfx/internal/pipeline"
)

type fakeStep struct {
	pipeline.BaseStep
	run func(ctx context.Context, state *pipeline.RunState) error
}

func (f *fakeStep) Execute(ctx context.Context, state *pipeline.RunState) error {
	if f.run == nil {
		return nil
	}
	return f.run(ctx, state)
}

func newStep(id string, run func(context.Context, *pipeline.RunState) error, deps ...string) *fakeStep {
	return &fakeStep{BaseStep: pipeline.NewBaseStep(id, "Step "+id, deps...), run: run}
}

func waveIDs(waves [][]pipeline.Step) [][]string {
	out := make([][]string, len(waves))
	for i, w := range waves {
		for _, s := range w {
			out[i] = append(out[i], s.ID())
		}
	}
	return out
}

package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/profilescan/profilescan/internal/model"
)

// mockStep is a configurable step for pipeline tests.
type mockStep struct {
	name string
	err  error
	fn   func(result *model.ScanResult)
}

func (m *mockStep) Name() string { return m.name }

func (m *mockStep) Do(_ context.Context, result *model.ScanResult) error {
	if m.fn != nil {
		m.fn(result)
	}
	return m.err
}

func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("runs steps in order", func(t *testing.T) {
		t.Parallel()

		var order []string
		p := New()
		p.AddSteps(
			&mockStep{name: "first", fn: func(*model.ScanResult) { order = append(order, "first") }},
			&mockStep{name: "second", fn: func(*model.ScanResult) { order = append(order, "second") }},
		)

		result := model.NewScanResult(model.ScanSubject{GitHub: "jdoe"})
		if err := p.Execute(context.Background(), result); err != nil {
			t.Fatal(err)
		}
		if len(order) != 2 || order[0] != "first" || order[1] != "second" {
			t.Errorf("order = %v", order)
		}
		if len(result.PerformedSteps) != 2 {
			t.Errorf("PerformedSteps = %v", result.PerformedSteps)
		}
	})

	t.Run("stops on first error by default", func(t *testing.T) {
		t.Parallel()

		stepErr := errors.New("boom")
		ran := false
		p := New()
		p.AddSteps(
			&mockStep{name: "failing", err: stepErr},
			&mockStep{name: "after", fn: func(*model.ScanResult) { ran = true }},
		)

		result := model.NewScanResult(model.ScanSubject{GitHub: "jdoe"})
		if err := p.Execute(context.Background(), result); !errors.Is(err, stepErr) {
			t.Errorf("err = %v, want %v", err, stepErr)
		}
		if ran {
			t.Error("step after failure should not run")
		}
		if result.ErrorMessage != "boom" {
			t.Errorf("ErrorMessage = %q", result.ErrorMessage)
		}
	})

	t.Run("continues past errors when configured", func(t *testing.T) {
		t.Parallel()

		ran := false
		p := New(WithContinueOnError(true))
		p.AddSteps(
			&mockStep{name: "failing", err: errors.New("boom")},
			&mockStep{name: "after", fn: func(*model.ScanResult) { ran = true }},
		)

		result := model.NewScanResult(model.ScanSubject{GitHub: "jdoe"})
		if err := p.Execute(context.Background(), result); err != nil {
			t.Fatal(err)
		}
		if !ran {
			t.Error("step after failure should run")
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		p := New()
		p.AddStep(&mockStep{name: "never"})

		result := model.NewScanResult(model.ScanSubject{GitHub: "jdoe"})
		if err := p.Execute(ctx, result); !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
		if len(result.PerformedSteps) != 0 {
			t.Errorf("PerformedSteps = %v, want none", result.PerformedSteps)
		}
	})
}

func TestPipelineStepNames(t *testing.T) {
	t.Parallel()

	p := New()
	p.AddSteps(&mockStep{name: "a"}, &mockStep{name: "b"})

	if p.StepCount() != 2 {
		t.Errorf("StepCount = %d", p.StepCount())
	}
	names := p.StepNames()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("StepNames = %v", names)
	}
}

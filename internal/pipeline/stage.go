package pipeline

import (
	"context"
	"fmt"
)

// Stage is one step of the pipeline.
type Stage interface {
	// Name identifies the stage in logs, traces and errors.
	Name() string

	// Run returns rec with this stage's fields set.
	Run(ctx context.Context, rec Record) (Record, error)
}

// StageFunc adapts a function to the Stage interface.
type StageFunc struct {
	StageName string
	Fn        func(ctx context.Context, rec Record) (Record, error)
}

// Name returns the stage name.
func (s StageFunc) Name() string { return s.StageName }

// Run calls the wrapped function.
func (s StageFunc) Run(ctx context.Context, rec Record) (Record, error) {
	return s.Fn(ctx, rec)
}

// StageError is returned by the runner when a stage fails.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

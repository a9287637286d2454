package core

import (
	"errors"
	"fmt"
)

// Stage names the pipeline stage an error originated from.
type Stage string

const (
	StageCredential Stage = "credential"
	StageRetrieval  Stage = "retrieval"
	StageRerank     Stage = "rerank"
	StageGeneration Stage = "generation"
)

// ErrInvalidCredential marks provider failures caused by a rejected API
// key. Provider adapters wrap 401/403 responses with it so the pipeline can
// report the credential stage instead of whichever stage tripped first.
var ErrInvalidCredential = errors.New("invalid API credential")

// StageError is a pipeline failure tagged with its originating stage. No
// stage retries or swallows errors; the first StageError aborts the
// remaining stages and surfaces to the caller.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// stageError tags err with the given stage, promoting credential rejections
// to the credential stage.
func stageError(stage Stage, err error) error {
	if errors.Is(err, ErrInvalidCredential) {
		stage = StageCredential
	}
	return &StageError{Stage: stage, Err: err}
}

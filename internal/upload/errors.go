package upload

import (
	"errors"
	"fmt"
)

type Step string

const (
	StepRegister      Step = "register"
	StepRegisterChunk Step = "register chunk"
	StepChunk         Step = "upload chunk"
	StepFinish        Step = "finish"
)

var ErrNotAFile = errors.New("upload source is not a regular file")

// StepError names the protocol step that failed. Nothing exists remotely when
// Step is StepRegister; any later step leaves a partial upload behind.
type StepError struct {
	Kind       string
	Step       Step
	Chunk      int // zero-based, only meaningful for chunk steps
	StatusCode int
	Err        error
}

func (e *StepError) Error() string {
	where := string(e.Step)
	if e.Step == StepRegisterChunk || e.Step == StepChunk {
		where = fmt.Sprintf("%s %d", e.Step, e.Chunk)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s upload failed at %s: %v", e.Kind, where, e.Err)
	}
	return fmt.Sprintf("%s upload failed at %s: unexpected status code %d", e.Kind, where, e.StatusCode)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Created reports whether the remote object was registered before the failure.
func (e *StepError) Created() bool {
	return e.Step != StepRegister
}

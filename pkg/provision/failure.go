package provision

import (
	"fmt"

	"github.com/systemstart/djscaffold/pkg/steps"
)

// Failure is returned when provisioning stops before Done.
type Failure struct {
	State State
	Kind  steps.Kind
	Err   error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s failed (%s): %v", f.State, f.Kind, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

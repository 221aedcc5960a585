package api

import "fmt"

// ProjectRequest is the validated input of a single provisioning run.
type ProjectRequest struct {
	name string
}

type projectRequestInput struct {
	Name string `validate:"required,max=100,pathsegment,pyident"`
}

// NewProjectRequest validates name and returns a request for it. The name must
// be usable both as a directory name and as a Python package name.
func NewProjectRequest(name string) (ProjectRequest, error) {
	if err := structError(validatorInstance().Struct(projectRequestInput{Name: name})); err != nil {
		return ProjectRequest{}, fmt.Errorf("invalid project name %q: %w", name, err)
	}
	return ProjectRequest{name: name}, nil
}

// Name returns the project name.
func (r ProjectRequest) Name() string { return r.name }

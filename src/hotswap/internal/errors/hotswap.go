package errors

import (
	stderr "errors"
	"fmt"
)

// ValidationError indicates that a project cannot be used for a hotswap debug session.
// It is raised before any background work is scheduled.
type ValidationError struct {
	Project string
	Reason  string
}

// Error is an implementation of the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("project %q cannot be debugged with hotswap: %s", e.Project, e.Reason)
}

// ProvisioningError indicates that the hotswap agent could not be installed.
type ProvisioningError struct {
	Component string
}

// Error is an implementation of the error interface.
func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("%s install failed", e.Component)
}

// RuntimeUnavailableError indicates that no enhanced runtime is installed.
// The workflow degrades to a warning rather than failing.
type RuntimeUnavailableError struct{}

// Error is an implementation of the error interface.
func (e *RuntimeUnavailableError) Error() string {
	return "no compatible enhanced runtime found"
}

// ConfigResolutionError indicates that no base launch configuration is bound to the project.
type ConfigResolutionError struct {
	Project string
	Kind    string
}

// Error is an implementation of the error interface.
func (e *ConfigResolutionError) Error() string {
	return fmt.Sprintf("no %q launch configuration found for project %q", e.Kind, e.Project)
}

// LaunchDispatchError indicates that the launch request could not be handed to the IDE.
type LaunchDispatchError struct {
	Configuration string
	Cause         error
}

// Error is an implementation of the error interface.
func (e *LaunchDispatchError) Error() string {
	return fmt.Sprintf("dispatching launch of %q: %v", e.Configuration, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *LaunchDispatchError) Unwrap() error {
	return e.Cause
}

// PhasePanicError wraps a value recovered from a panic inside a workflow phase.
type PhasePanicError struct {
	Phase string
	Value interface{}
}

// Error is an implementation of the error interface.
func (e *PhasePanicError) Error() string {
	return fmt.Sprintf("panic during %s: %v", e.Phase, e.Value)
}

// IsFatal reports whether the error stops a hotswap workflow.
// Runtime unavailability is the only classified error that does not.
func IsFatal(e error) bool {
	if e == nil {
		return false
	}
	var ru *RuntimeUnavailableError
	return !stderr.As(e, &ru)
}

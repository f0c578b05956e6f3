package entity

import (
	"fmt"
	"slices"
)

// ProjectRef identifies the project a hotswap debug session is requested for.
// It is produced by the IDE adapter layer before the orchestrator is invoked.
type ProjectRef struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Open         bool     `json:"open"`
	Capabilities []string `json:"capabilities"`
	Location     string   `json:"location,omitempty"`
}

// IsOpen reports whether the project is open in the IDE.
func (p *ProjectRef) IsOpen() bool {
	return p != nil && p.Open
}

// HasCapability reports whether the project supports the given kind (e.g. "java").
func (p *ProjectRef) HasCapability(kind string) bool {
	return p != nil && slices.Contains(p.Capabilities, kind)
}

// String implements fmt.Stringer.
func (p *ProjectRef) String() string {
	if p == nil {
		return "<nil project>"
	}
	return p.Name
}

// OutcomeKind classifies the result of a single provisioning step.
type OutcomeKind int

const (
	// OutcomeSuccess indicates the step completed and produced its detail.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeSkipped indicates the step had nothing to do.
	OutcomeSkipped
	// OutcomeWarning indicates the step degraded, but the workflow may continue.
	OutcomeWarning
	// OutcomeFatal indicates the workflow cannot continue.
	OutcomeFatal
)

// String implements fmt.Stringer.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeWarning:
		return "warning"
	case OutcomeFatal:
		return "fatal"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// ProvisioningOutcome is the immutable result of one provisioning step.
type ProvisioningOutcome struct {
	kind    OutcomeKind
	detail  string
	message string
}

// Success returns an outcome for a completed step.
func Success(detail string) ProvisioningOutcome {
	return ProvisioningOutcome{kind: OutcomeSuccess, detail: detail}
}

// Skipped returns an outcome for a step that had nothing to do.
func Skipped() ProvisioningOutcome {
	return ProvisioningOutcome{kind: OutcomeSkipped}
}

// Warning returns a non-fatal degraded outcome.
func Warning(message string) ProvisioningOutcome {
	return ProvisioningOutcome{kind: OutcomeWarning, message: message}
}

// Fatal returns an outcome that stops the workflow.
func Fatal(message string) ProvisioningOutcome {
	return ProvisioningOutcome{kind: OutcomeFatal, message: message}
}

// Kind returns the outcome classification.
func (o ProvisioningOutcome) Kind() OutcomeKind { return o.kind }

// Detail returns the success detail, if any.
func (o ProvisioningOutcome) Detail() string { return o.detail }

// Message returns the warning or fatal message, if any.
func (o ProvisioningOutcome) Message() string { return o.message }

// Severity orders outcomes: Fatal > Warning > Success and Skipped.
func (o ProvisioningOutcome) Severity() int {
	switch o.kind {
	case OutcomeFatal:
		return 2
	case OutcomeWarning:
		return 1
	default:
		return 0
	}
}

// Worse returns whichever of the two outcomes is more severe, preferring a on ties.
func Worse(a, b ProvisioningOutcome) ProvisioningOutcome {
	if b.Severity() > a.Severity() {
		return b
	}
	return a
}

// SessionStatus is the terminal status of a hotswap debug session request.
type SessionStatus int

const (
	// StatusLaunched indicates the debug launch was dispatched without warnings.
	StatusLaunched SessionStatus = iota
	// StatusCancelled indicates the run was cancelled at a phase boundary.
	StatusCancelled
	// StatusWarning indicates the run completed in a degraded state.
	StatusWarning
	// StatusFailed indicates the run stopped on a fatal error.
	StatusFailed
)

// String implements fmt.Stringer.
func (s SessionStatus) String() string {
	switch s {
	case StatusLaunched:
		return "launched"
	case StatusCancelled:
		return "cancelled"
	case StatusWarning:
		return "warning"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// SessionResult is the single terminal value produced by each orchestration run.
type SessionResult struct {
	Status  SessionStatus `json:"status"`
	Message string        `json:"message,omitempty"`
	Cause   error         `json:"-"`
	// Launched is set when the launch request was dispatched, which may also be the case for a Warning result.
	Launched bool `json:"launched"`
}

// Launched returns a result for a run that dispatched its launch without warnings.
func Launched() SessionResult {
	return SessionResult{Status: StatusLaunched, Launched: true}
}

// Cancelled returns a result for a cancelled run.
func Cancelled() SessionResult {
	return SessionResult{Status: StatusCancelled}
}

// Warned returns a Warning result.
func Warned(message string, launched bool) SessionResult {
	return SessionResult{Status: StatusWarning, Message: message, Launched: launched}
}

// Failed returns a Failed result with the given cause.
func Failed(message string, cause error) SessionResult {
	return SessionResult{Status: StatusFailed, Message: message, Cause: cause}
}

// String implements fmt.Stringer.
func (r SessionResult) String() string {
	if r.Message == "" {
		return r.Status.String()
	}
	return fmt.Sprintf("%s: %s", r.Status, r.Message)
}

// Agent describes an installed hotswap agent.
type Agent struct {
	Version string `json:"version"`
	JarPath string `json:"jarPath"`
}

// Runtime describes an installed enhanced runtime.
type Runtime struct {
	Home       string `json:"home"`
	Version    string `json:"version"`
	Vendor     string `json:"vendor"`
	JavaBinary string `json:"javaBinary"`
}

// HotswapEnv carries what provisioning produced for use during launch configuration resolution.
// Runtime is nil when no enhanced runtime was found.
type HotswapEnv struct {
	Agent   *Agent
	Runtime *Runtime
}

// LaunchMode is the mode a launch configuration is started in.
type LaunchMode string

const (
	// LaunchModeDebug starts the configuration with a debugger attached.
	LaunchModeDebug LaunchMode = "debug"
	// LaunchModeRun starts the configuration without a debugger.
	LaunchModeRun LaunchMode = "run"
)

// LaunchConfig is a persisted descriptor of how to start a program bound to a project.
// The project binding is by name only.
type LaunchConfig struct {
	Name           string            `json:"name"`
	Kind           string            `json:"kind"`
	ProjectName    string            `json:"projectName"`
	MainClass      string            `json:"mainClass"`
	VMArgs         []string          `json:"vmArgs,omitempty"`
	ProgramArgs    []string          `json:"programArgs,omitempty"`
	Attributes     map[string]string `json:"attributes,omitempty"`
	HotswapEnabled bool              `json:"hotswapEnabled"`
	RuntimeHome    string            `json:"runtimeHome,omitempty"`
	DerivedFrom    string            `json:"derivedFrom,omitempty"`
}

// Clone returns a deep copy of the configuration.
func (c *LaunchConfig) Clone() *LaunchConfig {
	if c == nil {
		return nil
	}
	out := *c
	out.VMArgs = slices.Clone(c.VMArgs)
	out.ProgramArgs = slices.Clone(c.ProgramArgs)
	if c.Attributes != nil {
		out.Attributes = make(map[string]string, len(c.Attributes))
		for k, v := range c.Attributes {
			out.Attributes[k] = v
		}
	}
	return &out
}

package entity

import "fmt"

// Phase is a state of the hotswap debug session workflow.
type Phase int

// Phases in the order a run moves through them.
const (
	// PhaseIdle is the state before a run is started.
	PhaseIdle Phase = iota
	// PhaseValidatingProject checks the project synchronously, before any work is scheduled.
	PhaseValidatingProject
	// PhaseCheckingAgent looks for an installed hotswap agent.
	PhaseCheckingAgent
	// PhaseInstallingAgent downloads the agent when none is installed.
	PhaseInstallingAgent
	// PhaseCheckingRuntime looks for an enhanced-redefinition runtime.
	PhaseCheckingRuntime
	// PhasePromptingRuntimeInstall offers install instructions when no runtime is found.
	PhasePromptingRuntimeInstall
	// PhaseResolvingLaunchConfig reuses or derives a hotswap launch configuration.
	PhaseResolvingLaunchConfig
	// PhaseLaunching hands the configuration to the IDE.
	PhaseLaunching
	// PhaseDone is terminal.
	PhaseDone
)

var _phaseNames = map[Phase]string{
	PhaseIdle:                    "idle",
	PhaseValidatingProject:       "validating-project",
	PhaseCheckingAgent:           "checking-agent",
	PhaseInstallingAgent:         "installing-agent",
	PhaseCheckingRuntime:         "checking-runtime",
	PhasePromptingRuntimeInstall: "prompting-runtime-install",
	PhaseResolvingLaunchConfig:   "resolving-launch-config",
	PhaseLaunching:               "launching",
	PhaseDone:                    "done",
}

// String implements fmt.Stringer.
func (p Phase) String() string {
	if name, ok := _phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// ProgressTotal is the total weight consumed by a complete run.
const ProgressTotal = 100

// PhaseWeights assigns the progress budget to the weighted phases.
// Optional branches (installing, prompting) report under the phase they belong to.
var PhaseWeights = map[Phase]uint32{
	PhaseCheckingAgent:         30,
	PhaseCheckingRuntime:       30,
	PhaseResolvingLaunchConfig: 30,
	PhaseLaunching:             10,
}

// WeightedPhases lists the weighted phases in execution order.
var WeightedPhases = []Phase{
	PhaseCheckingAgent,
	PhaseCheckingRuntime,
	PhaseResolvingLaunchConfig,
	PhaseLaunching,
}

// ValidateWeights returns an error if the given weights do not sum to ProgressTotal.
func ValidateWeights(weights map[Phase]uint32) error {
	var sum uint32
	for _, w := range weights {
		sum += w
	}
	if sum != ProgressTotal {
		return fmt.Errorf("phase weights sum to %d, expected %d", sum, ProgressTotal)
	}
	return nil
}

package entity

import "go.lsp.dev/uri"

// MethodLaunch is the notification sent to the IDE to start a launch configuration.
const MethodLaunch = "hotswap/launch"

// LaunchParams is the payload of a MethodLaunch notification.
type LaunchParams struct {
	RunID         string        `json:"runId"`
	Mode          LaunchMode    `json:"mode"`
	Configuration *LaunchConfig `json:"configuration"`
	AgentJar      uri.URI       `json:"agentJar,omitempty"`
	RuntimeHome   uri.URI       `json:"runtimeHome,omitempty"`
}

// CommandResult is returned to the IDE for hotswap workspace commands.
type CommandResult struct {
	RunID  string `json:"runId"`
	Token  string `json:"token,omitempty"`
	Status string `json:"status"`
	// Message is set once the run has completed with a non-empty message.
	Message string `json:"message,omitempty"`
}

// Run status values reported before a run has completed.
const (
	RunStatusRunning = "running"
	RunStatusJoined  = "joined"
)

package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectRef(t *testing.T) {
	tests := []struct {
		name           string
		project        *ProjectRef
		wantOpen       bool
		wantCapability bool
	}{
		{
			name:    "nil project",
			project: nil,
		},
		{
			name:           "open java project",
			project:        &ProjectRef{Name: "app", Open: true, Capabilities: []string{"java", "maven"}},
			wantOpen:       true,
			wantCapability: true,
		},
		{
			name:    "closed project",
			project: &ProjectRef{Name: "app", Capabilities: []string{"java"}},

			wantCapability: true,
		},
		{
			name:     "open project without capability",
			project:  &ProjectRef{Name: "app", Open: true, Capabilities: []string{"web"}},
			wantOpen: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantOpen, tt.project.IsOpen())
			assert.Equal(t, tt.wantCapability, tt.project.HasCapability("java"))
			assert.NotEmpty(t, tt.project.String())
		})
	}
}

func TestWorse(t *testing.T) {
	tests := []struct {
		name string
		a    ProvisioningOutcome
		b    ProvisioningOutcome
		want OutcomeKind
	}{
		{name: "success and skipped", a: Success("ok"), b: Skipped(), want: OutcomeSuccess},
		{name: "success and warning", a: Success("ok"), b: Warning("degraded"), want: OutcomeWarning},
		{name: "warning and fatal", a: Warning("degraded"), b: Fatal("broken"), want: OutcomeFatal},
		{name: "fatal and warning", a: Fatal("broken"), b: Warning("degraded"), want: OutcomeFatal},
		{name: "skipped and success", a: Skipped(), b: Success("ok"), want: OutcomeSkipped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Worse(tt.a, tt.b).Kind())
		})
	}
}

func TestOutcomeAccessors(t *testing.T) {
	assert.Equal(t, "1.2.3", Success("1.2.3").Detail())
	assert.Equal(t, "no runtime", Warning("no runtime").Message())
	assert.Equal(t, "fatal", OutcomeFatal.String())
	assert.Equal(t, "unknown(42)", OutcomeKind(42).String())
}

func TestSessionResult(t *testing.T) {
	assert.Equal(t, SessionResult{Status: StatusLaunched, Launched: true}, Launched())
	assert.Equal(t, StatusCancelled, Cancelled().Status)
	assert.True(t, Warned("no runtime", true).Launched)

	cause := errors.New("boom")
	failed := Failed("agent install failed", cause)
	assert.Equal(t, StatusFailed, failed.Status)
	assert.ErrorIs(t, failed.Cause, cause)
	assert.Equal(t, "failed: agent install failed", failed.String())
	assert.Equal(t, "launched", Launched().String())
}

func TestLaunchConfigClone(t *testing.T) {
	original := &LaunchConfig{
		Name:        "app",
		VMArgs:      []string{"-Xmx1g"},
		ProgramArgs: []string{"--port=8080"},
		Attributes:  map[string]string{"workingDir": "/tmp"},
	}

	clone := original.Clone()
	clone.VMArgs[0] = "-Xmx2g"
	clone.ProgramArgs = append(clone.ProgramArgs, "--debug")
	clone.Attributes["workingDir"] = "/var"
	clone.HotswapEnabled = true

	assert.Equal(t, "-Xmx1g", original.VMArgs[0])
	assert.Len(t, original.ProgramArgs, 1)
	assert.Equal(t, "/tmp", original.Attributes["workingDir"])
	assert.False(t, original.HotswapEnabled)

	var nilConfig *LaunchConfig
	assert.Nil(t, nilConfig.Clone())
}

func TestValidateWeights(t *testing.T) {
	assert.NoError(t, ValidateWeights(PhaseWeights))
	assert.Error(t, ValidateWeights(map[Phase]uint32{PhaseCheckingAgent: 50}))
	assert.Len(t, WeightedPhases, len(PhaseWeights))
	assert.Equal(t, "checking-runtime", PhaseCheckingRuntime.String())
}

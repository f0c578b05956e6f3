package mapper

import (
	"fmt"
	"slices"

	"github.com/uber/hotswap-lsp/src/hotswap/entity"
	"github.com/uber/hotswap-lsp/src/hotswap/model"
	"go.lsp.dev/uri"
	"gopkg.in/yaml.v3"
)

// LaunchConfigToModel maps a LaunchConfig entity to its persisted form.
func LaunchConfigToModel(c *entity.LaunchConfig) *model.LaunchConfig {
	return &model.LaunchConfig{
		Name:        c.Name,
		Type:        c.Kind,
		Project:     c.ProjectName,
		MainClass:   c.MainClass,
		VMArgs:      slices.Clone(c.VMArgs),
		ProgramArgs: slices.Clone(c.ProgramArgs),
		Attributes:  cloneAttributes(c.Attributes),
		Hotswap:     c.HotswapEnabled,
		RuntimeHome: c.RuntimeHome,
		DerivedFrom: c.DerivedFrom,
	}
}

// ModelToLaunchConfig maps a persisted launch configuration to its entity equivalent.
func ModelToLaunchConfig(m *model.LaunchConfig) (*entity.LaunchConfig, error) {
	if m.Name == "" {
		return nil, fmt.Errorf("launch configuration is missing a name")
	}
	return &entity.LaunchConfig{
		Name:           m.Name,
		Kind:           m.Type,
		ProjectName:    m.Project,
		MainClass:      m.MainClass,
		VMArgs:         slices.Clone(m.VMArgs),
		ProgramArgs:    slices.Clone(m.ProgramArgs),
		Attributes:     cloneAttributes(m.Attributes),
		HotswapEnabled: m.Hotswap,
		RuntimeHome:    m.RuntimeHome,
		DerivedFrom:    m.DerivedFrom,
	}, nil
}

// YAMLToLaunchConfig decodes a persisted launch configuration file.
func YAMLToLaunchConfig(data []byte) (*entity.LaunchConfig, error) {
	var m model.LaunchConfig
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding launch configuration: %w", err)
	}
	return ModelToLaunchConfig(&m)
}

// LaunchConfigToYAML encodes a launch configuration for persistence.
func LaunchConfigToYAML(c *entity.LaunchConfig) ([]byte, error) {
	data, err := yaml.Marshal(LaunchConfigToModel(c))
	if err != nil {
		return nil, fmt.Errorf("encoding launch configuration: %w", err)
	}
	return data, nil
}

// LaunchConfigToLaunchParams builds the launch notification for a resolved configuration.
func LaunchConfigToLaunchParams(runID string, c *entity.LaunchConfig, env entity.HotswapEnv) *entity.LaunchParams {
	params := &entity.LaunchParams{
		RunID:         runID,
		Mode:          entity.LaunchModeDebug,
		Configuration: c,
	}
	if env.Agent != nil && env.Agent.JarPath != "" {
		params.AgentJar = uri.File(env.Agent.JarPath)
	}
	if c.RuntimeHome != "" {
		params.RuntimeHome = uri.File(c.RuntimeHome)
	}
	return params
}

func cloneAttributes(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

package factory

import (
	"fmt"

	"github.com/uber/hotswap-lsp/src/hotswap/entity"
)

// JavaProject is a factory for an open project that passes validation.
func JavaProject(name string) *entity.ProjectRef {
	return &entity.ProjectRef{
		ID:           fmt.Sprintf("id-%s", name),
		Name:         name,
		Open:         true,
		Capabilities: []string{"java"},
	}
}

// LaunchConfig is a factory for a Java launch configuration bound to the given project.
func LaunchConfig(name, project string, hotswap bool) *entity.LaunchConfig {
	return &entity.LaunchConfig{
		Name:           name,
		Kind:           "java",
		ProjectName:    project,
		MainClass:      "com.example.Application",
		VMArgs:         []string{"-Xmx1g"},
		HotswapEnabled: hotswap,
	}
}

// Agent is a factory for an installed hotswap agent.
func Agent(version string) *entity.Agent {
	return &entity.Agent{
		Version: version,
		JarPath: fmt.Sprintf("/cache/hotswap/agent/%s/hotswap-agent.jar", version),
	}
}

// Runtime is a factory for a discovered enhanced runtime.
func Runtime(version string) *entity.Runtime {
	home := fmt.Sprintf("/opt/jbr-%s", version)
	return &entity.Runtime{
		Home:       home,
		Version:    version,
		Vendor:     "JetBrains s.r.o.",
		JavaBinary: home + "/bin/java",
	}
}

package mapper

import (
	"go.lsp.dev/protocol"
)

// InitializeResultAppendExecuteCommandProvider appends commands into an existing InitializeResult, skipping commands that are already present.
func InitializeResultAppendExecuteCommandProvider(initResult *protocol.InitializeResult, newOptions *protocol.ExecuteCommandOptions) {
	if initResult.Capabilities.ExecuteCommandProvider == nil {
		initResult.Capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{}
	}

	seen := map[string]struct{}{}
	for _, cmd := range initResult.Capabilities.ExecuteCommandProvider.Commands {
		seen[cmd] = struct{}{}
	}
	for _, cmd := range newOptions.Commands {
		if _, ok := seen[cmd]; ok {
			continue
		}
		seen[cmd] = struct{}{}
		initResult.Capabilities.ExecuteCommandProvider.Commands = append(initResult.Capabilities.ExecuteCommandProvider.Commands, cmd)
	}
}

package model

// LaunchConfig is the on-disk YAML representation of a launch configuration.
type LaunchConfig struct {
	Name        string            `yaml:"name"`
	Type        string            `yaml:"type"`
	Project     string            `yaml:"project"`
	MainClass   string            `yaml:"mainClass"`
	VMArgs      []string          `yaml:"vmArgs,omitempty"`
	ProgramArgs []string          `yaml:"programArgs,omitempty"`
	Attributes  map[string]string `yaml:"attributes,omitempty"`
	Hotswap     bool              `yaml:"hotswap"`
	RuntimeHome string            `yaml:"runtimeHome,omitempty"`
	DerivedFrom string            `yaml:"derivedFrom,omitempty"`
}

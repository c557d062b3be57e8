// Package pipeline defines the release pipeline: the declarative pipeline
// definition, the linear phase machine, and the fail-fast runner.
package pipeline

import "time"

const DefinitionFileName = "shipway.yaml"

// Definition is the declarative pipeline configuration.
// It is read once per run and never mutated afterwards.
type Definition struct {
	Version   string            `yaml:"version"`
	App       App               `yaml:"app"`
	Trigger   Trigger           `yaml:"trigger"`
	Env       map[string]string `yaml:"env,omitempty"`
	Registry  Registry          `yaml:"registry"`
	Toolchain Toolchain         `yaml:"toolchain"`
	Verify    []Step            `yaml:"verify"`
	Build     Build             `yaml:"build"`
	Release   Release           `yaml:"release"`
}

// App identifies the application being released.
type App struct {
	Name    string `yaml:"name"`
	Process string `yaml:"process"`
}

// Trigger declares the condition under which the pipeline runs.
type Trigger struct {
	Branch string `yaml:"branch"`
}

// Registry declares the container registry images are published to.
type Registry struct {
	Host string `yaml:"host"`
}

// Toolchain declares how the build toolchain is prepared before verification.
type Toolchain struct {
	Prepare []Step `yaml:"prepare"`
	// Experimental enables installation of the secondary (nightly) toolchain
	// channel during preparation.
	Experimental bool   `yaml:"experimental,omitempty"`
	Linter       string `yaml:"linter,omitempty"`
}

// Build declares where the build manifest lives and the build context.
type Build struct {
	Manifest string `yaml:"manifest"`
	Context  string `yaml:"context,omitempty"`
}

// Release declares the hosting platform promote command.
type Release struct {
	Platform string `yaml:"platform"`
}

// Step is a single named shell command inside a pipeline phase.
type Step struct {
	Name           string `yaml:"name"`
	Run            string `yaml:"run"`
	TimeoutSeconds int64  `yaml:"timeout_seconds,omitempty"`
}

// Timeout returns the step timeout as a duration, zero when unset.
func (s Step) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// applyDefaults fills optional fields with their conventional values.
func (d *Definition) applyDefaults() {
	if d.Trigger.Branch == "" {
		d.Trigger.Branch = "main"
	}
	if d.Build.Manifest == "" {
		d.Build.Manifest = "build.yaml"
	}
	if d.Build.Context == "" {
		d.Build.Context = "."
	}
	if d.App.Process == "" {
		d.App.Process = "worker"
	}
	if d.Toolchain.Linter == "" {
		d.Toolchain.Linter = "golangci-lint"
	}
	if d.Release.Platform == "" {
		d.Release.Platform = "heroku"
	}
}

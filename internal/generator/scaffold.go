// Package generator scaffolds the pipeline artifacts for a workspace.
package generator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shipwaydev/shipway-cli/internal/pipeline"
	"github.com/shipwaydev/shipway-cli/internal/template"
	"github.com/shipwaydev/shipway-cli/pkg/xos"
)

// Options configures scaffolding for a new workspace.
type Options struct {
	App          string
	Process      string
	Branch       string
	Registry     string
	Platform     string
	BaseImage    string
	User         string
	Experimental bool
}

// applyDefaults fills unset options with their conventional values.
func (o *Options) applyDefaults() {
	if o.Process == "" {
		o.Process = "worker"
	}
	if o.Branch == "" {
		o.Branch = "main"
	}
	if o.Platform == "" {
		o.Platform = "heroku"
	}
	if o.Registry == "" {
		o.Registry = "registry.heroku.com"
	}
	if o.BaseImage == "" {
		o.BaseImage = "golang:1.24-bookworm"
	}
	if o.User == "" {
		o.User = "shipper"
	}
}

// Scaffolder generates pipeline artifacts into a workspace.
type Scaffolder struct {
	root   string
	engine *template.Engine
}

// NewScaffolder creates a scaffolder rooted at the workspace directory.
func NewScaffolder(root string) *Scaffolder {
	return &Scaffolder{
		root:   root,
		engine: template.NewEngine(),
	}
}

// Scaffold writes the pipeline definition, the build manifest, and the CI
// workflow. Existing files are never overwritten.
func (s *Scaffolder) Scaffold(opts Options) ([]string, error) {
	opts.applyDefaults()
	if opts.App == "" {
		return nil, fmt.Errorf("app name is required")
	}

	var written []string

	files := []struct {
		path     string
		template string
	}{
		{pipeline.DefinitionFileName, "shipway.yaml.tmpl"},
		{"build.yaml", "build.yaml.tmpl"},
		{filepath.Join(".github", "workflows", "release.yml"), "workflow.yml.tmpl"},
	}

	for _, file := range files {
		target := filepath.Join(s.root, file.path)
		if _, err := os.Stat(target); err == nil {
			continue // never clobber existing artifacts
		}

		contents, err := s.engine.RenderTemplate(file.template, opts)
		if err != nil {
			return written, err
		}

		if err := xos.CreateDir(filepath.Dir(target), 0755); err != nil {
			return written, fmt.Errorf("failed to create %s: %w", filepath.Dir(file.path), err)
		}
		if err := xos.WriteFile(target, []byte(contents), 0644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", file.path, err)
		}

		written = append(written, file.path)
	}

	return written, nil
}

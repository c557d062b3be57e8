// Package image turns a build manifest into a tagged container image.
package image

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/shipwaydev/shipway-cli/internal/executor"
	"github.com/shipwaydev/shipway-cli/internal/manifest"
	"github.com/shipwaydev/shipway-cli/internal/pipeline"
	"github.com/shipwaydev/shipway-cli/internal/registry"
)

// Builder produces container images from build manifests.
// It implements pipeline.ImageBuilder.
type Builder struct {
	exec    *executor.Executor
	workDir string
	verbose bool
}

// NewBuilder creates a builder rooted at workDir.
func NewBuilder(exec *executor.Executor, workDir string, verbose bool) *Builder {
	return &Builder{exec: exec, workDir: workDir, verbose: verbose}
}

// Build loads the manifest, renders the container build file, and builds a
// tagged image.
//
// The image reference is composed from the registry host, app, and process,
// tagged with the current commit. After a successful build the configured
// runtime user of the image is inspected; a root-equivalent user fails the
// build even if the manifest somehow slipped past validation.
func (b *Builder) Build(ctx context.Context, def *pipeline.Definition) (string, error) {
	manifestPath := filepath.Join(b.workDir, def.Build.Manifest)
	m, err := manifest.LoadFrom(manifestPath)
	if err != nil {
		return "", err
	}

	contextDir := filepath.Join(b.workDir, def.Build.Context)
	buildFile, err := m.WriteBuildFile(contextDir)
	if err != nil {
		return "", err
	}
	defer os.Remove(buildFile)

	ref := registry.Reference(def.Registry.Host, def.App.Name, def.App.Process, Tag(b.workDir))

	if b.verbose {
		fmt.Printf("🐳 Building image %s\n", ref)
	}

	if _, err := b.exec.Run(ctx, "image build", buildCommand(buildFile, ref, contextDir)); err != nil {
		return "", err
	}

	if err := VerifyUser(ctx, ref); err != nil {
		return "", err
	}

	return ref, nil
}

// buildCommand assembles the docker build invocation. Paths are quoted so
// workspaces with spaces in their path survive the shell.
func buildCommand(buildFile, ref, contextDir string) string {
	return fmt.Sprintf("docker build -f %q -t %s %q", buildFile, ref, contextDir)
}

// Tag returns the image tag for the working tree: the short commit SHA, or
// "latest" outside a git repository.
func Tag(workDir string) string {
	cmd := exec.Command("git", "rev-parse", "--short", "HEAD")
	cmd.Dir = workDir
	output, err := cmd.Output()
	if err != nil {
		return "latest"
	}
	return strings.TrimSpace(string(output))
}

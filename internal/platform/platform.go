// Package platform promotes published images to the running deployment on
// the hosting platform.
package platform

import (
	"context"
	"fmt"
	"os"

	"github.com/shipwaydev/shipway-cli/internal/executor"
	"github.com/shipwaydev/shipway-cli/internal/pipeline"
	"github.com/shipwaydev/shipway-cli/internal/registry"
)

// Platform performs the release/promotion action for one hosting provider.
type Platform interface {
	// Name returns the platform identifier used in the pipeline definition.
	Name() string

	// ReleaseCommand returns the shell command that promotes the image for
	// the given app and process type, plus any extra environment it needs.
	ReleaseCommand(def *pipeline.Definition, ref string) (command string, env []string)
}

// Registry of available platforms.
var platforms = map[string]func() Platform{
	"heroku": func() Platform { return herokuPlatform{} },
}

// Get returns a platform instance by name.
func Get(name string) (Platform, error) {
	factory, ok := platforms[name]
	if !ok {
		return nil, fmt.Errorf("unknown platform: %s", name)
	}
	return factory(), nil
}

// Register adds a new platform to the registry.
func Register(name string, factory func() Platform) {
	platforms[name] = factory
}

// Client promotes images through the configured platform's CLI.
// It implements pipeline.Releaser.
type Client struct {
	exec    *executor.Executor
	verbose bool
}

// NewClient creates a platform client running commands through exec.
func NewClient(exec *executor.Executor, verbose bool) *Client {
	return &Client{exec: exec, verbose: verbose}
}

// Release instructs the hosting platform to promote the published image to
// the running deployment. This is the final, all-or-nothing step: a failure
// here leaves the deployment at its previously released image.
func (c *Client) Release(ctx context.Context, def *pipeline.Definition, ref string) error {
	p, err := Get(def.Release.Platform)
	if err != nil {
		return err
	}

	if c.verbose {
		fmt.Printf("🚀 Releasing %s process %q on %s\n", def.App.Name, def.App.Process, p.Name())
	}

	command, env := p.ReleaseCommand(def, ref)
	if _, err := c.exec.RunEnv(ctx, "release", command, env); err != nil {
		return err
	}
	return nil
}

// herokuPlatform releases through the Heroku container CLI.
type herokuPlatform struct{}

func (herokuPlatform) Name() string {
	return "heroku"
}

// ReleaseCommand promotes the most recently pushed image for the process
// type. The platform CLI authenticates with the same API key used for the
// registry login.
func (herokuPlatform) ReleaseCommand(def *pipeline.Definition, ref string) (string, []string) {
	command := fmt.Sprintf("heroku container:release %s --app %s", def.App.Process, def.App.Name)
	env := []string{"HEROKU_API_KEY=" + os.Getenv(registry.APIKeyEnv)}
	return command, env
}

// Package registry handles container registry authentication and publishing.
package registry

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/shipwaydev/shipway-cli/internal/executor"
	"github.com/shipwaydev/shipway-cli/internal/pipeline"
)

// APIKeyEnv is the environment variable the registry credential is injected
// through by the automation platform. The key is never passed on argv.
const APIKeyEnv = "SHIPWAY_API_KEY"

// LoginUser is the fixed username platform container registries expect for
// token-based authentication.
const LoginUser = "_"

// Client authenticates to the registry and pushes tagged images.
// It implements pipeline.Publisher.
type Client struct {
	exec    *executor.Executor
	verbose bool

	apiKey func() string
}

// NewClient creates a registry client running commands through exec.
func NewClient(exec *executor.Executor, verbose bool) *Client {
	return &Client{
		exec:    exec,
		verbose: verbose,
		apiKey:  func() string { return os.Getenv(APIKeyEnv) },
	}
}

// Login authenticates to the registry with the API key from the environment.
// The key is passed over stdin so it never appears in process listings.
func (c *Client) Login(ctx context.Context, def *pipeline.Definition) error {
	key := c.apiKey()
	if key == "" {
		return fmt.Errorf("%w: %s is not set", pipeline.ErrAuth, APIKeyEnv)
	}

	if c.verbose {
		fmt.Printf("🔐 Logging in to %s\n", def.Registry.Host)
	}

	cmd := exec.CommandContext(ctx, "docker", "login", "--username", LoginUser, "--password-stdin", def.Registry.Host)
	cmd.Stdin = strings.NewReader(key)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: docker login to %s: %s", pipeline.ErrAuth, def.Registry.Host, strings.TrimSpace(string(output)))
	}

	return nil
}

// Push publishes the tagged image to the registry.
func (c *Client) Push(ctx context.Context, ref string) error {
	if c.verbose {
		fmt.Printf("📤 Pushing %s\n", ref)
	}
	if _, err := c.exec.Run(ctx, "image push", "docker push "+ref); err != nil {
		return err
	}
	return nil
}

// Reference composes a fully qualified image reference in the platform
// registry convention: host/app/process:tag.
func Reference(host, app, process, tag string) string {
	return fmt.Sprintf("%s/%s/%s:%s", host, app, process, tag)
}

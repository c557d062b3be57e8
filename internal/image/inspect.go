package image

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/shipwaydev/shipway-cli/internal/manifest"
)

// VerifyUser inspects the built image and rejects it when its configured
// runtime user is root-equivalent.
func VerifyUser(ctx context.Context, ref string) error {
	user, err := configuredUser(ctx, ref)
	if err != nil {
		return err
	}
	if err := manifest.ValidateUser(user); err != nil {
		return fmt.Errorf("image %s: %w", ref, err)
	}
	return nil
}

// configuredUser returns the user the image is configured to run as.
func configuredUser(ctx context.Context, ref string) (string, error) {
	cmd := exec.CommandContext(ctx, "docker", "inspect", "-f", "{{.Config.User}}", ref)
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to inspect image %s: %w", ref, err)
	}
	return strings.TrimSpace(string(output)), nil
}

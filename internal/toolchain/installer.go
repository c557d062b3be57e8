package toolchain

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const golangciLintModule = "github.com/golangci/golangci-lint/v2/cmd/golangci-lint@latest"

// Installer handles linter installation into the shipway home directory.
type Installer struct {
	shipwayHome string
	verbose     bool
}

// NewInstaller creates a new linter installer.
func NewInstaller(verbose bool) *Installer {
	shipwayHome := filepath.Join(os.Getenv("HOME"), ".shipway")
	return &Installer{
		shipwayHome: shipwayHome,
		verbose:     verbose,
	}
}

// Install installs the named linter under ~/.shipway/bin.
func (i *Installer) Install(ctx context.Context, linter string) error {
	binDir := filepath.Join(i.shipwayHome, "bin")
	if err := os.MkdirAll(binDir, 0755); err != nil {
		return fmt.Errorf("failed to create bin directory: %w", err)
	}

	module, err := i.moduleFor(linter)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, "go", "install", module)
	cmd.Env = append(os.Environ(), "GOBIN="+binDir)
	if i.verbose {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to install %s: %w", linter, err)
	}

	// Make the freshly installed binary reachable for subsequent steps.
	path := os.Getenv("PATH")
	if !strings.Contains(path, binDir) {
		os.Setenv("PATH", binDir+string(os.PathListSeparator)+path)
	}

	if i.verbose {
		fmt.Printf("✅ Installed %s\n", filepath.Join(binDir, linter))
	}
	return nil
}

// IsInstalled checks if the linter is available.
func (i *Installer) IsInstalled(linter string) bool {
	if _, err := exec.LookPath(linter); err == nil {
		return true
	}
	_, err := os.Stat(filepath.Join(i.shipwayHome, "bin", linter))
	return err == nil
}

// moduleFor maps a linter binary name to its install module path.
func (i *Installer) moduleFor(linter string) (string, error) {
	switch linter {
	case "golangci-lint":
		return golangciLintModule, nil
	case "staticcheck":
		return "honnef.co/go/tools/cmd/staticcheck@latest", nil
	default:
		return "", fmt.Errorf("no known install source for linter %q", linter)
	}
}

package manifest

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// namePattern matches valid kebab-case image names.
	namePattern = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

	// userPattern matches valid POSIX user names.
	userPattern = regexp.MustCompile(`^[a-z_][a-z0-9_-]*$`)
)

// rootEquivalent lists runtime users that would leave the main process with
// root privileges.
var rootEquivalent = map[string]bool{
	"":     true,
	"root": true,
	"0":    true,
	"0:0":  true,
}

// Validate checks the semantic constraints of the manifest.
//
// Privilege de-escalation is a hard requirement: a manifest whose runtime
// user is root-equivalent is rejected before any build starts.
func (m *Manifest) Validate() error {
	if m.Image == "" {
		return fmt.Errorf("image name is required")
	}
	if !namePattern.MatchString(m.Image) {
		return fmt.Errorf("invalid image name %q: must be kebab-case (lowercase letters, numbers, and hyphens only, starting with a letter)", m.Image)
	}

	if m.From == "" {
		return fmt.Errorf("base image (from) is required")
	}

	if !strings.HasPrefix(m.Workdir, "/") {
		return fmt.Errorf("workdir must be an absolute path, got %q", m.Workdir)
	}

	for i, step := range m.Copy {
		if step.Src == "" || step.Dest == "" {
			return fmt.Errorf("copy step %d must declare src and dest", i+1)
		}
	}

	if m.Build == "" {
		return fmt.Errorf("build command is required")
	}

	if err := ValidateUser(m.User.Name); err != nil {
		return err
	}

	if len(m.Entrypoint) == 0 {
		return fmt.Errorf("entrypoint is required")
	}

	return nil
}

// ValidateUser rejects root-equivalent or malformed runtime users.
func ValidateUser(name string) error {
	if rootEquivalent[strings.ToLower(strings.TrimSpace(name))] {
		return fmt.Errorf("runtime user %q is root-equivalent: images must run as an unprivileged user", name)
	}
	if !userPattern.MatchString(name) {
		return fmt.Errorf("invalid runtime user %q", name)
	}
	return nil
}

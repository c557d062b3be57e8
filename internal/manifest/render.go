package manifest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shipwaydev/shipway-cli/internal/template"
	"github.com/shipwaydev/shipway-cli/pkg/xos"
)

// GeneratedFileName is the name of the container build file the renderer
// produces inside the build context.
const GeneratedFileName = "Dockerfile.shipway"

// Render produces the container build file contents for the manifest.
// Output is deterministic: env entries are emitted in sorted key order.
func (m *Manifest) Render() (string, error) {
	engine := template.NewEngine()
	out, err := engine.RenderTemplate("Dockerfile.tmpl", m)
	if err != nil {
		return "", fmt.Errorf("failed to render build file: %w", err)
	}
	return out, nil
}

// WriteBuildFile renders the manifest and writes the build file into the
// build context atomically, returning its path.
func (m *Manifest) WriteBuildFile(contextDir string) (string, error) {
	contents, err := m.Render()
	if err != nil {
		return "", err
	}

	path := filepath.Join(contextDir, GeneratedFileName)
	if err := xos.WriteReader(path, strings.NewReader(contents), 0644); err != nil {
		return "", fmt.Errorf("failed to write build file: %w", err)
	}

	return path, nil
}

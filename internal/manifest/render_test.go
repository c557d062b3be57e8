package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parsedManifest(t *testing.T) *Manifest {
	t.Helper()
	m, err := Parse([]byte(validManifest))
	require.NoError(t, err)
	return m
}

func TestRenderBuildFile(t *testing.T) {
	m := parsedManifest(t)

	out, err := m.Render()
	require.NoError(t, err)

	assert.Contains(t, out, "FROM golang:1.24-bookworm")
	assert.Contains(t, out, "WORKDIR /app")
	assert.Contains(t, out, "COPY . .")
	assert.Contains(t, out, "RUN go build -o /usr/local/bin/congratulator .")
	assert.Contains(t, out, "RUN useradd --create-home --shell /usr/sbin/nologin shipper")
	assert.Contains(t, out, "ENV SHIPWAY_LOG=info")
	assert.Contains(t, out, "USER shipper")
	assert.Contains(t, out, `ENTRYPOINT ["/usr/local/bin/congratulator"]`)
}

func TestRenderIsDeterministic(t *testing.T) {
	m := parsedManifest(t)
	m.Env["ZULU"] = "z"
	m.Env["ALPHA"] = "a"

	first, err := m.Render()
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := m.Render()
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	// Env entries are emitted in sorted key order.
	assert.Less(t, indexOf(t, first, "ENV ALPHA=a"), indexOf(t, first, "ENV ZULU=z"))
}

func TestRenderUserAfterBuild(t *testing.T) {
	// The privilege downgrade must come after the build step so the release
	// binary compiles with full permissions but never runs with them.
	out, err := parsedManifest(t).Render()
	require.NoError(t, err)

	assert.Less(t, indexOf(t, out, "RUN go build"), indexOf(t, out, "USER shipper"))
	assert.Less(t, indexOf(t, out, "USER shipper"), indexOf(t, out, "ENTRYPOINT"))
}

func TestWriteBuildFile(t *testing.T) {
	dir := t.TempDir()

	path, err := parsedManifest(t).WriteBuildFile(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, GeneratedFileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "FROM golang:1.24-bookworm")
}

// indexOf fails the test when substr is absent.
func indexOf(t *testing.T, s, substr string) int {
	t.Helper()
	idx := strings.Index(s, substr)
	require.GreaterOrEqual(t, idx, 0, "expected %q in output", substr)
	return idx
}

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDefinition = `
version: "1"
app:
  name: congratulator
trigger:
  branch: main
registry:
  host: registry.heroku.com
toolchain:
  prepare:
    - name: download modules
      run: go mod download
verify:
  - name: vet
    run: go vet ./...
  - name: lint
    run: golangci-lint run
  - name: test
    run: go test ./...
`

func TestParseValidDefinition(t *testing.T) {
	def, err := Parse([]byte(validDefinition))
	require.NoError(t, err)

	assert.Equal(t, "congratulator", def.App.Name)
	assert.Equal(t, "main", def.Trigger.Branch)
	assert.Equal(t, "registry.heroku.com", def.Registry.Host)
	require.Len(t, def.Verify, 3)
	assert.Equal(t, "go vet ./...", def.Verify[0].Run)
}

func TestParseAppliesDefaults(t *testing.T) {
	def, err := Parse([]byte(validDefinition))
	require.NoError(t, err)

	assert.Equal(t, "worker", def.App.Process)
	assert.Equal(t, "build.yaml", def.Build.Manifest)
	assert.Equal(t, ".", def.Build.Context)
	assert.Equal(t, "golangci-lint", def.Toolchain.Linter)
	assert.Equal(t, "heroku", def.Release.Platform)
	assert.False(t, def.Toolchain.Experimental)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	doc := validDefinition + "\nunknown_field: true\n"
	_, err := Parse([]byte(doc))
	require.Error(t, err)
}

func TestParseRejectsMissingRegistry(t *testing.T) {
	doc := `
version: "1"
app:
  name: congratulator
verify:
  - run: go test ./...
`
	_, err := Parse([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registry")
}

func TestParseRejectsBadAppName(t *testing.T) {
	doc := `
version: "1"
app:
  name: Not_Valid
registry:
  host: registry.heroku.com
verify:
  - run: go test ./...
`
	_, err := Parse([]byte(doc))
	require.Error(t, err)
}

func TestParseRejectsStepWithoutCommand(t *testing.T) {
	doc := `
version: "1"
app:
  name: congratulator
registry:
  host: registry.heroku.com
verify:
  - name: broken
`
	_, err := Parse([]byte(doc))
	require.Error(t, err)
}

func TestParseRejectsDuplicateStepNames(t *testing.T) {
	doc := `
version: "1"
app:
  name: congratulator
registry:
  host: registry.heroku.com
verify:
  - name: test
    run: go test ./...
  - name: test
    run: go test -race ./...
`
	_, err := Parse([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestParseRejectsEmptyVerify(t *testing.T) {
	doc := `
version: "1"
app:
  name: congratulator
registry:
  host: registry.heroku.com
verify: []
`
	_, err := Parse([]byte(doc))
	require.Error(t, err)
}

func TestStepTimeout(t *testing.T) {
	def, err := Parse([]byte(`
version: "1"
app:
  name: congratulator
registry:
  host: registry.heroku.com
verify:
  - name: test
    run: go test ./...
    timeout_seconds: 90
`))
	require.NoError(t, err)
	assert.Equal(t, int64(90), def.Verify[0].TimeoutSeconds)
	assert.Equal(t, "1m30s", def.Verify[0].Timeout().String())
}

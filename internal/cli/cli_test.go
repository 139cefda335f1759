package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/swprops/pkg/types"
)

const frameJSON = `{
  "name": "Frame.SLDASM",
  "kind": "assembly",
  "active_configuration": "Default",
  "properties": [
    {"name": "Material", "value": "Steel"},
    {"name": "Description", "value": "$PRP:\"Material\" frame"}
  ],
  "configurations": [
    {
      "name": "Default",
      "components": [
        {"name": "A-1", "document": "A.SLDASM", "configuration": "Default",
         "children": [{"name": "C-1", "document": "C.SLDPRT", "configuration": "Default"}]},
        {"name": "B-1", "document": "B.SLDPRT", "configuration": "Default"}
      ]
    },
    {
      "name": "Heavy",
      "properties": [{"name": "Material", "value": "Titanium"}]
    }
  ]
}`

const partsJSON = `[
  {"name": "C.SLDPRT", "kind": "part"},
  {"name": "B.SLDPRT", "kind": "part", "properties": [{"name": "Material", "value": "Brass"}]}
]`

// env is an isolated config and data directory pair.
type env struct {
	configDir string
	dataDir   string
}

func newEnv(t *testing.T) env {
	t.Helper()
	return env{configDir: t.TempDir(), dataDir: t.TempDir()}
}

// run executes swprops with args and returns stdout, stderr and the error.
func (e env) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir, "--no-color"}, args...))
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// seeded returns an env whose library holds Frame.SLDASM and two parts.
func seeded(t *testing.T) env {
	t.Helper()
	e := newEnv(t)
	dir := t.TempDir()
	frame := filepath.Join(dir, "frame.json")
	parts := filepath.Join(dir, "parts.json")
	require.NoError(t, os.WriteFile(frame, []byte(frameJSON), 0o644))
	require.NoError(t, os.WriteFile(parts, []byte(partsJSON), 0o644))

	out, _, err := e.run(t, "import", frame, parts)
	require.NoError(t, err)
	assert.Contains(t, out, "imported Frame.SLDASM")
	assert.Contains(t, out, "imported B.SLDPRT")
	return e
}

func exitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}

func TestVersionCmd(t *testing.T) {
	out, _, err := newEnv(t).run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "swprops v"+Version)
	assert.Contains(t, out, modulePath)
}

func TestAboutCmd(t *testing.T) {
	out, _, err := newEnv(t).run(t, "about")
	require.NoError(t, err)
	assert.Contains(t, out, "generic")
	assert.Contains(t, out, "configuration specific")
}

func TestDefaultConfigWritten(t *testing.T) {
	e := newEnv(t)
	_, _, err := e.run(t, "version")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(e.configDir, configFileExt))
	require.NoError(t, err)
	assert.Contains(t, string(data), "backend: document")
}

func TestConfigBackendIsHonored(t *testing.T) {
	e := seeded(t)
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, configFileExt), []byte("backend: bogus\n"), 0o644))

	_, _, err := e.run(t, "property", "Frame.SLDASM", "Material")
	require.Error(t, err)
	assert.Equal(t, exitUserError, exitCode(err))

	out, _, err := e.run(t, "--backend", "session", "property", "Frame.SLDASM", "Material")
	require.NoError(t, err)
	assert.Equal(t, "Steel\n", out)
}

func TestComponentsCmd(t *testing.T) {
	for _, backend := range []string{"document", "session"} {
		t.Run(backend, func(t *testing.T) {
			e := seeded(t)

			out, _, err := e.run(t, "--backend", backend, "--json", "components", "Frame.SLDASM")
			require.NoError(t, err)

			var views []componentView
			require.NoError(t, json.Unmarshal([]byte(out), &views))
			require.Len(t, views, 3)
			assert.Equal(t, []string{"A-1", "C-1", "B-1"}, []string{views[0].Name, views[1].Name, views[2].Name})
			assert.Equal(t, []int{1, 2, 1}, []int{views[0].Depth, views[1].Depth, views[2].Depth})
			assert.Equal(t, "C.SLDPRT", views[1].Document)

			out, _, err = e.run(t, "--backend", backend, "components", "Frame.SLDASM")
			require.NoError(t, err)
			assert.Contains(t, out, "A-1")
			assert.Contains(t, out, "B.SLDPRT")

			out, _, err = e.run(t, "--backend", backend, "components", "--tree", "Frame.SLDASM")
			require.NoError(t, err)
			assert.Contains(t, out, "Frame.SLDASM")
			assert.Contains(t, out, "C-1")
		})
	}
}

func TestComponentsCmd_PartHasNone(t *testing.T) {
	e := seeded(t)
	out, _, err := e.run(t, "components", "C.SLDPRT")
	require.NoError(t, err)
	assert.Contains(t, out, "C.SLDPRT has no components")
}

func TestComponentsCmd_UnknownDocument(t *testing.T) {
	e := seeded(t)
	_, _, err := e.run(t, "components", "Missing.SLDASM")
	require.Error(t, err)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestPropertyCmd(t *testing.T) {
	for _, backend := range []string{"document", "session"} {
		t.Run(backend, func(t *testing.T) {
			e := seeded(t)

			out, _, err := e.run(t, "--backend", backend, "property", "Frame.SLDASM", "Material")
			require.NoError(t, err)
			assert.Equal(t, "Steel\n", out)

			out, _, err = e.run(t, "--backend", backend, "property", "Frame.SLDASM", "Material", "-c", "Heavy")
			require.NoError(t, err)
			assert.Equal(t, "Titanium\n", out)

			out, _, err = e.run(t, "--backend", backend, "property", "Frame.SLDASM", "Description")
			require.NoError(t, err)
			assert.Equal(t, "Steel frame\n", out)

			_, _, err = e.run(t, "--backend", backend, "property", "Frame.SLDASM", "NoSuchProp")
			require.Error(t, err)
			assert.Equal(t, exitUserError, exitCode(err))
			assert.Contains(t, err.Error(), "not set")

			_, _, err = e.run(t, "--backend", backend, "property", "Frame.SLDASM", "Material", "-c", "BadConfig")
			require.Error(t, err)
			assert.Equal(t, exitUserError, exitCode(err))
			assert.Contains(t, err.Error(), "configuration not found")
		})
	}
}

func TestResolveErrorExitCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "unknown configuration", err: fmt.Errorf("%w: \"Light\"", types.ErrConfigurationNotFound), want: exitUserError},
		{name: "empty property name", err: types.ErrInvalidName, want: exitUserError},
		{name: "nil model", err: types.ErrNilModel, want: exitUserError},
		{name: "detached library", err: types.ErrDetached, want: exitSysError},
		{name: "storage failure", err: errors.New("reading properties: disk I/O error"), want: exitSysError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := resolveError(tt.err)
			assert.Equal(t, tt.want, exitCode(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestPropertyCmd_JSON(t *testing.T) {
	e := seeded(t)

	out, _, err := e.run(t, "--json", "property", "Frame.SLDASM", "NoSuchProp")
	require.NoError(t, err)
	var view propertyView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.False(t, view.Found)

	out, _, err = e.run(t, "--json", "property", "B.SLDPRT", "Material")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, propertyView{Document: "B.SLDPRT", Property: "Material", Value: "Brass", Found: true}, view)
}

func TestConfigurationsCmd(t *testing.T) {
	e := seeded(t)
	out, _, err := e.run(t, "configurations", "Frame.SLDASM")
	require.NoError(t, err)
	assert.Equal(t, "* Default\n  Heavy\n", out)
}

func TestImportCmd_BadFile(t *testing.T) {
	e := newEnv(t)
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name": "x", "kind": "sketch"}`), 0o644))

	_, _, err := e.run(t, "import", path)
	require.Error(t, err)
	assert.Equal(t, exitUserError, exitCode(err))

	_, _, err = e.run(t, "import", filepath.Join(t.TempDir(), "missing.json"))
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestVerboseLogsToStderr(t *testing.T) {
	e := seeded(t)
	_, stderr, err := e.run(t, "-v", "configurations", "Frame.SLDASM")
	require.NoError(t, err)
	assert.Contains(t, stderr, "configuration loaded")
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MavenRain/CrossNet-sub002/errors"
)

const shapesYAML = `
name: Shapes
types:
  - name: Circle
    namespace: Geo
    base: Geo.Shape
    methods:
      - name: Area
        returns: double
        override: true
        virtual: true
        body:
          - kind: return
            expr: {kind: literal, value: 1.0}
  - name: Shape
    namespace: Geo
    abstract: true
    methods:
      - {name: Area, returns: double, abstract: true, virtual: true}
`

const closureYAML = `
name: Closures
types:
  - name: Factory
    namespace: Demo
    methods:
      - name: Make
        body:
          - {kind: lambda, params: [], body: {kind: literal, value: 1}}
`

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	os.Exit(m.Run())
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestGenerateToStdout(t *testing.T) {
	modelPath := writeFile(t, "shapes.yaml", shapesYAML)

	stdout, stderr, err := execute(t, "generate", "-m", modelPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "public abstract class Shape")
	assert.Contains(t, stdout, "public override double Area()")
	assert.Contains(t, stderr, "Target")
	assert.NotContains(t, stdout, "Target", "summary stays off stdout")
}

func TestGenerateAllTargetsToDirectory(t *testing.T) {
	modelPath := writeFile(t, "shapes.yaml", shapesYAML)
	dir := t.TempDir()

	stdout, _, err := execute(t, "generate", "-m", modelPath, "-t", "all", "-o", dir)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	for _, name := range []string{
		filepath.Join("cs", "Geo.Shape.cs"),
		filepath.Join("cs", "Geo.Circle.cs"),
		filepath.Join("cpp", "Geo.Shape.cpp"),
		filepath.Join("cpp", "Geo.Circle.cpp"),
	} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	text, err := os.ReadFile(filepath.Join(dir, "cpp", "Geo.Circle.cpp"))
	require.NoError(t, err)
	assert.Contains(t, string(text), "class Circle : public ::Geo::Shape")
}

func TestGenerateModuleGranularityAndExclude(t *testing.T) {
	modelPath := writeFile(t, "shapes.yaml", shapesYAML)
	dir := t.TempDir()

	_, _, err := execute(t, "generate", "-m", modelPath, "-o", dir, "--granularity", "module", "--exclude", "Geo.Circle")
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(dir, "cs"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Shapes.cs", entries[0].Name())

	text, err := os.ReadFile(filepath.Join(dir, "cs", "Shapes.cs"))
	require.NoError(t, err)
	assert.Contains(t, string(text), "class Shape")
	assert.NotContains(t, string(text), "class Circle")
}

func TestConfigFileAndFlagPrecedence(t *testing.T) {
	modelPath := writeFile(t, "shapes.yaml", shapesYAML)
	dir := t.TempDir()
	cfgPath := writeFile(t, "crossnet.toml", "target = \"cpp\"\noutput_dir = \""+filepath.ToSlash(dir)+"\"\n")

	_, _, err := execute(t, "--config", cfgPath, "generate", "-m", modelPath)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "cpp", "Geo.Shape.cpp"))
	assert.NoDirExists(t, filepath.Join(dir, "cs"))

	_, _, err = execute(t, "--config", cfgPath, "generate", "-m", modelPath, "-t", "cs")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "cs", "Geo.Shape.cs"), "flag beats config file")
}

func TestGenerateRejectsBadSettings(t *testing.T) {
	modelPath := writeFile(t, "shapes.yaml", shapesYAML)

	_, _, err := execute(t, "generate", "-m", modelPath, "-t", "java")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target must be one of cs, cpp, all")

	_, _, err = execute(t, "generate")
	require.Error(t, err, "--model is required")
}

func TestGenerateUnsupportedModelFails(t *testing.T) {
	modelPath := writeFile(t, "closures.yaml", closureYAML)
	dir := t.TempDir()

	_, _, err := execute(t, "generate", "-m", modelPath, "-o", dir)
	require.Error(t, err)
	assert.True(t, errors.IsNotImplemented(err))
	assert.Contains(t, err.Error(), "lambda is not implemented (in Demo.Factory.Make)")
	assert.NoDirExists(t, filepath.Join(dir, "cs"), "nothing written on failure")
}

func TestCheck(t *testing.T) {
	stdout, _, err := execute(t, "check", "-m", writeFile(t, "shapes.yaml", shapesYAML))
	require.NoError(t, err)
	assert.Contains(t, stdout, "nothing unsupported")

	stdout, _, err = execute(t, "check", "-m", writeFile(t, "closures.yaml", closureYAML))
	require.Error(t, err)
	assert.True(t, errors.IsNotImplemented(err))
	assert.Contains(t, stdout, "Demo.Factory")
	assert.Contains(t, stdout, "lambda")
	assert.Contains(t, errors.FlattenHints(err), "exclude the listed types")

	_, _, err = execute(t, "check", "-m", writeFile(t, "closures.yaml", closureYAML), "--exclude", "Demo.Factory")
	require.NoError(t, err)
}

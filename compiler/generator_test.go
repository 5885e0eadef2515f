package compiler

import (
	"bytes"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/tools/txtar"

	"github.com/MavenRain/CrossNet-sub002/errors"
	"github.com/MavenRain/CrossNet-sub002/model"
)

// A scenario archive holds model.yaml plus any of:
//
//	cs.want, cpp.want  one expectation per line: "text" must appear in the
//	                   output, "[n] text" must appear exactly n times
//	patches            patch names both targets must report
//	error              text the generation error must contain
type scenario struct {
	model   []byte
	want    map[string][]byte
	patches []string
	err     string
}

func loadScenario(t *testing.T, path string) scenario {
	t.Helper()
	ar, err := txtar.ParseFile(path)
	require.NoError(t, err)
	sc := scenario{want: make(map[string][]byte)}
	for _, f := range ar.Files {
		switch {
		case f.Name == "model.yaml":
			sc.model = f.Data
		case strings.HasSuffix(f.Name, ".want"):
			sc.want[strings.TrimSuffix(f.Name, ".want")] = f.Data
		case f.Name == "patches":
			sc.patches = strings.Fields(string(f.Data))
		case f.Name == "error":
			sc.err = strings.TrimSpace(string(f.Data))
		default:
			t.Fatalf("%s: unexpected file %q", path, f.Name)
		}
	}
	require.NotEmpty(t, sc.model, "%s has no model.yaml", path)
	return sc
}

func generateModule(t *testing.T, target string, src []byte) (Output, error) {
	t.Helper()
	mod, err := model.Decode(bytes.NewReader(src))
	require.NoError(t, err)
	g, err := NewGenerator(Options{
		Target:      target,
		Granularity: GranularityModule,
		Indent:      4,
		Logger:      zaptest.NewLogger(t).Sugar(),
	})
	require.NoError(t, err)
	return g.GenerateModule(mod)
}

func outputText(out Output) string {
	var sb strings.Builder
	for _, f := range out.Files {
		sb.WriteString(f.Text)
	}
	return sb.String()
}

func outputPatches(out Output) []string {
	var all []string
	for _, f := range out.Files {
		all = mergePatches(all, f.Patches)
	}
	return all
}

func checkWant(t *testing.T, text string, want []byte) {
	t.Helper()
	for _, line := range strings.Split(string(want), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "[") {
			if end := strings.Index(line, "] "); end > 0 {
				if n, err := strconv.Atoi(line[1:end]); err == nil {
					sub := line[end+2:]
					assert.Equal(t, n, strings.Count(text, sub), "occurrences of %q in:\n%s", sub, text)
					continue
				}
			}
		}
		assert.Contains(t, text, line)
	}
}

func TestScenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		sc := loadScenario(t, path)
		name := strings.TrimSuffix(filepath.Base(path), ".txtar")
		for _, target := range []string{"cs", "cpp"} {
			t.Run(name+"/"+target, func(t *testing.T) {
				out, err := generateModule(t, target, sc.model)
				if sc.err != "" {
					require.Error(t, err)
					assert.Contains(t, err.Error(), sc.err)
					assert.True(t, errors.IsNotImplemented(err))
					assert.Empty(t, out.Files, "no partial output")
					return
				}
				require.NoError(t, err)
				assert.Equal(t, target, out.Target)
				text := outputText(out)
				if want, ok := sc.want[target]; ok {
					checkWant(t, text, want)
				}
				patches := outputPatches(out)
				for _, p := range sc.patches {
					assert.Contains(t, patches, p)
				}
			})
		}
	}
}

func TestGenerationIsIdempotent(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	require.NoError(t, err)
	for _, path := range paths {
		sc := loadScenario(t, path)
		if sc.err != "" {
			continue
		}
		for _, target := range []string{"cs", "cpp"} {
			first, err := generateModule(t, target, sc.model)
			require.NoError(t, err)
			second, err := generateModule(t, target, sc.model)
			require.NoError(t, err)
			assert.Equal(t, outputText(first), outputText(second), path)
		}
	}
}

const shapesModel = `
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
  - name: Hidden
    namespace: Geo
`

func TestPerTypeFiles(t *testing.T) {
	mod, err := model.Decode(strings.NewReader(shapesModel))
	require.NoError(t, err)
	g, err := NewGenerator(Options{
		Target:   "cpp",
		Excluded: map[string]bool{"Geo.Hidden": true},
		Logger:   zaptest.NewLogger(t).Sugar(),
	})
	require.NoError(t, err)

	out, err := g.GenerateModule(mod)
	require.NoError(t, err)
	require.Len(t, out.Files, 2, "excluded types produce no file")
	assert.Equal(t, "Geo.Shape.cpp", out.Files[0].Name, "bases come first")
	assert.Equal(t, "Geo.Circle.cpp", out.Files[1].Name)
	for _, f := range out.Files {
		assert.True(t, strings.HasPrefix(f.Text, g.Syntax().Prologue()))
		assert.Len(t, f.Types, 1)
	}
	assert.Contains(t, out.Files[0].Text, "\tpublic: virtual double Area() = 0;")
}

func TestGenerateTypeForeignDecl(t *testing.T) {
	mod, err := model.Decode(strings.NewReader(shapesModel))
	require.NoError(t, err)
	g, err := NewGenerator(Options{Target: "cs", Logger: zaptest.NewLogger(t).Sugar()})
	require.NoError(t, err)

	text, err := g.GenerateType(mod.Types[1])
	require.NoError(t, err)
	assert.Contains(t, text, "namespace Geo\n{\n")
	assert.Contains(t, text, "public abstract class Shape")
	assert.Contains(t, text, "public abstract double Area();")

	again, err := g.GenerateType(mod.Types[1])
	require.NoError(t, err)
	assert.Equal(t, text, again)
}

func TestGenerateTypeRejectsClosures(t *testing.T) {
	decl := &model.TypeDecl{Name: "Closures", Namespace: "Demo"}
	decl.Methods = []*model.MethodDecl{{
		Name:          "Make",
		DeclaringType: decl,
		ReturnType:    model.NewNamed("System", "Void", true),
		Body: &model.Block{Statements: []model.Statement{
			&model.ExpressionStatement{Expression: &model.Lambda{Body: &model.Literal{Value: int32(1)}}},
		}},
	}}
	g, err := NewGenerator(Options{Target: "cpp", Logger: zaptest.NewLogger(t).Sugar()})
	require.NoError(t, err)

	text, err := g.GenerateType(decl)
	require.Error(t, err)
	assert.Empty(t, text)
	assert.True(t, errors.IsNotImplemented(err))

	var ni *NotImplementedError
	require.True(t, errors.As(err, &ni))
	assert.Equal(t, "Demo.Closures", ni.Type)
	assert.Equal(t, "Make", ni.Member)
}

func TestNewGeneratorValidates(t *testing.T) {
	_, err := NewGenerator(Options{Target: "java"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown target "java"`)
	assert.Contains(t, errors.FlattenHints(err), "use cs or cpp")

	_, err = NewGenerator(Options{Target: "cs", Granularity: "namespace"})
	require.Error(t, err)

	g, err := NewGenerator(Options{Target: "cs"})
	require.NoError(t, err)
	assert.Equal(t, "cs", g.Syntax().Name())
	assert.Equal(t, Stats{}, g.Stats())
}

func TestSupportCheckerCollectsAllFindings(t *testing.T) {
	const src = `
name: Closures
types:
  - name: A
    namespace: Demo
    methods:
      - name: One
        body:
          - {kind: lambda, params: [], body: {kind: literal, value: 1}}
      - name: Two
        body:
          - kind: anonymous
            type: System.Action
            body: []
  - name: Skipped
    namespace: Demo
    methods:
      - name: Three
        body:
          - {kind: lambda, params: [], body: {kind: literal, value: 1}}
`
	mod, err := model.Decode(strings.NewReader(src))
	require.NoError(t, err)

	sc := &SupportChecker{Excluded: map[string]bool{"Demo.Skipped": true}, Log: zaptest.NewLogger(t).Sugar()}
	err = sc.Run(mod)
	require.Error(t, err)
	assert.True(t, errors.IsNotImplemented(err))
	assert.Contains(t, err.Error(), "lambda is not implemented (in Demo.A.One)")

	findings := sc.Findings()
	require.Len(t, findings, 2)
	assert.Equal(t, "anonymous method", findings[1].Construct)
	assert.Equal(t, "Two", findings[1].Member)

	sc.Excluded = map[string]bool{"Demo.A": true, "Demo.Skipped": true}
	assert.NoError(t, sc.Run(mod))
	assert.Empty(t, sc.Findings())
}

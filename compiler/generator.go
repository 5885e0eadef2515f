package compiler

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/MavenRain/CrossNet-sub002/errors"
	"github.com/MavenRain/CrossNet-sub002/logger"
	"github.com/MavenRain/CrossNet-sub002/model"
)

// Output granularities.
const (
	GranularityType   = "type"
	GranularityModule = "module"
)

// DefaultMaxGenericDepth bounds generic argument rendering when Options
// leaves it unset.
const DefaultMaxGenericDepth = 16

// Options configures a Generator.
type Options struct {
	// Target is the syntax name, "cs" or "cpp".
	Target string
	// Granularity is GranularityType (one file per top-level type) or
	// GranularityModule (one file for the whole module).
	Granularity string
	// Excluded holds full names of types that are never emitted.
	Excluded map[string]bool
	// Indent is the number of spaces per level. Zero indents with tabs.
	Indent          int
	MaxGenericDepth int
	Logger          *zap.SugaredLogger
}

// File is one generated source file.
type File struct {
	Name    string
	Types   []string
	Text    string
	Patches []string
	Unsafe  bool
}

// Output is the result of generating one module for one target.
type Output struct {
	Target string
	Files  []File
	Stats  Stats
}

// Generator renders modules for one target. A Generator is bound to the
// module it last generated and keeps its type system across calls.
type Generator struct {
	opts   Options
	syntax Syntax
	unit   string
	log    *zap.SugaredLogger

	mod    *model.Module
	ts     *TypeSystem
	engine *Engine
}

// NewGenerator validates opts and returns a generator for opts.Target.
func NewGenerator(opts Options) (*Generator, error) {
	unit := "\t"
	if opts.Indent > 0 {
		unit = strings.Repeat(" ", opts.Indent)
	}
	syntax, ok := NewSyntax(opts.Target, unit)
	if !ok {
		return nil, errors.WithHint(errors.Newf("unknown target %q", opts.Target), "use cs or cpp")
	}
	switch opts.Granularity {
	case "":
		opts.Granularity = GranularityType
	case GranularityType, GranularityModule:
	default:
		return nil, errors.Newf("unknown granularity %q", opts.Granularity)
	}
	if opts.MaxGenericDepth <= 0 {
		opts.MaxGenericDepth = DefaultMaxGenericDepth
	}
	log := opts.Logger
	if log == nil {
		log = logger.Logger
	}
	return &Generator{
		opts:   opts,
		syntax: syntax,
		unit:   unit,
		log:    log.With(logger.FieldTarget, opts.Target),
	}, nil
}

// Syntax returns the target syntax.
func (g *Generator) Syntax() Syntax { return g.syntax }

// Stats returns the dispatcher counters accumulated so far.
func (g *Generator) Stats() Stats {
	if g.engine == nil {
		return Stats{}
	}
	return g.engine.Stats()
}

func (g *Generator) bind(mod *model.Module) {
	if g.mod == mod && g.engine != nil {
		return
	}
	g.mod = mod
	g.ts = NewTypeSystem(model.Link(mod), g.opts.MaxGenericDepth)
	g.engine = NewEngine(g.ts, g.syntax, g.unit, g.log)
}

// GenerateType renders decl inside its namespace. When decl belongs to no
// module bound earlier, it is linked as a module of its own.
func (g *Generator) GenerateType(decl *model.TypeDecl) (string, error) {
	if g.engine == nil || !g.declares(decl) {
		root := decl
		for root.DeclaringType != nil {
			root = root.DeclaringType
		}
		g.bind(&model.Module{Name: root.FullName(), Types: []*model.TypeDecl{root}})
	}
	r, err := g.emit(decl)
	if err != nil {
		return "", err
	}
	return r.Text, nil
}

func (g *Generator) declares(decl *model.TypeDecl) bool {
	d, ok := g.ts.index.Lookup(decl.FullName())
	return ok && d == decl
}

func (g *Generator) emit(decl *model.TypeDecl) (r TypeResult, err error) {
	defer recoverNotImplemented(&err)
	r = g.engine.EmitType(decl, g.opts.Excluded)
	if r.Text == "" {
		return r, nil
	}
	ns := decl.Namespace
	for t := decl; t.DeclaringType != nil; t = t.DeclaringType {
		ns = t.DeclaringType.Namespace
	}
	w := NewWriter(g.unit)
	w.Write(g.syntax.NamespaceOpen(ns))
	release := func() {}
	if ns != "" && g.syntax.Name() == "cs" {
		release = w.Indent()
	}
	w.Write(r.Text)
	release()
	w.Write(g.syntax.NamespaceClose(ns))
	r.Text = w.String()
	g.log.Infow("generated type", logger.FieldType, decl.FullName())
	for _, p := range r.Patches {
		g.log.Debugw("patch applied", logger.FieldType, decl.FullName(), logger.FieldPatch, p)
	}
	return r, nil
}

// GenerateModule checks mod for unsupported constructs and renders it. No
// text is returned when any type fails.
func (g *Generator) GenerateModule(mod *model.Module) (Output, error) {
	g.bind(mod)
	gen := &generatePass{g: g}
	pm := &PassManager{
		Module: mod,
		Passes: []Pass{
			&SupportChecker{Excluded: g.opts.Excluded, Log: g.log},
			gen,
		},
		Log: g.log,
	}
	if err := pm.RunPasses(); err != nil {
		return Output{}, err
	}
	out := Output{Target: g.syntax.Name(), Files: gen.files, Stats: g.engine.Stats()}
	g.log.Debugw("dispatch statistics",
		"invocations", out.Stats.Invocations,
		"classifications", out.Stats.Classifications,
		"scans", out.Stats.ScanInvocations,
		logger.FieldCount, len(out.Files))
	return out, nil
}

// generatePass renders every top-level type of a module into files.
type generatePass struct {
	g     *Generator
	files []File
}

func (p *generatePass) Name() string { return "Generate" }

func (p *generatePass) Run(mod *model.Module) error {
	g := p.g
	p.files = nil
	order, err := TopologicalSort(typeGraph(g.ts, mod))
	if err != nil {
		return err
	}
	byName := make(map[string]*model.TypeDecl, len(mod.Types))
	for _, t := range mod.Types {
		byName[t.FullName()] = t
	}

	var module *File
	if g.opts.Granularity == GranularityModule {
		module = &File{Name: mod.Name + g.syntax.FileExtension(), Text: g.syntax.Prologue()}
	}
	for _, name := range order {
		r, err := g.emit(byName[name])
		if err != nil {
			return err
		}
		if r.Text == "" {
			continue
		}
		if module != nil {
			module.Types = append(module.Types, name)
			module.Text += r.Text
			module.Patches = mergePatches(module.Patches, r.Patches)
			module.Unsafe = module.Unsafe || r.Unsafe
			continue
		}
		p.files = append(p.files, File{
			Name:    fileName(name) + g.syntax.FileExtension(),
			Types:   []string{name},
			Text:    g.syntax.Prologue() + r.Text,
			Patches: mergePatches(nil, r.Patches),
			Unsafe:  r.Unsafe,
		})
	}
	if module != nil && len(module.Types) > 0 {
		p.files = append(p.files, *module)
	}
	return nil
}

// fileName turns a full type name into a file stem.
func fileName(fullName string) string {
	return strings.NewReplacer("/", "+", "`", "_", "<", "_", ">", "_").Replace(fullName)
}

func mergePatches(dst, src []string) []string {
	seen := make(map[string]bool, len(dst))
	for _, p := range dst {
		seen[p] = true
	}
	for _, p := range src {
		if !seen[p] {
			seen[p] = true
			dst = append(dst, p)
		}
	}
	sort.Strings(dst)
	return dst
}

package main

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/MavenRain/CrossNet-sub002/compiler"
	"github.com/MavenRain/CrossNet-sub002/config"
	"github.com/MavenRain/CrossNet-sub002/errors"
	"github.com/MavenRain/CrossNet-sub002/logger"
	"github.com/MavenRain/CrossNet-sub002/model"
)

// viperFlags maps config keys to the generate flags that override them.
var viperFlags = map[string]string{
	"target":            "target",
	"granularity":       "granularity",
	"excluded_types":    "exclude",
	"indent":            "indent",
	"max_generic_depth": "max-generic-depth",
	"output_dir":        "output",
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	var modelPath string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate target source from a program model",
		Long: `Generate C# or CrossNet C++ source from a program model.

Without --output the generated files are written to stdout, one after the
other. With --output each target gets its own directory below it.

Examples:
  crossnet generate -m model.yaml -t cpp
  crossnet generate -m model.yaml -t all -o gen/ --granularity module
  crossnet generate -m model.yaml --exclude Demo.Internal,Demo.Debug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, root)
			if err != nil {
				return err
			}
			mod, err := model.DecodeFile(modelPath)
			if err != nil {
				return err
			}
			return runGenerate(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, mod)
		},
	}

	cmd.Flags().StringVarP(&modelPath, "model", "m", "", "Program model to render (YAML)")
	cmd.Flags().StringP("target", "t", config.TargetCSharp, "Target syntax: cs, cpp or all")
	cmd.Flags().StringP("output", "o", "", "Output directory (default: stdout)")
	cmd.Flags().String("granularity", config.GranularityType, "One file per top-level type (type) or per module (module)")
	cmd.Flags().StringSlice("exclude", nil, "Full type names to leave out of the output")
	cmd.Flags().Int("indent", 4, "Spaces per indentation level, 0 for tabs")
	cmd.Flags().Int("max-generic-depth", config.DefaultMaxGenericDepth, "Deepest generic argument nesting rendered")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}

// loadConfig layers the command's flags over the file and environment
// settings prepared by the root command.
func loadConfig(cmd *cobra.Command, root *rootOptions) (*config.Config, error) {
	v := root.v
	if v == nil {
		v = config.New()
	}
	for key, name := range viperFlags {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, errors.Wrapf(err, "failed to bind flag --%s", name)
			}
		}
	}
	return config.LoadWithViper(v)
}

func runGenerate(stdout, stderr io.Writer, cfg *config.Config, mod *model.Module) error {
	log := logger.Named("generate")
	table := pterm.TableData{{"Target", "Files", "Types", "Patches", "Unsafe", "Dispatch"}}

	for _, target := range cfg.Targets() {
		start := time.Now()
		g, err := compiler.NewGenerator(compiler.Options{
			Target:          target,
			Granularity:     cfg.Granularity,
			Excluded:        cfg.Excluded(),
			Indent:          cfg.Indent,
			MaxGenericDepth: cfg.MaxGenericDepth,
			Logger:          log,
		})
		if err != nil {
			return err
		}
		out, err := g.GenerateModule(mod)
		if err != nil {
			return errors.Wrapf(err, "generating %s for module %s", target, mod.Name)
		}
		if err := writeOutput(stdout, cfg.OutputDir, out); err != nil {
			return err
		}
		log.Infow("target done",
			logger.FieldTarget, target,
			logger.FieldCount, len(out.Files),
			logger.FieldDurationMS, time.Since(start).Milliseconds())
		table = append(table, summaryRow(out))
	}

	return pterm.DefaultTable.WithHasHeader().WithWriter(stderr).WithData(table).Render()
}

func summaryRow(out compiler.Output) []string {
	var types, unsafe int
	var patches []string
	seen := make(map[string]bool)
	for _, f := range out.Files {
		types += len(f.Types)
		if f.Unsafe {
			unsafe++
		}
		for _, p := range f.Patches {
			if !seen[p] {
				seen[p] = true
				patches = append(patches, p)
			}
		}
	}
	patchText := "-"
	if len(patches) > 0 {
		patchText = strings.Join(patches, ", ")
	}
	return []string{
		out.Target,
		strconv.Itoa(len(out.Files)),
		strconv.Itoa(types),
		patchText,
		strconv.Itoa(unsafe),
		strconv.Itoa(out.Stats.Invocations) + "/" + strconv.Itoa(out.Stats.Classifications),
	}
}

// writeOutput writes every file of out to stdout, or below dir/<target>.
func writeOutput(stdout io.Writer, dir string, out compiler.Output) error {
	if dir == "" {
		for _, f := range out.Files {
			if _, err := io.WriteString(stdout, f.Text); err != nil {
				return errors.Wrap(err, "failed to write output")
			}
		}
		return nil
	}

	targetDir := filepath.Join(dir, out.Target)
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}
	for _, f := range out.Files {
		path := filepath.Join(targetDir, f.Name)
		if err := os.WriteFile(path, []byte(f.Text), 0644); err != nil {
			return errors.Wrapf(err, "failed to write %s", path)
		}
		logger.Logger.Debugw("wrote file", logger.FieldTarget, out.Target, "path", path)
	}
	return nil
}

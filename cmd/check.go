package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/MavenRain/CrossNet-sub002/compiler"
	"github.com/MavenRain/CrossNet-sub002/errors"
	"github.com/MavenRain/CrossNet-sub002/logger"
	"github.com/MavenRain/CrossNet-sub002/model"
)

func newCheckCmd(root *rootOptions) *cobra.Command {
	var modelPath string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report model constructs that cannot be rendered",
		Long: `Check walks every method body of a program model and lists each construct
the generator has no rendering for (lambdas, anonymous methods). It exits
non-zero when anything is found. Excluded types are skipped.`,
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

			sc := &compiler.SupportChecker{Excluded: cfg.Excluded(), Log: logger.Named("check")}
			err = sc.Run(mod)
			findings := sc.Findings()
			if len(findings) == 0 {
				pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("%s: %d types, nothing unsupported", mod.Name, len(mod.Types))
				return nil
			}

			table := pterm.TableData{{"Type", "Member", "Construct"}}
			for _, f := range findings {
				table = append(table, []string{f.Type, f.Member, f.Construct})
			}
			if rerr := pterm.DefaultTable.WithHasHeader().WithWriter(cmd.OutOrStdout()).WithData(table).Render(); rerr != nil {
				return rerr
			}
			return errors.WithHint(err, "exclude the listed types or rewrite them without closures")
		},
	}

	cmd.Flags().StringVarP(&modelPath, "model", "m", "", "Program model to check (YAML)")
	cmd.Flags().StringSlice("exclude", nil, "Full type names to skip")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}

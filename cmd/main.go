//   ___                  _  _     _
//  / __|_ _ ___ ______ | \| |___| |_
// | (__| '_/ _ (_-<_-< | .` / -_)  _|
//  \___|_| \___/__/__/ |_|\_\___|\__|

package main

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MavenRain/CrossNet-sub002/config"
	"github.com/MavenRain/CrossNet-sub002/errors"
	"github.com/MavenRain/CrossNet-sub002/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		pterm.Error.WithWriter(os.Stderr).Println(err.Error())
		if hint := errors.FlattenHints(err); hint != "" {
			pterm.Info.WithWriter(os.Stderr).Println(hint)
		}
		os.Exit(1)
	}
}

// rootOptions holds the flags shared by every subcommand.
type rootOptions struct {
	configPath string
	verbosity  int
	jsonLog    bool
	v          *viper.Viper
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "crossnet",
		Short: "Render a typed program model as C# or C++ source",
		Long: `crossnet reads a typed object-oriented program model (YAML) and renders it
as C# source or as C++ source targeting the CrossNet runtime.

Settings come from, in order of precedence: command-line flags, CROSSNET_*
environment variables, the --config TOML file, built-in defaults.

Examples:
  crossnet generate -m shapes.yaml                 # C# to stdout
  crossnet generate -m shapes.yaml -t all -o out/  # both targets under out/
  crossnet check -m shapes.yaml                    # list unsupported constructs`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := config.New()
			if opts.configPath != "" {
				v.SetConfigFile(opts.configPath)
				v.SetConfigType("toml")
				if err := v.ReadInConfig(); err != nil {
					return errors.Wrapf(err, "failed to read config file %s", opts.configPath)
				}
			}
			if cmd.Flags().Changed("verbose") {
				v.Set("log.verbosity", opts.verbosity)
			}
			if cmd.Flags().Changed("json-log") {
				v.Set("log.json", opts.jsonLog)
			}
			opts.v = v
			return logger.Initialize(v.GetInt("log.verbosity"), v.GetBool("log.json"))
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Cleanup()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "TOML config file")
	cmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")
	cmd.PersistentFlags().BoolVar(&opts.jsonLog, "json-log", false, "Emit logs as JSON")

	cmd.AddCommand(newGenerateCmd(opts), newCheckCmd(opts))
	return cmd
}

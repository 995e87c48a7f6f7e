// Package cli implements the loadpatch command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/loadpatch/internal/paths"
	"github.com/mesh-intelligence/loadpatch/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	verbose   bool
}

// app carries the state one command invocation shares across subcommands.
type app struct {
	flags     rootFlags
	configDir string
	v         *viper.Viper
	logger    *zap.Logger
}

// NewRootCmd creates the top-level "loadpatch" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "loadpatch",
		Short: "Forward quest alias conditions across a load order",
		Long: "loadpatch reads a load order, finds quest alias conditions that a source mod\n" +
			"adds but later overrides drop, and writes a patch mod that restores them.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory holding plugins.txt (default: .loadpatch-data)")
	root.PersistentFlags().BoolVarP(&a.flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newRunCmd(a))
	root.AddCommand(newPluginsCmd(a))

	return root
}

// setup resolves the config directory, reads config.yaml and builds the
// logger.
func (a *app) setup(cmd *cobra.Command) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), v.GetString(cfgKeyLogLevel), a.flags.verbose)
	if err != nil {
		return err
	}
	a.configDir = configDir
	a.v = v
	a.logger = logger
	return nil
}

// dataDir resolves the data directory from flag, config and environment.
func (a *app) dataDir() (string, error) {
	return paths.ResolveDataDir(a.flags.dataDir, a.v.GetString(cfgKeyDataDir))
}

// exitCode maps an error returned by a command to the process exit status.
// A missing prerequisite mod is a user error; everything else is a
// system error.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, types.ErrMissingMod):
		return exitUserError
	default:
		return exitSysError
	}
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/loadpatch/internal/plugins"
)

func newPluginsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List configured plugins and whether the load order activates them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := decodeRunConfig(a.v)
			if err != nil {
				return err
			}
			dataDir, err := a.dataDir()
			if err != nil {
				return err
			}

			backend, err := a.attach(cfg, dataDir)
			if err != nil {
				return err
			}
			defer backend.Detach()
			lo, err := backend.LoadOrder()
			if err != nil {
				return err
			}

			loader := plugins.NewLoader(a.logger)
			if err := cfg.registerPlugins(loader); err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSENTINEL\tTARGET\tSTATUS")
			for _, d := range loader.Registered() {
				status := "inactive"
				switch {
				case lo.ModExists(d.Sentinel, true) && lo.ModExists(d.Target, true):
					status = "active"
				case lo.ModExists(d.Sentinel, true):
					status = "target missing"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Name, d.Sentinel, d.Target, status)
			}
			return tw.Flush()
		},
	}
}

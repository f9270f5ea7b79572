package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/swarmup/cmd/swarmup/handlers"
)

// Doctor returns the command that checks local prerequisites and the
// cluster file without contacting any node.
func Doctor(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check local tools and the cluster file",
		Long: `Check that the tools needed by the selected transport and trust method
are installed, and that the cluster file is valid and names exactly one
primary manager.

No node is contacted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := g.settings()
			if err != nil {
				return err
			}
			return handlers.Doctor(cmd.Context(), g.clusterFile, settings)
		},
	}
}

package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/swarmup/cmd/swarmup/handlers"
)

// Status returns the command that shows each node's swarm state.
func Status(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show swarm status of every node and what apply would do",
		Long: `Probe every node with docker info and show its swarm status, node ID
and the action apply would take. Nothing is changed on the nodes, although
unknown host keys are still trusted.

Examples:
  swarmup status
  swarmup status -c nodes.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := g.settings()
			if err != nil {
				return err
			}
			return handlers.Status(cmd.Context(), g.clusterFile, settings)
		},
	}
}

package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/modelnav/pkg/commands/options"
	"tableflip.dev/modelnav/pkg/runner/sections"
)

func addSections(topLevel *cobra.Command) {
	var items bool
	cmd := &cobra.Command{
		Use:   "sections <model>",
		Short: "List the sections of a model with their counts.",
		Example: `
modelnav sections Library
modelnav sections Library --items
modelnav sections Library --items --json
`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return modelCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv()
			if err != nil {
				return oo.HandleError(err)
			}
			s := sections.Sections{
				App:   e.app,
				Model: args[0],
				Items: items,
				JSON:  oo.JSON,
				Out:   cmd.OutOrStdout(),
			}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}
	cmd.Flags().BoolVar(&items, "items", false, "list every node key under its section")
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

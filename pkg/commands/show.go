package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/modelnav/pkg/commands/options"
	"tableflip.dev/modelnav/pkg/runner/show"
)

func addShow(topLevel *cobra.Command) {
	i := &options.InteractiveOptions{}
	cmd := &cobra.Command{
		Use:   "show <model> <key>",
		Short: "Print a node of a model as notation text.",
		Long: `Print a node of a model as notation text.

Keys are the ones listed by "modelnav sections <model> --items", e.g.
class:Book, enum:Genre, assoc:0, inv:1, op:Book:0 or qop:Book:0.`,
		Example: `
modelnav show Library class:Book
modelnav show Library op:Book:0 --json
modelnav show -i
`,
		Args: i.Args(2, "requires a model and a key"),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			switch len(args) {
			case 0:
				return modelCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
			case 1:
				return keyCompletions(args[0], toComplete), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv()
			if err != nil {
				return oo.HandleError(err)
			}
			s := show.Show{
				App:         e.app,
				Edit:        e.edit,
				Interactive: i.Interactive,
				Prompt:      i.Prompt(cmd),
				JSON:        oo.JSON,
				Out:         cmd.OutOrStdout(),
			}
			if len(args) > 0 {
				s.Model = args[0]
			}
			if len(args) > 1 {
				if s.Key, err = parseKey(args[1]); err != nil {
					return oo.HandleError(err)
				}
			}
			return oo.HandleError(s.Do(cmd.Context()))
		},
	}
	options.InteractiveArgs(cmd, i)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

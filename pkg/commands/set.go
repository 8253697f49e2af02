package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/modelnav/pkg/runner/set"
)

func addSet(topLevel *cobra.Command) {
	var file string
	cmd := &cobra.Command{
		Use:   "set <model> <key>",
		Short: "Replace a node's notation text and store the result.",
		Long: `Replace a node's notation text and store the result.

The text is read from --file, or stdin when no file is given. Text that does
not convert back into the node's kind is kept as notes on the node and the
structured entity is left as it was.`,
		Example: `
modelnav show Library op:Book:0 > lend.yaml
$EDITOR lend.yaml
modelnav set Library op:Book:0 -f lend.yaml
`,
		Args: cobra.ExactArgs(2),
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
			key, err := parseKey(args[1])
			if err != nil {
				return err
			}
			e, err := loadEnv()
			if err != nil {
				return err
			}
			s := set.Set{
				App:   e.app,
				Edit:  e.edit,
				Model: args[0],
				Key:   key,
				File:  file,
				In:    cmd.InOrStdin(),
				Out:   cmd.OutOrStdout(),
			}
			return s.Do(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "file holding the new text (default stdin)")

	topLevel.AddCommand(cmd)
}

package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/modelnav/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui [model]",
		Short: "open the text-based user interface",
		Example: `
modelnav ui
modelnav ui Library
`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return modelCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			i := ui.UI{
				App:       e.app,
				Converter: e.edit.Converter,
				Timeout:   e.edit.Timeout,
			}
			if len(args) > 0 {
				i.Model = args[0]
			}
			return i.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}

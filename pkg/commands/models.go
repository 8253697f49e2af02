package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/modelnav/pkg/commands/options"
	"tableflip.dev/modelnav/pkg/runner/models"
	"tableflip.dev/modelnav/pkg/snake"
)

func addModels(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List stored models.",
		Example: `
modelnav models
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv()
			if err != nil {
				return oo.HandleError(err)
			}
			r := models.List{App: e.app, Out: cmd.OutOrStdout()}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addImport(topLevel *cobra.Command) {
	var name string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Validate a YAML or JSON model file and store it.",
		Example: `
modelnav import library.yaml
modelnav import library.yaml --name Library
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv()
			if err != nil {
				return err
			}
			r := models.Import{App: e.app, Path: args[0], Name: name, Out: cmd.OutOrStdout()}
			return r.Do(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "store the model under this name instead of the one in the file")

	topLevel.AddCommand(cmd)
}

func addExport(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "export <model> <file>",
		Short: "Write a stored model to a file; .json files get JSON, anything else YAML.",
		Args:  cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return modelCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveDefault
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv()
			if err != nil {
				return err
			}
			r := models.Export{App: e.app, Model: args[0], Path: args[1], Out: cmd.OutOrStdout()}
			return r.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}

func addRemove(topLevel *cobra.Command) {
	var yes bool
	cmd := &cobra.Command{
		Use:   "remove <model>",
		Short: "Delete a stored model and its saved tree state.",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return modelCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if !yes {
				ok, err := snake.Confirm(snake.IO{In: cmd.InOrStdin(), Out: cmd.OutOrStdout()}, "Remove "+args[0]+"?", false)
				if err != nil {
					return err
				}
				if !ok {
					return errors.New("aborted")
				}
			}
			e, err := loadEnv()
			if err != nil {
				return err
			}
			r := models.Remove{App: e.app, Model: args[0], Out: cmd.OutOrStdout()}
			return r.Do(cmd.Context())
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	topLevel.AddCommand(cmd)
}

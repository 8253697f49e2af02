package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/modelnav/pkg/runner/validate"
)

func addValidate(topLevel *cobra.Command) {
	var sections bool
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a model file without storing it.",
		Example: `
modelnav validate library.yaml --sections
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			v := validate.Validate{Path: args[0], Sections: sections, Out: cmd.OutOrStdout()}
			return v.Do(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&sections, "sections", false, "print section counts of a valid model")

	topLevel.AddCommand(cmd)
}

package options

import (
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/modelnav/pkg/snake"
)

// InteractiveOptions
type InteractiveOptions struct {
	Interactive bool
}

func InteractiveArgs(cmd *cobra.Command, o *InteractiveOptions) {
	cmd.Flags().BoolVarP(&o.Interactive, "interactive", "i", false,
		`Pick the model and node from a list instead of passing them as arguments.`)
}

// Prompt binds the pickers to the command's input and output.
func (o *InteractiveOptions) Prompt(cmd *cobra.Command) snake.IO {
	return snake.IO{In: cmd.InOrStdin(), Out: cmd.OutOrStdout()}
}

// Args accepts up to n positional args when interactive and exactly n
// otherwise.
func (o *InteractiveOptions) Args(n int, missing string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if o.Interactive {
			return cobra.MaximumNArgs(n)(cmd, args)
		}
		if len(args) != n {
			return errors.New(missing)
		}
		return nil
	}
}

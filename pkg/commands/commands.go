package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/modelnav/pkg/commands/options"
)

var (
	oo = &options.OutputOptions{}
	do = &options.DebugOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "modelnav",
		Short: base.Wrap80("Browse and edit class models as notation text."),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			oo.Out = cmd.OutOrStdout()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	options.AddDebugArg(cmd, do)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addModels(topLevel)
	addImport(topLevel)
	addExport(topLevel)
	addRemove(topLevel)
	addSections(topLevel)
	addShow(topLevel)
	addSet(topLevel)
	addValidate(topLevel)
	addInfo(topLevel)
	addMCP(topLevel)
	addNotation(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

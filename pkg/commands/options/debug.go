package options

import (
	"github.com/spf13/cobra"
)

// DebugOptions
type DebugOptions struct {
	Debug bool
}

func AddDebugArg(cmd *cobra.Command, o *DebugOptions) {
	cmd.PersistentFlags().BoolVar(&o.Debug, "debug", false,
		"Log editor and notation activity to stderr.")
}

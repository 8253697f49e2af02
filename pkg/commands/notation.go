package commands

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"tableflip.dev/modelnav/pkg/log"
	"tableflip.dev/modelnav/pkg/notation/yamlnotation"
	"tableflip.dev/modelnav/pkg/runner/notationd"
)

func addNotation(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "notation",
		Short: "Notation service commands",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	var addr string
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the YAML notation over HTTP for clients configured with notation: remote",
		Example: `
modelnav notation serve --addr 127.0.0.1:8081
MODELNAV_NOTATION=remote MODELNAV_REMOTE_URL=http://127.0.0.1:8081 modelnav ui
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var l log.Logger = log.Discard{}
			if do.Debug {
				l = log.Root.With("component", "notationd")
			}
			s := notationd.Serve{
				Converter:  yamlnotation.New(),
				ListenAddr: addr,
				Logger:     l,
				OnListening: func(a net.Addr) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "notation service listening on http://%s\n", a)
				},
			}
			return s.Do(cmd.Context())
		},
	}
	serve.Flags().StringVar(&addr, "addr", "127.0.0.1:8081", "listen address")

	cmd.AddCommand(serve)
	topLevel.AddCommand(cmd)
}

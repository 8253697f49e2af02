package commands

import (
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/modelnav/pkg/runner/mcp"
)

func addMCP(topLevel *cobra.Command) {
	var (
		transport string
		host      string
		port      int
		readOnly  bool
		httpOpts  mcp.HTTPOptions
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve stored models over the Model Context Protocol.",
		Long: `Launch an MCP server that exposes stored models, their sections and
node notation text. Tools: list_models, list_sections, get_node and, unless
--read-only is set, update_node. Resources: modelnav://models and
modelnav://models/{name}.`,
		Example: `
modelnav mcp --transport stdio
modelnav mcp --http-port 0 --read-only
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv()
			if err != nil {
				return err
			}

			r := mcp.Runner{
				App:      e.app,
				Edit:     e.edit,
				ReadOnly: readOnly,
				Name:     "modelnav",
				Version:  version,
			}

			switch mcp.Transport(strings.ToLower(strings.TrimSpace(transport))) {
			case "", mcp.TransportHTTP:
				if port < 0 || port > 65535 {
					return fmt.Errorf("invalid http-port %d", port)
				}
				h := strings.TrimSpace(host)
				if h == "" {
					h = "127.0.0.1"
				}
				r.Transport = mcp.TransportHTTP
				r.HTTP = httpOpts
				r.HTTP.ListenAddr = net.JoinHostPort(h, strconv.Itoa(port))
				r.HTTP.OnListening = func(a net.Addr) {
					announce(cmd.OutOrStdout(), h, a, r.HTTP)
				}
			case mcp.TransportStdio:
				r.Transport = mcp.TransportStdio
			default:
				return fmt.Errorf("unsupported transport %q (expected http or stdio)", transport)
			}

			return r.Do(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&transport, "transport", string(mcp.TransportHTTP), "transport to use: http or stdio")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "do not offer the update_node tool")
	cmd.Flags().StringVar(&host, "http-host", "127.0.0.1", "host/interface for HTTP transport")
	cmd.Flags().IntVar(&port, "http-port", 8080, "port for HTTP transport (use 0 for random)")
	cmd.Flags().StringVar(&httpOpts.Path, "http-path", "/mcp", "HTTP endpoint path")
	cmd.Flags().StringVar(&httpOpts.CertFile, "http-tls-cert", "", "TLS certificate file for HTTPS")
	cmd.Flags().StringVar(&httpOpts.KeyFile, "http-tls-key", "", "TLS private key file for HTTPS")

	topLevel.AddCommand(cmd)
}

// announce prints the URL clients should connect to. Wildcard hosts are
// replaced by the bound IP, or loopback.
func announce(w io.Writer, host string, a net.Addr, o mcp.HTTPOptions) {
	scheme := "http"
	if o.TLS() {
		scheme = "https"
	}
	tcp, ok := a.(*net.TCPAddr)
	if !ok {
		_, _ = fmt.Fprintf(w, "MCP server listening on %s://%s%s\n", scheme, a, o.EndpointPath())
		return
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
		if tcp.IP != nil && !tcp.IP.IsUnspecified() {
			host = tcp.IP.String()
		}
	}
	_, _ = fmt.Fprintf(w, "MCP server listening on %s://%s%s\n", scheme, net.JoinHostPort(host, strconv.Itoa(tcp.Port)), o.EndpointPath())
}

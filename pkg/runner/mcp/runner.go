package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/modelnav/pkg/app"
)

// Transport selects the mechanism used to expose the MCP server.
type Transport string

const (
	// TransportHTTP serves MCP via the streamable HTTP transport.
	TransportHTTP Transport = "http"
	// TransportStdio serves MCP over stdio.
	TransportStdio Transport = "stdio"
)

const (
	defaultListenAddr = "127.0.0.1:8080"
	defaultPath       = "/mcp"
)

// HTTPOptions configure the streamable HTTP transport.
type HTTPOptions struct {
	ListenAddr string
	Path       string
	CertFile   string
	KeyFile    string
	// OnListening is called with the bound address before serving starts.
	OnListening func(net.Addr)
}

// TLS reports whether both a certificate and a key were given.
func (o HTTPOptions) TLS() bool { return o.CertFile != "" && o.KeyFile != "" }

// EndpointPath returns Path with a leading slash, or the default.
func (o HTTPOptions) EndpointPath() string {
	p := strings.TrimSpace(o.Path)
	if p == "" {
		return defaultPath
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// Runner serves stored models to MCP clients.
type Runner struct {
	App  *app.Service
	Edit app.EditOptions
	// ReadOnly leaves out the update_node tool.
	ReadOnly bool

	Name    string
	Version string

	Transport Transport
	HTTP      HTTPOptions
}

func (r Runner) newServer() *server.MCPServer {
	name := r.Name
	if name == "" {
		name = "modelnav"
	}
	version := r.Version
	if version == "" {
		version = "dev"
	}

	instructions := "Browse stored class models by section, read any node as notation text, and edit nodes by replacing that text."
	if r.ReadOnly {
		instructions = "Browse stored class models by section and read any node as notation text. This server is read-only."
	}

	srv := server.NewMCPServer(
		fmt.Sprintf("%s MCP", name),
		version,
		server.WithResourceCapabilities(false, false),
		server.WithToolCapabilities(false),
		server.WithInstructions(instructions),
		server.WithResourceRecovery(),
		server.WithRecovery(),
	)

	svc := NewService(r.App, r.Edit)
	registerResources(srv, svc)
	registerTools(srv, svc, !r.ReadOnly)
	return srv
}

// Do executes the runner.
func (r Runner) Do(ctx context.Context) error {
	if r.App == nil {
		return errors.New("mcp runner requires a model service")
	}
	if r.Edit.Converter == nil {
		return errors.New("mcp runner requires a notation converter")
	}
	srv := r.newServer()

	switch t := r.Transport; t {
	case "", TransportHTTP:
		return r.serveHTTP(ctx, srv)
	case TransportStdio:
		return server.ServeStdio(srv)
	default:
		return fmt.Errorf("unknown MCP transport %q", t)
	}
}

func (r Runner) serveHTTP(ctx context.Context, srv *server.MCPServer) error {
	o := r.HTTP
	if (o.CertFile == "") != (o.KeyFile == "") {
		return errors.New("both http tls cert and key must be provided")
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Handle(o.EndpointPath(), server.NewStreamableHTTPServer(srv))

	addr := o.ListenAddr
	if addr == "" {
		addr = defaultListenAddr
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	if o.OnListening != nil {
		o.OnListening(ln.Addr())
	}

	httpSrv := &http.Server{Handler: router}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	if o.TLS() {
		err = httpSrv.ServeTLS(ln, o.CertFile, o.KeyFile)
	} else {
		err = httpSrv.Serve(ln)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

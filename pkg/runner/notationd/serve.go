// Package notationd serves a notation converter over HTTP so other modelnav
// processes can use it with notation "remote".
package notationd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"tableflip.dev/modelnav/pkg/log"
	"tableflip.dev/modelnav/pkg/notation"
	"tableflip.dev/modelnav/pkg/notation/remote"
)

// Serve runs the notation HTTP service until ctx is done.
type Serve struct {
	Converter   notation.Converter
	ListenAddr  string
	Logger      log.Logger
	OnListening func(net.Addr)
}

func (s Serve) Do(ctx context.Context) error {
	if s.Converter == nil {
		return errors.New("notation service requires a converter")
	}
	addr := s.ListenAddr
	if addr == "" {
		addr = "127.0.0.1:8081"
	}
	l := s.Logger
	if l == nil {
		l = log.Discard{}
	}

	httpSrv := &http.Server{
		Handler:           remote.NewHandler(s.Converter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	l.Debug("notation service listening", "addr", ln.Addr())
	if s.OnListening != nil {
		s.OnListening(ln.Addr())
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	err = httpSrv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

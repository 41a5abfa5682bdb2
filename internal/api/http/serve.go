package http

import (
	"errors"
	"net"
	"net/http"

	"vehicle-rental-backend/internal/logger"
)

// Start binds srv.Addr and serves in the background. It returns only after the
// listener is bound, so a bind failure is reported here rather than on errCh.
func Start(srv *http.Server, name string, errCh chan<- error) (net.Addr, error) {
	lis, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, err
	}
	logger.Info("HTTP server listening", "server", name, "address", lis.Addr().String())
	go func() {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	return lis.Addr(), nil
}

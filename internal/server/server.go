package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/flarewatcher/flarewatcher/internal/reconciler"
)

// Server is the dashboard API server.
type Server struct {
	// Injected fields
	address string
	logger  Logger
	handler http.Handler

	// Internal fields
	internalServer *http.Server
	stopCh         chan<- struct{}
	done           <-chan struct{}
}

func New(address string, handler http.Handler, logger Logger) *Server {
	return &Server{
		address: address,
		logger:  logger,
		handler: handler,
	}
}

func (s *Server) String() string {
	return "api server"
}

func (s *Server) Start(ctx context.Context) (runError <-chan error, startErr error) {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", s.address, err)
	}

	const readHeaderTimeout = 10 * time.Second
	s.internalServer = &http.Server{
		Addr:              s.address,
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	runErrorCh := make(chan error)
	stopCh := make(chan struct{})
	s.stopCh = stopCh
	done := make(chan struct{})
	s.done = done

	go func() {
		defer close(done)
		err := s.internalServer.Serve(listener)
		select {
		case <-stopCh:
		default:
			runErrorCh <- err
		}
	}()

	s.logger.Info("listening on " + listener.Addr().String())
	return runErrorCh, nil
}

func (s *Server) Stop() (err error) {
	close(s.stopCh)
	const shutdownGraceDuration = 2 * time.Second
	shutdownCtx, cancel := context.WithTimeout(
		context.Background(), shutdownGraceDuration)
	defer cancel()
	err = s.internalServer.Shutdown(shutdownCtx)
	<-s.done
	return err
}

// ReconcilerSource adapts the reconciler service to the handler's
// runner source interface.
func ReconcilerSource(service *reconciler.Service) RunnerSource {
	return &reconcilerSource{service: service}
}

type reconcilerSource struct {
	service *reconciler.Service
}

func (r *reconcilerSource) Runner(ctx context.Context, operatorID string) (
	runner Runner, err error) {
	return r.service.Runner(ctx, operatorID)
}

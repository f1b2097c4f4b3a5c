package health

import (
	"github.com/qdm12/goservices/httpserver"
)

// NewServer builds the internal healthcheck HTTP server, bound to a
// loopback address by default so it is not reachable from outside.
func NewServer(address string, logger Logger, isHealthy func() error) (
	server *httpserver.Server, err error) {
	name := "health"
	return httpserver.New(httpserver.Settings{
		Handler: newHandler(isHealthy),
		Name:    &name,
		Address: &address,
		Logger:  logger,
	})
}

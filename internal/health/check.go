package health

import (
	"context"
	"time"
)

// MakeIsHealthy builds the healthcheck function: the program is
// healthy when its database connection is alive.
func MakeIsHealthy(pinger Pinger, logger Logger) func() error {
	return func() (err error) {
		const timeout = 3 * time.Second
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err = pinger.Ping(ctx)
		if err != nil {
			logger.Warn("unhealthy: " + err.Error())
		}
		return err
	}
}

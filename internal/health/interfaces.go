package health

import (
	"context"
)

type Pinger interface {
	Ping(ctx context.Context) (err error)
}

type Logger interface {
	Info(s string)
	Warn(s string)
	Error(s string)
}

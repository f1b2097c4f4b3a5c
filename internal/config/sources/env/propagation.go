package env

import (
	"github.com/flarewatcher/flarewatcher/internal/config/settings"
)

func (s *Source) readPropagation() (settings settings.Propagation) {
	settings.ResolverAddress = s.env.String("PROPAGATION_RESOLVER_ADDRESS")
	return settings
}

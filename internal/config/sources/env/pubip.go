package env

import (
	"github.com/flarewatcher/flarewatcher/internal/config/settings"
)

func (s *Source) readPubIP() (settings settings.PubIP) {
	settings.Providers = s.env.CSV("PUBLICIP_HTTP_PROVIDERS")
	return settings
}

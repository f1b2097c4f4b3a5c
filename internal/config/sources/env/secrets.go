package env

import (
	"github.com/flarewatcher/flarewatcher/internal/config/settings"
	"github.com/qdm12/gosettings/sources/env"
)

func (s *Source) readSecrets() (settings settings.Secrets) {
	settings.EncryptionKey = s.env.Get("SECRETS_ENCRYPTION_KEY",
		env.ForceLowercase(false))
	return settings
}

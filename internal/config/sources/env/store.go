package env

import (
	"github.com/flarewatcher/flarewatcher/internal/config/settings"
)

func (s *Source) readStore() (settings settings.Store) {
	settings.DSN = s.env.String("DATABASE_URL")
	return settings
}

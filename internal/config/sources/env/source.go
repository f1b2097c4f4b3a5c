package env

import (
	"fmt"
	"os"

	"github.com/flarewatcher/flarewatcher/internal/config/settings"
	"github.com/qdm12/gosettings/sources/env"
)

type Warner interface {
	Warnf(format string, args ...any)
}

type Source struct {
	env              env.Env
	handleDeprecated func(deprecatedKey, currentKey string)
}

func New(warner Warner) *Source {
	handleDeprecated := func(deprecatedKey, currentKey string) {
		warner.Warnf("You are using an old environment variable %s, please change it to %s",
			deprecatedKey, currentKey)
	}
	return &Source{
		env:              *env.New(os.Environ(), handleDeprecated),
		handleDeprecated: handleDeprecated,
	}
}

func (s *Source) Read() (settings settings.Settings, err error) {
	settings.Client, err = s.readClient()
	if err != nil {
		return settings, fmt.Errorf("reading client settings: %w", err)
	}

	settings.Update, err = s.readUpdate()
	if err != nil {
		return settings, fmt.Errorf("reading update settings: %w", err)
	}

	settings.PubIP = s.readPubIP()
	settings.Propagation = s.readPropagation()

	settings.Server, err = s.readServer()
	if err != nil {
		return settings, fmt.Errorf("reading server settings: %w", err)
	}

	settings.Health = s.ReadHealth()
	settings.Store = s.readStore()
	settings.Secrets = s.readSecrets()

	settings.Logger, err = s.readLogger()
	if err != nil {
		return settings, fmt.Errorf("reading logger settings: %w", err)
	}

	return settings, nil
}

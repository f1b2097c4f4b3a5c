package publicip

import (
	"fmt"
)

type settings struct {
	providers []Provider
}

func newDefaultSettings() settings {
	return settings{
		providers: ListProviders(),
	}
}

type Option func(s *settings) (err error)

// SetProviders restricts the fetcher to the given echo services.
func SetProviders(first Provider, providers ...Provider) Option {
	providers = append([]Provider{first}, providers...)
	return func(s *settings) (err error) {
		for _, provider := range providers {
			err = ValidateProvider(provider)
			if err != nil {
				return fmt.Errorf("validating provider: %w", err)
			}
		}
		s.providers = providers
		return nil
	}
}

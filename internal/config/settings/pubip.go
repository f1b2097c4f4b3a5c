package settings

import (
	"fmt"
	"strings"

	"github.com/flarewatcher/flarewatcher/internal/publicip"
	"github.com/qdm12/gosettings"
	"github.com/qdm12/gotree"
)

type PubIP struct {
	// Providers are the public IP echo services to rotate through.
	Providers []string
}

func (p *PubIP) setDefaults() {
	defaultProviders := publicip.ListProviders()
	defaultStrings := make([]string, len(defaultProviders))
	for i, provider := range defaultProviders {
		defaultStrings[i] = string(provider)
	}
	p.Providers = gosettings.DefaultSlice(p.Providers, defaultStrings)
}

func (p PubIP) mergeWith(other PubIP) (merged PubIP) {
	merged.Providers = gosettings.MergeWithSlice(p.Providers, other.Providers)
	return merged
}

func (p PubIP) Validate() (err error) {
	for _, providerString := range p.Providers {
		err = publicip.ValidateProvider(publicip.Provider(providerString))
		if err != nil {
			return fmt.Errorf("public IP echo provider: %w", err)
		}
	}
	return nil
}

// ToProviders converts the provider strings to their typed form.
func (p PubIP) ToProviders() (providers []publicip.Provider) {
	providers = make([]publicip.Provider, len(p.Providers))
	for i, providerString := range p.Providers {
		providers[i] = publicip.Provider(providerString)
	}
	return providers
}

func (p PubIP) String() string {
	return p.toLinesNode().String()
}

func (p PubIP) toLinesNode() *gotree.Node {
	node := gotree.New("Public IP")
	node.Appendf("Echo providers: %s", strings.Join(p.Providers, ", "))
	return node
}

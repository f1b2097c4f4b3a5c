package publicip

import (
	"errors"
	"fmt"
)

type Provider string

const (
	Ipify     Provider = "ipify"
	Ifconfig  Provider = "ifconfig"
	Icanhazip Provider = "icanhazip"
	Ipinfo    Provider = "ipinfo"
)

func ListProviders() []Provider {
	return []Provider{
		Ipify,
		Ifconfig,
		Icanhazip,
		Ipinfo,
	}
}

var ErrUnknownProvider = errors.New("unknown public IP echo provider")

func ValidateProvider(provider Provider) error {
	for _, possible := range ListProviders() {
		if provider == possible {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
}

func (p Provider) url() string {
	switch p {
	case Ipify:
		return "https://api.ipify.org"
	case Ifconfig:
		return "https://ifconfig.co/ip"
	case Icanhazip:
		return "https://ipv4.icanhazip.com"
	case Ipinfo:
		return "https://ipinfo.io/ip"
	}
	panic(`provider unknown: "` + string(p) + `"`)
}

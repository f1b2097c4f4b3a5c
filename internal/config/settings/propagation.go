package settings

import (
	"fmt"
	"net/netip"

	"github.com/qdm12/gosettings"
	"github.com/qdm12/gotree"
)

type Propagation struct {
	// ResolverAddress is the DNS resolver queried to verify record
	// propagation, as host:port.
	ResolverAddress string
}

func (p *Propagation) setDefaults() {
	p.ResolverAddress = gosettings.DefaultString(p.ResolverAddress, "1.1.1.1:53")
}

func (p Propagation) mergeWith(other Propagation) (merged Propagation) {
	merged.ResolverAddress = gosettings.MergeWithString(p.ResolverAddress, other.ResolverAddress)
	return merged
}

func (p Propagation) Validate() (err error) {
	_, err = netip.ParseAddrPort(p.ResolverAddress)
	if err != nil {
		return fmt.Errorf("resolver address: %w", err)
	}
	return nil
}

func (p Propagation) String() string {
	return p.toLinesNode().String()
}

func (p Propagation) toLinesNode() *gotree.Node {
	node := gotree.New("Propagation")
	node.Appendf("Resolver address: %s", p.ResolverAddress)
	return node
}

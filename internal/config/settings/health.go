package settings

import (
	"fmt"
	"os"

	"github.com/qdm12/gosettings"
	"github.com/qdm12/gosettings/validate"
	"github.com/qdm12/gotree"
)

type Health struct {
	// ServerAddress is the listening address of the internal
	// healthcheck server, also queried by the healthcheck client mode.
	ServerAddress *string
}

// SetDefaults is exported since the healthcheck client mode defaults
// this section alone, without reading the rest of the settings.
func (h *Health) SetDefaults() {
	h.ServerAddress = gosettings.DefaultPointer(h.ServerAddress, "127.0.0.1:9999")
}

func (h Health) mergeWith(other Health) (merged Health) {
	merged.ServerAddress = gosettings.MergeWithPointer(h.ServerAddress, other.ServerAddress)
	return merged
}

func (h Health) Validate() (err error) {
	err = validate.ListeningAddress(*h.ServerAddress, os.Getuid())
	if err != nil {
		return fmt.Errorf("listening address: %w", err)
	}
	return nil
}

func (h Health) String() string {
	return h.toLinesNode().String()
}

func (h Health) toLinesNode() *gotree.Node {
	node := gotree.New("Health")
	node.Appendf("Listening address: %s", *h.ServerAddress)
	return node
}

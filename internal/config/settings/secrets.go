package settings

import (
	"github.com/qdm12/gosettings"
	"github.com/qdm12/gotree"
)

type Secrets struct {
	// EncryptionKey derives the AES key encrypting API token secrets
	// and SMTP passwords at rest. Leaving it empty stores secrets in
	// plaintext.
	EncryptionKey *string
}

func (s *Secrets) setDefaults() {
	s.EncryptionKey = gosettings.DefaultPointer(s.EncryptionKey, "")
}

func (s Secrets) mergeWith(other Secrets) (merged Secrets) {
	merged.EncryptionKey = gosettings.MergeWithPointer(s.EncryptionKey, other.EncryptionKey)
	return merged
}

func (s Secrets) Validate() (err error) {
	return nil
}

func (s Secrets) String() string {
	return s.toLinesNode().String()
}

func (s Secrets) toLinesNode() *gotree.Node {
	node := gotree.New("Secrets")
	encryption := "enabled"
	if *s.EncryptionKey == "" {
		encryption = "disabled, secrets are stored in plaintext"
	}
	node.Appendf("Encryption at rest: %s", encryption)
	return node
}

package settings

import (
	"fmt"

	"github.com/qdm12/gotree"
)

type Settings struct {
	Client      Client
	Update      Update
	PubIP       PubIP
	Propagation Propagation
	Server      Server
	Health      Health
	Store       Store
	Secrets     Secrets
	Logger      Logger
}

func (s *Settings) SetDefaults() {
	s.Client.setDefaults()
	s.Update.setDefaults()
	s.PubIP.setDefaults()
	s.Propagation.setDefaults()
	s.Server.setDefaults()
	s.Health.SetDefaults()
	s.Store.setDefaults()
	s.Secrets.setDefaults()
	s.Logger.setDefaults()
}

func (s Settings) MergeWith(other Settings) (merged Settings) {
	merged.Client = s.Client.mergeWith(other.Client)
	merged.Update = s.Update.mergeWith(other.Update)
	merged.PubIP = s.PubIP.mergeWith(other.PubIP)
	merged.Propagation = s.Propagation.mergeWith(other.Propagation)
	merged.Server = s.Server.mergeWith(other.Server)
	merged.Health = s.Health.mergeWith(other.Health)
	merged.Store = s.Store.mergeWith(other.Store)
	merged.Secrets = s.Secrets.mergeWith(other.Secrets)
	merged.Logger = s.Logger.mergeWith(other.Logger)
	return merged
}

func (s Settings) Validate() (err error) {
	type validator interface {
		Validate() (err error)
	}
	toValidate := map[string]validator{
		"client":      &s.Client,
		"update":      &s.Update,
		"public ip":   &s.PubIP,
		"propagation": &s.Propagation,
		"server":      &s.Server,
		"health":      &s.Health,
		"store":       &s.Store,
		"secrets":     &s.Secrets,
		"logger":      &s.Logger,
	}

	for name, v := range toValidate {
		err = v.Validate()
		if err != nil {
			return fmt.Errorf("%s settings: %w", name, err)
		}
	}

	return nil
}

func (s Settings) String() string {
	return s.toLinesNode().String()
}

func (s Settings) toLinesNode() *gotree.Node {
	node := gotree.New("Settings summary:")
	node.AppendNode(s.Client.toLinesNode())
	node.AppendNode(s.Update.toLinesNode())
	node.AppendNode(s.PubIP.toLinesNode())
	node.AppendNode(s.Propagation.toLinesNode())
	node.AppendNode(s.Server.toLinesNode())
	node.AppendNode(s.Health.toLinesNode())
	node.AppendNode(s.Store.toLinesNode())
	node.AppendNode(s.Secrets.toLinesNode())
	node.AppendNode(s.Logger.toLinesNode())
	return node
}

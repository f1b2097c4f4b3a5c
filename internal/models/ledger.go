// Package models defines the data structures shared across the
// program: the update ledger entry, operator settings and build
// information.
package models

import "time"

// Status is the outcome of one DNS write attempt.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Trigger is what initiated a DNS write attempt.
type Trigger string

const (
	TriggerManual   Trigger = "manual"
	TriggerAuto     Trigger = "auto"
	TriggerRollback Trigger = "rollback"
)

// LedgerEntry is one immutable row of the update ledger. It records a
// DNS write attempt together with the record state it replaced, so a
// later rollback can restore that state.
type LedgerEntry struct {
	ID               string    `json:"id"`
	OperatorID       string    `json:"operatorId"`
	ZoneID           string    `json:"zoneId"`
	TokenID          *string   `json:"tokenId,omitempty"`
	RecordID         string    `json:"recordId"`
	Name             string    `json:"name"`
	Type             string    `json:"type"`
	PreviousContent  *string   `json:"previousContent,omitempty"`
	PreviousTTL      *uint32   `json:"previousTtl,omitempty"`
	PreviousProxied  *bool     `json:"previousProxied,omitempty"`
	Content          string    `json:"content"`
	TTL              uint32    `json:"ttl"`
	Proxied          bool      `json:"proxied"`
	Comment          string    `json:"comment,omitempty"`
	Status           Status    `json:"status"`
	Trigger          Trigger   `json:"trigger"`
	Actor            string    `json:"actor"`
	Propagated       *bool     `json:"propagated,omitempty"`
	PropagationNote  string    `json:"propagationNote,omitempty"`
	ProviderResponse string    `json:"response,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// RollbackAvailable reports whether the entry carries enough state to
// be rolled back: the previous content and the token to write with.
func (e LedgerEntry) RollbackAvailable() bool {
	return e.PreviousContent != nil && e.TokenID != nil && *e.TokenID != ""
}

func (e LedgerEntry) String() string {
	s := e.Name + " (" + e.Type + ") -> " + e.Content +
		" [" + string(e.Trigger) + ", " + string(e.Status) + "]"
	return s
}

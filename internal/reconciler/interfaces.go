package reconciler

import (
	"context"
	"net/netip"

	"github.com/flarewatcher/flarewatcher/internal/alerts"
	"github.com/flarewatcher/flarewatcher/internal/cloudflare"
	"github.com/flarewatcher/flarewatcher/internal/models"
)

type PublicIPFetcher interface {
	IP(ctx context.Context) (netip.Addr, error)
}

type Gateway interface {
	ReadRecord(ctx context.Context, zoneID, recordID, token string) (
		record cloudflare.Record, err error)
	WriteRecord(ctx context.Context, zoneID, recordID, token string,
		writeRequest cloudflare.WriteRequest) (
		result cloudflare.WriteResult, err error)
}

type SettingsStore interface {
	GetSettings(ctx context.Context, operatorID string) (
		settings models.OperatorSettings, err error)
	UpsertSettings(ctx context.Context, settings models.OperatorSettings) (err error)
	ListOperators(ctx context.Context) (operatorIDs []string, err error)
}

type Ledger interface {
	AppendEntry(ctx context.Context, entry models.LedgerEntry) (
		entryID string, err error)
	GetEntry(ctx context.Context, entryID string) (
		entry models.LedgerEntry, err error)
}

type CredentialResolver interface {
	Resolve(ctx context.Context, operatorID, tokenID string) (
		secret string, err error)
}

type PropagationChecker interface {
	Check(ctx context.Context, name, recordType, content string) (
		propagated *bool, note string)
}

type AlertSender interface {
	Notify(settings models.OperatorSettings, payload alerts.Payload)
}

type UpdaterInterface interface {
	Update(ctx context.Context, request UpdateRequest) (
		result UpdateResult, err error)
}

type DebugLogger interface {
	Debug(s string)
}

type Logger interface {
	DebugLogger
	Info(s string)
	Warn(s string)
	Error(s string)
}

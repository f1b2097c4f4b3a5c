package server

import (
	"context"
	"net/netip"
	"time"

	"github.com/flarewatcher/flarewatcher/internal/models"
	"github.com/flarewatcher/flarewatcher/internal/reconciler"
)

type Runner interface {
	ManualUpdate(ctx context.Context, record models.MonitoredRecord,
		ttl uint32, proxied *bool, comment string) (
		result reconciler.UpdateResult, err error)
	ForceReconcile(ctx context.Context) (errs []error)
	IPState() (current, previous netip.Addr)
}

type RunnerSource interface {
	Runner(ctx context.Context, operatorID string) (
		runner Runner, err error)
}

type Rollbacker interface {
	Rollback(ctx context.Context, request reconciler.RollbackRequest) (
		result reconciler.UpdateResult, err error)
}

type LedgerStore interface {
	ListByActor(ctx context.Context, actor string, since *time.Time,
		limit uint) (entries []models.LedgerEntry, err error)
	LatestPerZone(ctx context.Context, operatorID string) (
		entries []models.LedgerEntry, err error)
	LatestRollbackCandidates(ctx context.Context, operatorID string) (
		entries []models.LedgerEntry, err error)
	DeleteByActor(ctx context.Context, actor string) (deleted int64, err error)
}

type SettingsStore interface {
	GetSettings(ctx context.Context, operatorID string) (
		settings models.OperatorSettings, err error)
	UpsertSettings(ctx context.Context, settings models.OperatorSettings) (err error)
}

type TokenStore interface {
	UpsertToken(ctx context.Context, operatorID, tokenID, name,
		encryptedSecret string) (id string, err error)
}

type SecretCodec interface {
	Encrypt(value string) (encrypted string, err error)
	Decrypt(value string) (decrypted string, err error)
}

type Logger interface {
	Info(s string)
	Warn(s string)
	Error(s string)
}

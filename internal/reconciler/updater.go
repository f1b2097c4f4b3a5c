package reconciler

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/flarewatcher/flarewatcher/internal/alerts"
	"github.com/flarewatcher/flarewatcher/internal/cloudflare"
	"github.com/flarewatcher/flarewatcher/internal/metrics"
	"github.com/flarewatcher/flarewatcher/internal/models"
)

const (
	autoUpdateComment    = "Flarewatcher auto-update"
	rollbackWriteComment = "Flarewatcher rollback"
	rollbackEntryComment = "Rollback"
)

// Updater performs a single record update attempt against the DNS
// provider and records its outcome in the audit ledger. Every attempt,
// successful or not, produces exactly one ledger entry.
type Updater struct {
	gateway       Gateway
	ledger        Ledger
	settingsStore SettingsStore
	credentials   CredentialResolver
	propagation   PropagationChecker
	alerts        AlertSender
	metrics       *metrics.Metrics
	logger        Logger
	timeNow       func() time.Time
}

func NewUpdater(gateway Gateway, ledger Ledger, settingsStore SettingsStore,
	credentials CredentialResolver, propagation PropagationChecker,
	alerts AlertSender, metrics *metrics.Metrics, logger Logger) *Updater {
	return &Updater{
		gateway:       gateway,
		ledger:        ledger,
		settingsStore: settingsStore,
		credentials:   credentials,
		propagation:   propagation,
		alerts:        alerts,
		metrics:       metrics,
		logger:        logger,
		timeNow:       time.Now,
	}
}

type UpdateRequest struct {
	OperatorID string
	ZoneID     string
	RecordID   string
	TokenID    string
	// Content is the new record content, usually the current public IP.
	Content string
	// TTL overrides the record TTL when non zero.
	TTL uint32
	// Proxied overrides the record proxied flag when non nil.
	Proxied *bool
	Comment string
	Trigger models.Trigger
	Actor   string
	// Snapshot is the record state read just before the update.
	// When nil, the updater reads the record from the provider so the
	// ledger entry carries an accurate previous state.
	Snapshot *cloudflare.Record
}

type UpdateResult struct {
	EntryID         string
	Success         bool
	Message         string
	Propagated      *bool
	PropagationNote string
}

func (u *Updater) Update(ctx context.Context, request UpdateRequest) (
	result UpdateResult, err error) {
	token, err := u.credentials.Resolve(ctx, request.OperatorID, request.TokenID)
	if err != nil {
		return result, err
	}

	snapshot := request.Snapshot
	if snapshot == nil {
		record, err := u.gateway.ReadRecord(ctx, request.ZoneID,
			request.RecordID, token)
		if err != nil {
			return result, fmt.Errorf("reading record: %w", err)
		}
		snapshot = &record
	}

	ttl := request.TTL
	if ttl == 0 {
		ttl = snapshot.TTL
	}
	proxied := snapshot.Proxied
	if request.Proxied != nil {
		proxied = *request.Proxied
	}

	tokenID := request.TokenID
	previousContent := snapshot.Content
	previousTTL := snapshot.TTL
	previousProxied := snapshot.Proxied
	entry := models.LedgerEntry{
		OperatorID:      request.OperatorID,
		ZoneID:          request.ZoneID,
		TokenID:         &tokenID,
		RecordID:        request.RecordID,
		Name:            snapshot.Name,
		Type:            snapshot.Type,
		PreviousContent: &previousContent,
		PreviousTTL:     &previousTTL,
		PreviousProxied: &previousProxied,
		Content:         request.Content,
		TTL:             ttl,
		Proxied:         proxied,
		Comment:         request.Comment,
		Trigger:         request.Trigger,
		Actor:           request.Actor,
		CreatedAt:       u.timeNow(),
	}

	writeResult, writeErr := u.gateway.WriteRecord(ctx, request.ZoneID,
		request.RecordID, token, cloudflare.WriteRequest{
			Name:    snapshot.Name,
			Type:    snapshot.Type,
			Content: request.Content,
			TTL:     ttl,
			Proxied: proxied,
			Comment: request.Comment,
		})
	switch {
	case writeErr != nil:
		entry.Status = models.StatusError
		entry.ProviderResponse = `{"error":` + strconv.Quote(writeErr.Error()) + `}`
		result.Message = writeErr.Error()
	case !writeResult.Success:
		entry.Status = models.StatusError
		entry.ProviderResponse = writeResult.RawResponse
		result.Message = writeResult.Message
	default:
		entry.Status = models.StatusSuccess
		entry.ProviderResponse = writeResult.RawResponse
		entry.Propagated, entry.PropagationNote = u.propagation.Check(ctx,
			snapshot.Name, snapshot.Type, request.Content)
		result.Success = true
		result.Message = writeResult.Message
	}

	entryID, appendErr := u.ledger.AppendEntry(ctx, entry)
	if appendErr != nil {
		// The provider write already happened and cannot be undone,
		// so a failed ledger append loses audit history.
		u.logger.Error("failed writing update entry for record " +
			snapshot.Name + ": " + appendErr.Error())
	}
	result.EntryID = entryID
	result.Propagated = entry.Propagated
	result.PropagationNote = entry.PropagationNote
	u.metrics.UpdatesTotal.WithLabelValues(
		string(request.Trigger), string(entry.Status)).Inc()

	if entry.Status == models.StatusError && request.Trigger == models.TriggerAuto {
		u.autoDisable(ctx, request, snapshot.Name, result.Message)
	}

	if writeErr != nil {
		return result, writeErr
	} else if appendErr != nil {
		return result, fmt.Errorf("appending update entry: %w", appendErr)
	}
	return result, nil
}

// autoDisable removes the failing record from the operator's monitored
// set so the loop stops retrying it, and warns the operator.
func (u *Updater) autoDisable(ctx context.Context, request UpdateRequest,
	name, reason string) {
	settings, err := u.settingsStore.GetSettings(ctx, request.OperatorID)
	if err != nil {
		u.logger.Error("cannot disable auto-update for record " + name +
			": reading settings: " + err.Error())
		return
	}

	if !settings.Monitored(request.ZoneID, request.RecordID) {
		return
	}

	settings.MonitoredRecords = settings.WithoutRecord(
		request.ZoneID, request.RecordID)
	err = u.settingsStore.UpsertSettings(ctx, settings)
	if err != nil {
		u.logger.Error("cannot disable auto-update for record " + name +
			": saving settings: " + err.Error())
		return
	}

	u.metrics.AutoDisablesTotal.Inc()
	message := "Auto-update disabled: " + name + " failed to update (" +
		reason + ")."
	u.logger.Warn(message)
	if settings.NotifyOnFailure {
		u.alerts.Notify(settings, alerts.Payload{
			Title: "Auto-update disabled",
			Body:  message,
		})
	}
}

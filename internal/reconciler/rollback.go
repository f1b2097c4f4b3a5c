package reconciler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/flarewatcher/flarewatcher/internal/cloudflare"
	"github.com/flarewatcher/flarewatcher/internal/models"
)

type RollbackRequest struct {
	OperatorID string
	EntryID    string
	Actor      string
	// Admin actors can roll back entries they do not own.
	Admin bool
}

// Rollback re-applies the previous record state captured in an earlier
// ledger entry. It never mutates the original entry: the rollback is a
// regular write attempt producing its own entry.
func (u *Updater) Rollback(ctx context.Context, request RollbackRequest) (
	result UpdateResult, err error) {
	entry, err := u.ledger.GetEntry(ctx, request.EntryID)
	if err != nil {
		return result, err
	}

	if !entry.RollbackAvailable() {
		return result, fmt.Errorf("%w: entry %s has no previous state snapshot",
			ErrRollbackUnavailable, request.EntryID)
	}

	sameActor := strings.EqualFold(strings.TrimSpace(entry.Actor),
		strings.TrimSpace(request.Actor))
	if !request.Admin && !sameActor {
		return result, fmt.Errorf("%w: entry %s", ErrEntryNotOwned, request.EntryID)
	}

	tokenID := *entry.TokenID
	token, err := u.credentials.Resolve(ctx, request.OperatorID, tokenID)
	if err != nil {
		return result, err
	}

	// Read the live record so the rollback entry captures the state
	// being replaced, not the state recorded months ago.
	current, err := u.gateway.ReadRecord(ctx, entry.ZoneID, entry.RecordID, token)
	if err != nil {
		return result, fmt.Errorf("reading record: %w", err)
	}

	ttl := current.TTL
	if entry.PreviousTTL != nil {
		ttl = *entry.PreviousTTL
	}
	proxied := current.Proxied
	if entry.PreviousProxied != nil {
		proxied = *entry.PreviousProxied
	}

	previousContent := current.Content
	previousTTL := current.TTL
	previousProxied := current.Proxied
	rollbackEntry := models.LedgerEntry{
		OperatorID:      request.OperatorID,
		ZoneID:          entry.ZoneID,
		TokenID:         &tokenID,
		RecordID:        entry.RecordID,
		Name:            current.Name,
		Type:            current.Type,
		PreviousContent: &previousContent,
		PreviousTTL:     &previousTTL,
		PreviousProxied: &previousProxied,
		Content:         *entry.PreviousContent,
		TTL:             ttl,
		Proxied:         proxied,
		Comment:         rollbackEntryComment,
		Trigger:         models.TriggerRollback,
		Actor:           request.Actor,
		CreatedAt:       u.timeNow(),
	}

	writeResult, writeErr := u.gateway.WriteRecord(ctx, entry.ZoneID,
		entry.RecordID, token, cloudflare.WriteRequest{
			Name:    current.Name,
			Type:    current.Type,
			Content: *entry.PreviousContent,
			TTL:     ttl,
			Proxied: proxied,
			Comment: rollbackWriteComment,
		})
	switch {
	case writeErr != nil:
		rollbackEntry.Status = models.StatusError
		rollbackEntry.ProviderResponse = `{"error":` +
			strconv.Quote(writeErr.Error()) + `}`
		result.Message = writeErr.Error()
	case !writeResult.Success:
		rollbackEntry.Status = models.StatusError
		rollbackEntry.ProviderResponse = writeResult.RawResponse
		result.Message = writeResult.Message
	default:
		rollbackEntry.Status = models.StatusSuccess
		rollbackEntry.ProviderResponse = writeResult.RawResponse
		result.Success = true
		result.Message = writeResult.Message
	}

	entryID, appendErr := u.ledger.AppendEntry(ctx, rollbackEntry)
	if appendErr != nil {
		u.logger.Error("failed writing rollback entry for record " +
			current.Name + ": " + appendErr.Error())
	}
	result.EntryID = entryID
	u.metrics.UpdatesTotal.WithLabelValues(
		string(models.TriggerRollback), string(rollbackEntry.Status)).Inc()

	if writeErr != nil {
		return result, writeErr
	} else if appendErr != nil {
		return result, fmt.Errorf("appending rollback entry: %w", appendErr)
	}
	return result, nil
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/flarewatcher/flarewatcher/internal/models"
)

var ErrSettingsNotFound = errors.New("settings not found")

// GetSettings returns the operator's settings row, or
// ErrSettingsNotFound if the operator has never saved settings.
func (s *Store) GetSettings(ctx context.Context, operatorID string) (
	settings models.OperatorSettings, err error) {
	const query = `SELECT operator_id, interval_minutes, monitored_records,
		discord_webhook_url, discord_template, discord_enabled,
		smtp_host, smtp_port, smtp_user, smtp_pass, smtp_from, smtp_to,
		smtp_template, smtp_enabled, notify_on_ip_change, notify_on_failure
		FROM operator_settings WHERE operator_id = $1`

	var monitoredJSON []byte
	err = s.db.QueryRowContext(ctx, query, operatorID).Scan(
		&settings.OperatorID, &settings.IntervalMinutes, &monitoredJSON,
		&settings.DiscordWebhookURL, &settings.DiscordTemplate, &settings.DiscordEnabled,
		&settings.SMTPHost, &settings.SMTPPort, &settings.SMTPUser, &settings.SMTPPass,
		&settings.SMTPFrom, &settings.SMTPTo, &settings.SMTPTemplate, &settings.SMTPEnabled,
		&settings.NotifyOnIPChange, &settings.NotifyOnFailure)
	if errors.Is(err, sql.ErrNoRows) {
		return settings, fmt.Errorf("%w: for operator %s", ErrSettingsNotFound, operatorID)
	} else if err != nil {
		return settings, err
	}

	err = json.Unmarshal(monitoredJSON, &settings.MonitoredRecords)
	if err != nil {
		return settings, fmt.Errorf("json decoding monitored records: %w", err)
	}

	return settings, nil
}

// UpsertSettings writes the full settings aggregate for the operator,
// last write wins. Monitored record duplicates are dropped and the
// interval is clamped to its valid range before persisting.
func (s *Store) UpsertSettings(ctx context.Context,
	settings models.OperatorSettings) (err error) {
	settings.MonitoredRecords = dedupeRecords(settings.MonitoredRecords)
	settings.IntervalMinutes = clampInterval(settings.IntervalMinutes)

	monitoredJSON, err := json.Marshal(settings.MonitoredRecords)
	if err != nil {
		return fmt.Errorf("json encoding monitored records: %w", err)
	}

	const query = `INSERT INTO operator_settings (operator_id, interval_minutes,
		monitored_records, discord_webhook_url, discord_template, discord_enabled,
		smtp_host, smtp_port, smtp_user, smtp_pass, smtp_from, smtp_to,
		smtp_template, smtp_enabled, notify_on_ip_change, notify_on_failure)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (operator_id) DO UPDATE SET
		interval_minutes = EXCLUDED.interval_minutes,
		monitored_records = EXCLUDED.monitored_records,
		discord_webhook_url = EXCLUDED.discord_webhook_url,
		discord_template = EXCLUDED.discord_template,
		discord_enabled = EXCLUDED.discord_enabled,
		smtp_host = EXCLUDED.smtp_host,
		smtp_port = EXCLUDED.smtp_port,
		smtp_user = EXCLUDED.smtp_user,
		smtp_pass = EXCLUDED.smtp_pass,
		smtp_from = EXCLUDED.smtp_from,
		smtp_to = EXCLUDED.smtp_to,
		smtp_template = EXCLUDED.smtp_template,
		smtp_enabled = EXCLUDED.smtp_enabled,
		notify_on_ip_change = EXCLUDED.notify_on_ip_change,
		notify_on_failure = EXCLUDED.notify_on_failure`

	_, err = s.db.ExecContext(ctx, query,
		settings.OperatorID, settings.IntervalMinutes, monitoredJSON,
		settings.DiscordWebhookURL, settings.DiscordTemplate, settings.DiscordEnabled,
		settings.SMTPHost, settings.SMTPPort, settings.SMTPUser, settings.SMTPPass,
		settings.SMTPFrom, settings.SMTPTo, settings.SMTPTemplate, settings.SMTPEnabled,
		settings.NotifyOnIPChange, settings.NotifyOnFailure)
	return err
}

// ListOperators returns the ids of all operators having settings.
func (s *Store) ListOperators(ctx context.Context) (operatorIDs []string, err error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT operator_id FROM operator_settings ORDER BY operator_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var operatorID string
		err = rows.Scan(&operatorID)
		if err != nil {
			return nil, err
		}
		operatorIDs = append(operatorIDs, operatorID)
	}
	return operatorIDs, rows.Err()
}

func dedupeRecords(records []models.MonitoredRecord) (deduped []models.MonitoredRecord) {
	seen := make(map[string]struct{}, len(records))
	deduped = make([]models.MonitoredRecord, 0, len(records))
	for _, record := range records {
		key := record.Key()
		_, ok := seen[key]
		if ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, record)
	}
	return deduped
}

func clampInterval(minutes uint8) uint8 {
	switch {
	case minutes < models.MinIntervalMinutes: // zero means unset
		return models.DefaultIntervalMinutes
	case minutes > models.MaxIntervalMinutes:
		return models.MaxIntervalMinutes
	}
	return minutes
}

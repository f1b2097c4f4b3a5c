package models

// Reconciliation interval bounds in minutes.
const (
	MinIntervalMinutes     = 1
	MaxIntervalMinutes     = 120
	DefaultIntervalMinutes = 5
)

// MonitoredRecord identifies one DNS record under active management,
// together with the credential used to reach its zone.
type MonitoredRecord struct {
	ZoneID   string `json:"zoneId"`
	RecordID string `json:"recordId"`
	TokenID  string `json:"tokenId"`
}

func (m MonitoredRecord) Key() string {
	return m.ZoneID + ":" + m.RecordID
}

// OperatorSettings is the per-operator configuration aggregate:
// reconciliation cadence, the monitored record set and alert channels.
type OperatorSettings struct {
	OperatorID        string            `json:"operatorId"`
	IntervalMinutes   uint8             `json:"intervalMinutes"`
	MonitoredRecords  []MonitoredRecord `json:"monitoredRecords"`
	DiscordWebhookURL string            `json:"discordWebhookUrl,omitempty"`
	DiscordTemplate   string            `json:"discordMarkdown,omitempty"`
	DiscordEnabled    bool              `json:"discordEnabled"`
	SMTPHost          string            `json:"smtpHost,omitempty"`
	SMTPPort          uint16            `json:"smtpPort,omitempty"`
	SMTPUser          string            `json:"smtpUser,omitempty"`
	SMTPPass          string            `json:"smtpPass,omitempty"`
	SMTPFrom          string            `json:"smtpFrom,omitempty"`
	SMTPTo            string            `json:"smtpTo,omitempty"`
	SMTPTemplate      string            `json:"smtpMessage,omitempty"`
	SMTPEnabled       bool              `json:"smtpEnabled"`
	NotifyOnIPChange  bool              `json:"notifyOnIpChange"`
	NotifyOnFailure   bool              `json:"notifyOnFailure"`
}

// Monitored reports whether the zone+record pair is part of the
// monitored set.
func (s OperatorSettings) Monitored(zoneID, recordID string) bool {
	for _, record := range s.MonitoredRecords {
		if record.ZoneID == zoneID && record.RecordID == recordID {
			return true
		}
	}
	return false
}

// WithoutRecord returns a copy of the monitored set with the given
// zone+record pair removed.
func (s OperatorSettings) WithoutRecord(zoneID, recordID string) (
	records []MonitoredRecord) {
	records = make([]MonitoredRecord, 0, len(s.MonitoredRecords))
	for _, record := range s.MonitoredRecords {
		if record.ZoneID == zoneID && record.RecordID == recordID {
			continue
		}
		records = append(records, record)
	}
	return records
}

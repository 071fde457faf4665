// internal/model/message_log.go
package model

import "time"

// Message-log statuses. "pending" is the only non-terminal value; the
// reconciler never overwrites a terminal status.
const (
	MessageStatusPending   = "pending"
	MessageStatusSent      = "sent"
	MessageStatusFailed    = "failed"
	MessageStatusDelivered = "delivered"
)

// TerminalMessageStatus reports whether s is a valid provider-reported
// terminal status.
func TerminalMessageStatus(s string) bool {
	switch s {
	case MessageStatusSent, MessageStatusFailed, MessageStatusDelivered:
		return true
	}
	return false
}

type MessageLog struct {
	ID             string    `db:"id" json:"id"`
	CampaignID     string    `db:"campaign_id" json:"campaign_id"`
	RecipientPhone string    `db:"recipient_phone" json:"recipient_phone"`
	RecipientName  string    `db:"recipient_name" json:"recipient_name"`
	Status         string    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

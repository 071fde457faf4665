// internal/model/campaign.go
package model

import "time"

// Campaign statuses. A campaign is only authoritatively "failed" when the
// provider handoff itself failed; "completed" is derived from its logs.
const (
	CampaignStatusProcessing = "processing"
	CampaignStatusCompleted  = "completed"
	CampaignStatusFailed     = "failed"
)

type Campaign struct {
	ID              string     `db:"id" json:"id"`
	CompanyID       string     `db:"company_id" json:"company_id"`
	UnitID          string     `db:"unit_id" json:"unit_id"`
	MessageTemplate string     `db:"message_template" json:"message_template"`
	MediaURL        string     `db:"media_url" json:"media_url,omitempty"`
	MediaType       string     `db:"media_type" json:"media_type,omitempty"`
	TotalRecipients int        `db:"total_recipients" json:"total_recipients"`
	Status          string     `db:"status" json:"status"`
	CallbackSecret  string     `db:"callback_secret" json:"-"`
	CreatedBy       string     `db:"created_by" json:"created_by"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/diegoteixeira-br/barbersoft-campaigns/internal/model"
)

type CampaignRepositoryInterface interface {
	// Campaigns
	CreateWithLogs(c *model.Campaign, logs []*model.MessageLog) error
	GetByID(id string) (*model.Campaign, error)
	ListByCreator(createdBy string, offset, limit int, status string) ([]*model.Campaign, int, error)
	UpdateStatus(campaignID, status string) error

	// Message logs
	GetMessageLog(id string) (*model.MessageLog, error)
	MarkMessageLogIfPending(id, status string) (bool, error)
	CountPendingLogs(campaignID string) (int, error)
	GetCampaignStats(campaignID string) (map[string]int, error)
}

type CampaignRepository struct {
	DB *sql.DB
}

// ====================== Campaigns ======================

// CreateWithLogs persists a campaign together with one message log per
// recipient in a single transaction. Either everything lands or nothing does.
func (r *CampaignRepository) CreateWithLogs(c *model.Campaign, logs []*model.MessageLog) error {
	now := time.Now()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = model.CampaignStatusProcessing
	}
	c.CreatedAt = now

	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
        INSERT INTO campaigns
            (id, company_id, unit_id, message_template, media_url, media_type,
             total_recipients, status, callback_secret, created_by, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `,
		c.ID, c.CompanyID, c.UnitID, c.MessageTemplate, c.MediaURL, c.MediaType,
		c.TotalRecipients, c.Status, c.CallbackSecret, c.CreatedBy, c.CreatedAt,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
        INSERT INTO campaign_message_logs
            (id, campaign_id, recipient_phone, recipient_name, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, l := range logs {
		if l.ID == "" {
			l.ID = uuid.NewString()
		}
		l.CampaignID = c.ID
		l.Status = model.MessageStatusPending
		l.CreatedAt = now
		l.UpdatedAt = now
		if _, err := stmt.Exec(l.ID, l.CampaignID, l.RecipientPhone, l.RecipientName, l.Status, l.CreatedAt, l.UpdatedAt); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *CampaignRepository) GetByID(id string) (*model.Campaign, error) {
	query := `
        SELECT id, company_id, unit_id, message_template,
               COALESCE(media_url, ''), COALESCE(media_type, ''),
               total_recipients, status, callback_secret, created_by, created_at, updated_at
        FROM campaigns WHERE id = $1
    `
	var c model.Campaign
	err := r.DB.QueryRow(query, id).Scan(
		&c.ID, &c.CompanyID, &c.UnitID, &c.MessageTemplate,
		&c.MediaURL, &c.MediaType,
		&c.TotalRecipients, &c.Status, &c.CallbackSecret, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepository) ListByCreator(createdBy string, offset, limit int, status string) ([]*model.Campaign, int, error) {
	campaigns := []*model.Campaign{}
	query := `
        SELECT id, company_id, unit_id, message_template,
               COALESCE(media_url, ''), COALESCE(media_type, ''),
               total_recipients, status, callback_secret, created_by, created_at, updated_at
        FROM campaigns WHERE created_by = $1
    `
	args := []interface{}{createdBy}
	argPos := 2

	if status != "" {
		query += fmt.Sprintf(" AND status=$%d", argPos)
		args = append(args, status)
		argPos++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		c := &model.Campaign{}
		if err := rows.Scan(
			&c.ID, &c.CompanyID, &c.UnitID, &c.MessageTemplate,
			&c.MediaURL, &c.MediaType,
			&c.TotalRecipients, &c.Status, &c.CallbackSecret, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery := `SELECT COUNT(*) FROM campaigns WHERE created_by = $1`
	argsCount := []interface{}{createdBy}
	if status != "" {
		countQuery += " AND status=$2"
		argsCount = append(argsCount, status)
	}

	var total int
	if err := r.DB.QueryRow(countQuery, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return campaigns, total, nil
}

func (r *CampaignRepository) UpdateStatus(campaignID, status string) error {
	query := `UPDATE campaigns SET status=$1, updated_at=$2 WHERE id=$3`
	_, err := r.DB.Exec(query, status, time.Now(), campaignID)
	return err
}

// ====================== Message logs ======================

func (r *CampaignRepository) GetMessageLog(id string) (*model.MessageLog, error) {
	query := `
        SELECT id, campaign_id, recipient_phone, recipient_name, status, created_at, updated_at
        FROM campaign_message_logs WHERE id = $1
    `
	var l model.MessageLog
	err := r.DB.QueryRow(query, id).Scan(
		&l.ID, &l.CampaignID, &l.RecipientPhone, &l.RecipientName, &l.Status, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

// MarkMessageLogIfPending transitions a log to a terminal status only if it
// is still pending. The WHERE clause makes duplicate callbacks lose the race
// without any locking; the return value reports whether this call won.
func (r *CampaignRepository) MarkMessageLogIfPending(id, status string) (bool, error) {
	res, err := r.DB.Exec(`
        UPDATE campaign_message_logs
        SET status=$1, updated_at=NOW()
        WHERE id=$2 AND status='pending'
    `, status, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *CampaignRepository) CountPendingLogs(campaignID string) (int, error) {
	var n int
	err := r.DB.QueryRow(`
        SELECT COUNT(*) FROM campaign_message_logs
        WHERE campaign_id=$1 AND status='pending'
    `, campaignID).Scan(&n)
	return n, err
}

func (r *CampaignRepository) GetCampaignStats(campaignID string) (map[string]int, error) {
	query := `SELECT status, COUNT(*) FROM campaign_message_logs WHERE campaign_id=$1 GROUP BY status`
	rows, err := r.DB.Query(query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := map[string]int{
		model.MessageStatusPending:   0,
		model.MessageStatusSent:      0,
		model.MessageStatusFailed:    0,
		model.MessageStatusDelivered: 0,
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)

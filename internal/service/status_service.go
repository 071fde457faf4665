// internal/service/status_service.go
package service

import (
	"log"

	appErrors "github.com/diegoteixeira-br/barbersoft-campaigns/internal/errors"
	"github.com/diegoteixeira-br/barbersoft-campaigns/internal/model"
	"github.com/diegoteixeira-br/barbersoft-campaigns/internal/repository"
)

// StatusService derives a campaign's aggregate status from its message logs.
// The derived value is authoritative; the stored campaign status is only
// authoritative for handoff failures.
type StatusService struct {
	CampaignRepo repository.CampaignRepositoryInterface
}

type CampaignStatus struct {
	CampaignID      string         `json:"campaign_id"`
	Status          string         `json:"status"`
	TotalRecipients int            `json:"total_recipients"`
	Counts          map[string]int `json:"counts"`
}

// GetCampaignStatus computes the aggregate status on demand.
func (s *StatusService) GetCampaignStatus(campaignID string) (*CampaignStatus, error) {
	campaign, err := s.CampaignRepo.GetByID(campaignID)
	if err != nil {
		return nil, appErrors.Wrap(appErrors.Internal, "Erro ao buscar campanha", err)
	}
	if campaign == nil {
		return nil, appErrors.New(appErrors.NotFound, "Campanha não encontrada")
	}
	return s.statusOf(campaign)
}

// GetCampaignStatusFor is the user-facing variant; only the campaign's
// creator may poll it.
func (s *StatusService) GetCampaignStatusFor(callerID, campaignID string) (*CampaignStatus, error) {
	campaign, err := s.CampaignRepo.GetByID(campaignID)
	if err != nil {
		return nil, appErrors.Wrap(appErrors.Internal, "Erro ao buscar campanha", err)
	}
	if campaign == nil {
		return nil, appErrors.New(appErrors.NotFound, "Campanha não encontrada")
	}
	if campaign.CreatedBy != callerID {
		return nil, appErrors.New(appErrors.Forbidden, "Sem permissão para esta campanha")
	}
	return s.statusOf(campaign)
}

func (s *StatusService) statusOf(campaign *model.Campaign) (*CampaignStatus, error) {
	stats, err := s.CampaignRepo.GetCampaignStats(campaign.ID)
	if err != nil {
		return nil, appErrors.Wrap(appErrors.Internal, "Erro ao agregar status da campanha", err)
	}

	derived := deriveStatus(campaign, stats[model.MessageStatusPending])

	// Opportunistic materialization; reads never depend on it.
	if derived == model.CampaignStatusCompleted && campaign.Status == model.CampaignStatusProcessing {
		if err := s.CampaignRepo.UpdateStatus(campaign.ID, model.CampaignStatusCompleted); err != nil {
			log.Println("⚠️ Failed to materialize completed status for campaign", campaign.ID, ":", err)
		}
	}

	return &CampaignStatus{
		CampaignID:      campaign.ID,
		Status:          derived,
		TotalRecipients: campaign.TotalRecipients,
		Counts:          stats,
	}, nil
}

// SyncCampaignStatus re-derives one campaign's status and materializes
// "completed" once no log is pending. Invoked by the status-sync worker and
// by the provider's update-status callback; safe to repeat.
func (s *StatusService) SyncCampaignStatus(campaignID string) error {
	campaign, err := s.CampaignRepo.GetByID(campaignID)
	if err != nil {
		return appErrors.Wrap(appErrors.Internal, "Erro ao buscar campanha", err)
	}
	if campaign == nil {
		return appErrors.New(appErrors.NotFound, "Campanha não encontrada")
	}
	if campaign.Status != model.CampaignStatusProcessing {
		return nil
	}

	pending, err := s.CampaignRepo.CountPendingLogs(campaignID)
	if err != nil {
		return appErrors.Wrap(appErrors.Internal, "Erro ao contar mensagens pendentes", err)
	}
	if pending > 0 {
		return nil
	}
	return s.CampaignRepo.UpdateStatus(campaignID, model.CampaignStatusCompleted)
}

func deriveStatus(campaign *model.Campaign, pending int) string {
	if campaign.Status == model.CampaignStatusFailed {
		return model.CampaignStatusFailed
	}
	if pending > 0 {
		return model.CampaignStatusProcessing
	}
	return model.CampaignStatusCompleted
}

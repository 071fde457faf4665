// internal/service/callback_service.go
package service

import (
	"crypto/subtle"
	"log"

	appErrors "github.com/diegoteixeira-br/barbersoft-campaigns/internal/errors"
	"github.com/diegoteixeira-br/barbersoft-campaigns/internal/model"
	"github.com/diegoteixeira-br/barbersoft-campaigns/internal/queue"
	"github.com/diegoteixeira-br/barbersoft-campaigns/internal/repository"
)

// CallbackService reconciles asynchronous status reports from the delivery
// provider. It is the sole mutation path for message-log statuses.
type CallbackService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	Queue        queue.Queue
}

// StatusReport is one provider callback: a terminal status for one log row,
// authenticated by the secret issued at dispatch time.
type StatusReport struct {
	CampaignID string
	LogID      string
	Status     string
	Secret     string
}

// AuthorizeCampaign loads a campaign and verifies the callback secret.
func (s *CallbackService) AuthorizeCampaign(campaignID, secret string) (*model.Campaign, error) {
	campaign, err := s.CampaignRepo.GetByID(campaignID)
	if err != nil {
		return nil, appErrors.Wrap(appErrors.Internal, "Erro ao buscar campanha", err)
	}
	if campaign == nil {
		return nil, appErrors.New(appErrors.NotFound, "Campanha não encontrada")
	}
	if campaign.CallbackSecret == "" ||
		subtle.ConstantTimeCompare([]byte(campaign.CallbackSecret), []byte(secret)) != 1 {
		return nil, appErrors.New(appErrors.Unauthenticated, "Segredo de callback inválido")
	}
	return campaign, nil
}

// ReportStatus applies one status report. Replayed callbacks are acknowledged
// as no-op successes: a log only ever transitions away from pending once.
func (s *CallbackService) ReportStatus(report *StatusReport) error {
	campaign, err := s.AuthorizeCampaign(report.CampaignID, report.Secret)
	if err != nil {
		return err
	}
	if !model.TerminalMessageStatus(report.Status) {
		return appErrors.Newf(appErrors.InvalidArgument, "Status inválido: %q", report.Status)
	}

	msgLog, err := s.CampaignRepo.GetMessageLog(report.LogID)
	if err != nil {
		return appErrors.Wrap(appErrors.Internal, "Erro ao buscar registro de mensagem", err)
	}
	if msgLog == nil || msgLog.CampaignID != campaign.ID {
		return appErrors.New(appErrors.NotFound, "Registro de mensagem não encontrado")
	}

	// A replay for an already-terminal log must succeed even after the
	// campaign row has been materialized as completed, so this check comes
	// before the campaign-state gate.
	if msgLog.Status != model.MessageStatusPending {
		if msgLog.Status != report.Status {
			log.Printf("⚠️ Conflicting status report for log %s: has %q, provider sent %q\n",
				msgLog.ID, msgLog.Status, report.Status)
		}
		return nil // idempotent ack
	}

	if campaign.Status != model.CampaignStatusProcessing {
		return appErrors.New(appErrors.NotFound, "Campanha não está mais em processamento")
	}

	updated, err := s.CampaignRepo.MarkMessageLogIfPending(report.LogID, report.Status)
	if err != nil {
		return appErrors.Wrap(appErrors.Internal, "Erro ao atualizar registro de mensagem", err)
	}
	if !updated {
		// Lost the race to a concurrent duplicate; the winning value stands.
		return nil
	}

	if s.Queue != nil {
		if err := s.Queue.Publish(queue.StatusSyncTopic, queue.StatusSyncJob{CampaignID: campaign.ID}); err != nil {
			log.Println("⚠️ Failed to enqueue status sync for campaign", campaign.ID, ":", err)
		}
	}
	return nil
}

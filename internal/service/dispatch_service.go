// internal/service/dispatch_service.go
package service

import (
    "context"
    "fmt"
    "log"
    "strings"

    "github.com/google/uuid"

    appErrors "github.com/diegoteixeira-br/barbersoft-campaigns/internal/errors"
    "github.com/diegoteixeira-br/barbersoft-campaigns/internal/model"
    "github.com/diegoteixeira-br/barbersoft-campaigns/internal/phone"
    "github.com/diegoteixeira-br/barbersoft-campaigns/internal/provider"
    "github.com/diegoteixeira-br/barbersoft-campaigns/internal/repository"
)

const (
    maxTemplateLength = 2000
    maxTargets        = 500
)

// DispatchService is the campaign dispatch orchestrator: it validates a
// request, filters recipients against the tenant opt-out set, creates the
// campaign with its message logs and hands the batch off to the delivery
// provider.
type DispatchService struct {
    CampaignRepo repository.CampaignRepositoryInterface
    UnitRepo     repository.UnitRepositoryInterface
    ClientRepo   repository.ClientRepositoryInterface
    Sender       provider.Sender

    // BaseURL is the public base URL the provider calls back on.
    BaseURL string
}

type DispatchRequest struct {
    CallerID        string
    UnitID          string
    MessageTemplate string
    Targets         []model.Target
    MediaURL        string
    MediaType       string
}

type DispatchResult struct {
    CampaignID string
    Targeted   int
    Skipped    int
    Message    string
}

type normalizedTarget struct {
    target    model.Target
    canonical string
}

// Dispatch runs the full dispatch flow. No record is created until every
// validation has passed; after the campaign exists the only failure mode is
// the provider handoff, which leaves the campaign marked failed.
func (s *DispatchService) Dispatch(ctx context.Context, req *DispatchRequest) (*DispatchResult, error) {
    if req.MessageTemplate == "" || len(req.Targets) == 0 || req.UnitID == "" {
        return nil, appErrors.New(appErrors.InvalidArgument, "Dados inválidos. Forneça message_template, targets e unit_id.")
    }
    if len(req.MessageTemplate) > maxTemplateLength {
        return nil, appErrors.New(appErrors.InvalidArgument, "Mensagem muito longa. Máximo de 2000 caracteres.")
    }
    if len(req.Targets) > maxTargets {
        return nil, appErrors.New(appErrors.InvalidArgument, "Máximo de 500 destinatários por campanha.")
    }
    if req.MediaURL != "" && !strings.HasPrefix(req.MediaURL, "https://") {
        return nil, appErrors.New(appErrors.InvalidArgument, "URL de mídia deve usar HTTPS.")
    }

    // Normalize every target up front; a single bad number fails the batch.
    normalized := make([]normalizedTarget, 0, len(req.Targets))
    invalid := 0
    for _, t := range req.Targets {
        canonical := phone.Normalize(t.Phone)
        if !phone.Valid(canonical) {
            invalid++
            continue
        }
        normalized = append(normalized, normalizedTarget{target: t, canonical: canonical})
    }
    if invalid > 0 {
        return nil, appErrors.Newf(appErrors.InvalidArgument, "%d número(s) de telefone inválido(s).", invalid)
    }

    unit, err := s.UnitRepo.GetByID(req.UnitID)
    if err != nil {
        return nil, appErrors.Wrap(appErrors.Internal, "Erro ao buscar unidade", err)
    }
    if unit == nil {
        return nil, appErrors.New(appErrors.NotFound, "Unidade não encontrada")
    }
    if unit.UserID != req.CallerID {
        return nil, appErrors.New(appErrors.Forbidden, "Sem permissão para esta unidade")
    }
    if !unit.WhatsAppConfigured() {
        return nil, appErrors.Newf(appErrors.PreconditionFailed,
            "WhatsApp não configurado para a unidade %q. Configure em Unidades > WhatsApp.", unit.Name)
    }

    optedOut, err := s.ClientRepo.OptedOutPhones(unit.CompanyID)
    if err != nil {
        return nil, appErrors.Wrap(appErrors.Internal, "Erro ao carregar lista de opt-out", err)
    }

    filtered := make([]normalizedTarget, 0, len(normalized))
    for _, nt := range normalized {
        if _, out := optedOut[nt.canonical]; out {
            log.Printf("Skipping opted-out client: %s (%s)\n", nt.target.Name, nt.target.Phone)
            continue
        }
        filtered = append(filtered, nt)
    }
    if len(filtered) == 0 {
        return nil, appErrors.New(appErrors.PreconditionFailed,
            "Todos os destinatários selecionados fizeram opt-out e não receberão mensagens de marketing")
    }
    skipped := len(normalized) - len(filtered)

    campaign := &model.Campaign{
        CompanyID:       unit.CompanyID,
        UnitID:          unit.ID,
        MessageTemplate: req.MessageTemplate,
        MediaURL:        req.MediaURL,
        MediaType:       req.MediaType,
        TotalRecipients: len(filtered),
        Status:          model.CampaignStatusProcessing,
        CallbackSecret:  uuid.NewString(),
        CreatedBy:       req.CallerID,
    }
    logs := make([]*model.MessageLog, len(filtered))
    for i, nt := range filtered {
        logs[i] = &model.MessageLog{
            RecipientPhone: nt.canonical,
            RecipientName:  nt.target.Name,
        }
    }

    if err := s.CampaignRepo.CreateWithLogs(campaign, logs); err != nil {
        return nil, appErrors.Wrap(appErrors.Internal, "Erro ao criar campanha", err)
    }
    log.Printf("Campaign %s created with %d message logs (%d skipped due to opt-out)\n",
        campaign.ID, len(logs), skipped)

    contacts := make([]provider.Contact, len(filtered))
    for i, nt := range filtered {
        contacts[i] = provider.Contact{
            Number: phone.WithCountryCode(nt.canonical),
            Text:   RenderForRecipient(req.MessageTemplate, nt.target.Name),
            LogID:  logs[i].ID,
        }
    }

    payload := &provider.Payload{
        InstanceName:    unit.EvolutionInstanceName,
        APIKey:          unit.EvolutionAPIKey,
        MediaURL:        req.MediaURL,
        MediaType:       req.MediaType,
        Contacts:        contacts,
        CampaignID:      campaign.ID,
        CallbackURL:     s.BaseURL + "/callbacks/campaign",
        UpdateStatusURL: s.BaseURL + "/callbacks/update-status",
        CheckStatusURL:  s.BaseURL + "/callbacks/check-status",
        CallbackSecret:  campaign.CallbackSecret,
    }

    if err := s.Sender.Send(ctx, payload); err != nil {
        log.Println("⚠️ Provider handoff failed:", err)
        if updErr := s.CampaignRepo.UpdateStatus(campaign.ID, model.CampaignStatusFailed); updErr != nil {
            log.Println("⚠️ Failed to mark campaign failed:", updErr)
        }
        return nil, appErrors.Wrap(appErrors.Internal, "Erro ao enviar para o webhook de marketing", err)
    }

    suffix := ""
    if skipped > 0 {
        suffix = fmt.Sprintf(" (%d ignorados por opt-out)", skipped)
    }
    return &DispatchResult{
        CampaignID: campaign.ID,
        Targeted:   len(filtered),
        Skipped:    skipped,
        Message: fmt.Sprintf("Campanha iniciada para %d contato(s)%s. Processando em segundo plano...",
            len(filtered), suffix),
    }, nil
}

// internal/service/campaign_service.go
package service

import (
    appErrors "github.com/diegoteixeira-br/barbersoft-campaigns/internal/errors"
    "github.com/diegoteixeira-br/barbersoft-campaigns/internal/model"
    "github.com/diegoteixeira-br/barbersoft-campaigns/internal/repository"
)

// CampaignService serves the dashboard's read side: the caller's campaigns,
// paginated.
type CampaignService struct {
    CampaignRepo repository.CampaignRepositoryInterface
}

// ListCampaigns fetches the caller's campaigns with pagination.
func (s *CampaignService) ListCampaigns(callerID string, page, pageSize int, status string) ([]model.Campaign, map[string]int, error) {
    if page < 1 {
        page = 1
    }
    if pageSize < 1 {
        pageSize = 20
    }
    if pageSize > 100 {
        pageSize = 100
    }
    offset := (page - 1) * pageSize

    ptrs, total, err := s.CampaignRepo.ListByCreator(callerID, offset, pageSize, status)
    if err != nil {
        return nil, nil, appErrors.Wrap(appErrors.Internal, "Erro ao listar campanhas", err)
    }

    campaigns := make([]model.Campaign, len(ptrs))
    for i, c := range ptrs {
        campaigns[i] = *c
    }

    totalPages := (total + pageSize - 1) / pageSize
    pagination := map[string]int{
        "page":        page,
        "page_size":   pageSize,
        "total_count": total,
        "total_pages": totalPages,
    }

    return campaigns, pagination, nil
}

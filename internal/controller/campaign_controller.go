// internal/controller/campaign_controller.go
package controller

import (
    "encoding/json"
    "net/http"
    "strconv"

    "github.com/go-chi/chi/v5"

    appErrors "github.com/diegoteixeira-br/barbersoft-campaigns/internal/errors"
    "github.com/diegoteixeira-br/barbersoft-campaigns/internal/middleware"
    "github.com/diegoteixeira-br/barbersoft-campaigns/internal/model"
    "github.com/diegoteixeira-br/barbersoft-campaigns/internal/service"
)

// CampaignController exposes the authenticated campaign endpoints.
type CampaignController struct {
    DispatchService *service.DispatchService
    StatusService   *service.StatusService
    CampaignService *service.CampaignService
}

// SendCampaign handles POST /campaigns/send.
func (c *CampaignController) SendCampaign(w http.ResponseWriter, r *http.Request) {
    var body struct {
        MessageTemplate string         `json:"message_template"`
        Targets         []model.Target `json:"targets"`
        UnitID          string         `json:"unit_id"`
        MediaURL        string         `json:"media_url"`
        MediaType       string         `json:"media_type"`
    }
    if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
        respondError(w, appErrors.New(appErrors.InvalidArgument, "Corpo da requisição inválido"))
        return
    }

    result, err := c.DispatchService.Dispatch(r.Context(), &service.DispatchRequest{
        CallerID:        middleware.CallerID(r.Context()),
        UnitID:          body.UnitID,
        MessageTemplate: body.MessageTemplate,
        Targets:         body.Targets,
        MediaURL:        body.MediaURL,
        MediaType:       body.MediaType,
    })
    if err != nil {
        respondError(w, err)
        return
    }

    respondJSON(w, http.StatusOK, map[string]interface{}{
        "success":     true,
        "campaign_id": result.CampaignID,
        "message":     result.Message,
    })
}

// GetCampaignStatus handles GET /campaigns/{id}/status.
func (c *CampaignController) GetCampaignStatus(w http.ResponseWriter, r *http.Request) {
    campaignID := chi.URLParam(r, "id")

    status, err := c.StatusService.GetCampaignStatusFor(middleware.CallerID(r.Context()), campaignID)
    if err != nil {
        respondError(w, err)
        return
    }

    respondJSON(w, http.StatusOK, status)
}

// ListCampaigns handles GET /campaigns.
func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
    page, _ := strconv.Atoi(r.URL.Query().Get("page"))
    pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
    status := r.URL.Query().Get("status")

    campaigns, pagination, err := c.CampaignService.ListCampaigns(middleware.CallerID(r.Context()), page, pageSize, status)
    if err != nil {
        respondError(w, err)
        return
    }

    respondJSON(w, http.StatusOK, map[string]interface{}{
        "data":       campaigns,
        "pagination": pagination,
    })
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, err error) {
    respondJSON(w, appErrors.HTTPStatus(err), map[string]string{"error": appErrors.UserMessage(err)})
}

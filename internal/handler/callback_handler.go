// internal/handler/callback_handler.go
package handler

import (
	"encoding/json"
	"net/http"

	appErrors "github.com/diegoteixeira-br/barbersoft-campaigns/internal/errors"
	"github.com/diegoteixeira-br/barbersoft-campaigns/internal/service"
)

// CallbackHandler exposes the provider-facing endpoints. These are not behind
// user auth; every call carries the per-campaign callback secret instead.
type CallbackHandler struct {
	CallbackService *service.CallbackService
	StatusService   *service.StatusService
}

// MessageStatus handles POST /callbacks/campaign: one terminal status for one
// message log. Duplicates are acknowledged quickly so the provider stops
// retrying.
func (h *CallbackHandler) MessageStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CampaignID     string `json:"campaign_id"`
		LogID          string `json:"log_id"`
		Status         string `json:"status"`
		CallbackSecret string `json:"callback_secret"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, appErrors.New(appErrors.InvalidArgument, "Corpo da requisição inválido"))
		return
	}

	err := h.CallbackService.ReportStatus(&service.StatusReport{
		CampaignID: body.CampaignID,
		LogID:      body.LogID,
		Status:     body.Status,
		Secret:     body.CallbackSecret,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// UpdateStatus handles POST /callbacks/update-status: the provider signals
// that the campaign's aggregate status should be re-derived.
func (h *CallbackHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CampaignID     string `json:"campaign_id"`
		CallbackSecret string `json:"callback_secret"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, appErrors.New(appErrors.InvalidArgument, "Corpo da requisição inválido"))
		return
	}

	if _, err := h.CallbackService.AuthorizeCampaign(body.CampaignID, body.CallbackSecret); err != nil {
		respondError(w, err)
		return
	}
	if err := h.StatusService.SyncCampaignStatus(body.CampaignID); err != nil {
		respondError(w, err)
		return
	}

	status, err := h.StatusService.GetCampaignStatus(body.CampaignID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"status":  status.Status,
	})
}

// CheckStatus handles GET /callbacks/check-status: the provider-side status
// poll.
func (h *CallbackHandler) CheckStatus(w http.ResponseWriter, r *http.Request) {
	campaignID := r.URL.Query().Get("campaign_id")
	secret := r.URL.Query().Get("callback_secret")

	if _, err := h.CallbackService.AuthorizeCampaign(campaignID, secret); err != nil {
		respondError(w, err)
		return
	}

	status, err := h.StatusService.GetCampaignStatus(campaignID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, status)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, appErrors.HTTPStatus(err), map[string]string{"error": appErrors.UserMessage(err)})
}

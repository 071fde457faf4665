package service_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/diegoteixeira-br/barbersoft-campaigns/internal/model"
	"github.com/diegoteixeira-br/barbersoft-campaigns/internal/provider"
	"github.com/diegoteixeira-br/barbersoft-campaigns/internal/repository"
)

// ---- Campaign repository fake ----

type fakeCampaignRepo struct {
	mu         sync.Mutex
	campaigns  map[string]*model.Campaign
	logs       map[string]*model.MessageLog
	order      []string // campaign ids in creation order
	failCreate bool
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{
		campaigns: map[string]*model.Campaign{},
		logs:      map[string]*model.MessageLog{},
	}
}

func (f *fakeCampaignRepo) CreateWithLogs(c *model.Campaign, logs []*model.MessageLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return fmt.Errorf("insert failed")
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	cp := *c
	f.campaigns[c.ID] = &cp
	f.order = append(f.order, c.ID)
	for _, l := range logs {
		if l.ID == "" {
			l.ID = uuid.NewString()
		}
		l.CampaignID = c.ID
		l.Status = model.MessageStatusPending
		lp := *l
		f.logs[l.ID] = &lp
	}
	return nil
}

func (f *fakeCampaignRepo) GetByID(id string) (*model.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.campaigns[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCampaignRepo) ListByCreator(createdBy string, offset, limit int, status string) ([]*model.Campaign, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := []*model.Campaign{}
	for i := len(f.order) - 1; i >= 0; i-- { // newest first
		c := f.campaigns[f.order[i]]
		if c.CreatedBy != createdBy {
			continue
		}
		if status != "" && c.Status != status {
			continue
		}
		cp := *c
		matched = append(matched, &cp)
	}
	total := len(matched)
	if offset >= total {
		return []*model.Campaign{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (f *fakeCampaignRepo) UpdateStatus(campaignID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.campaigns[campaignID]
	if !ok {
		return fmt.Errorf("campaign %s not found", campaignID)
	}
	c.Status = status
	return nil
}

func (f *fakeCampaignRepo) GetMessageLog(id string) (*model.MessageLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.logs[id]
	if !ok {
		return nil, nil
	}
	lp := *l
	return &lp, nil
}

func (f *fakeCampaignRepo) MarkMessageLogIfPending(id, status string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.logs[id]
	if !ok || l.Status != model.MessageStatusPending {
		return false, nil
	}
	l.Status = status
	return true, nil
}

func (f *fakeCampaignRepo) CountPendingLogs(campaignID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, l := range f.logs {
		if l.CampaignID == campaignID && l.Status == model.MessageStatusPending {
			n++
		}
	}
	return n, nil
}

func (f *fakeCampaignRepo) GetCampaignStats(campaignID string) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := map[string]int{
		model.MessageStatusPending:   0,
		model.MessageStatusSent:      0,
		model.MessageStatusFailed:    0,
		model.MessageStatusDelivered: 0,
	}
	for _, l := range f.logs {
		if l.CampaignID == campaignID {
			stats[l.Status]++
		}
	}
	return stats, nil
}

func (f *fakeCampaignRepo) logsOf(campaignID string) []*model.MessageLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.MessageLog{}
	for _, l := range f.logs {
		if l.CampaignID == campaignID {
			lp := *l
			out = append(out, &lp)
		}
	}
	return out
}

var _ repository.CampaignRepositoryInterface = (*fakeCampaignRepo)(nil)

// ---- Unit repository fake ----

type fakeUnitRepo struct {
	units map[string]*model.Unit
}

func (f *fakeUnitRepo) GetByID(id string) (*model.Unit, error) {
	u, ok := f.units[id]
	if !ok {
		return nil, nil
	}
	up := *u
	return &up, nil
}

var _ repository.UnitRepositoryInterface = (*fakeUnitRepo)(nil)

// ---- Client repository fake ----

type fakeClientRepo struct {
	optedOut map[string]struct{} // canonical phones
}

func (f *fakeClientRepo) OptedOutPhones(companyID string) (map[string]struct{}, error) {
	if f.optedOut == nil {
		return map[string]struct{}{}, nil
	}
	return f.optedOut, nil
}

var _ repository.ClientRepositoryInterface = (*fakeClientRepo)(nil)

// ---- Provider sender fake ----

type fakeSender struct {
	fail     bool
	payloads []*provider.Payload
}

func (f *fakeSender) Send(ctx context.Context, p *provider.Payload) error {
	if f.fail {
		return fmt.Errorf("webhook returned 502: bad gateway")
	}
	f.payloads = append(f.payloads, p)
	return nil
}

var _ provider.Sender = (*fakeSender)(nil)

// ---- Queue fake ----

type fakeQueue struct {
	mu        sync.Mutex
	published []any
}

func (f *fakeQueue) Publish(topic string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, payload)
	return nil
}

func (f *fakeQueue) Subscribe(topic string, handler func(payload any) error) error {
	return nil
}

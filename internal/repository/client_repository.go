package repository

import (
	"database/sql"

	"github.com/diegoteixeira-br/barbersoft-campaigns/internal/phone"
)

// ClientRepositoryInterface exposes the tenant opt-out set.
type ClientRepositoryInterface interface {
	OptedOutPhones(companyID string) (map[string]struct{}, error)
}

type ClientRepository struct {
	DB *sql.DB
}

// OptedOutPhones returns the canonical phone numbers of every client of the
// company that opted out of marketing messages.
func (r *ClientRepository) OptedOutPhones(companyID string) (map[string]struct{}, error) {
	query := `
        SELECT phone FROM clients
        WHERE company_id = $1 AND marketing_opt_out = true
    `
	rows, err := r.DB.Query(query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	optedOut := map[string]struct{}{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		optedOut[phone.Normalize(raw)] = struct{}{}
	}
	return optedOut, rows.Err()
}

var _ ClientRepositoryInterface = (*ClientRepository)(nil)

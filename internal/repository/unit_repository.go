package repository

import (
	"database/sql"

	"github.com/diegoteixeira-br/barbersoft-campaigns/internal/model"
)

// UnitRepositoryInterface defines the unit lookups the dispatch flow needs.
type UnitRepositoryInterface interface {
	GetByID(id string) (*model.Unit, error)
}

type UnitRepository struct {
	DB *sql.DB
}

// GetByID fetches a unit with its delivery credentials. Returns (nil, nil)
// when the unit does not exist.
func (r *UnitRepository) GetByID(id string) (*model.Unit, error) {
	query := `
        SELECT id, company_id, user_id, name,
               COALESCE(evolution_instance_name, ''), COALESCE(evolution_api_key, '')
        FROM units
        WHERE id = $1
    `
	var u model.Unit
	err := r.DB.QueryRow(query, id).Scan(
		&u.ID, &u.CompanyID, &u.UserID, &u.Name,
		&u.EvolutionInstanceName, &u.EvolutionAPIKey,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

var _ UnitRepositoryInterface = (*UnitRepository)(nil)

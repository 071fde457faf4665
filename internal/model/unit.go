// internal/model/unit.go
package model

// Unit is a sending unit (one physical location of a company). WhatsApp
// delivery credentials live on the unit.
type Unit struct {
	ID                    string `db:"id" json:"id"`
	CompanyID             string `db:"company_id" json:"company_id"`
	UserID                string `db:"user_id" json:"user_id"`
	Name                  string `db:"name" json:"name"`
	EvolutionInstanceName string `db:"evolution_instance_name" json:"-"`
	EvolutionAPIKey       string `db:"evolution_api_key" json:"-"`
}

// WhatsAppConfigured reports whether the unit has delivery credentials.
func (u *Unit) WhatsAppConfigured() bool {
	return u.EvolutionInstanceName != "" && u.EvolutionAPIKey != ""
}

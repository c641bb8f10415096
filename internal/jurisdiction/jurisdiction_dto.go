package jurisdiction

import "peopleflow-hr/internal/payrolltax"

type JurisdictionResponse struct {
	ID                   string `json:"id"`
	Code                 string `json:"code"`
	Name                 string `json:"name"`
	Currency             string `json:"currency"`
	CurrencySymbol       string `json:"currency_symbol,omitempty"`
	FiscalYearStartMonth int    `json:"fiscal_year_start_month"`
	IsActive             bool   `json:"is_active"`
	UpdatedAt            string `json:"updated_at,omitempty"`
}

type GetRulesRequest struct {
	AsOf string `form:"as_of"`
}

type RuleSetResponse struct {
	AsOf string `json:"as_of"`
	payrolltax.RuleSet
}

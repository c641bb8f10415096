package jurisdiction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Amounts on rule rows are minor units.

type TaxJurisdiction struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code                 string    `gorm:"size:8;uniqueIndex;not null"`
	Name                 string    `gorm:"size:255;not null"`
	Currency             string    `gorm:"size:3;not null"`
	CurrencySymbol       string    `gorm:"size:8"`
	FiscalYearStartMonth int       `gorm:"not null;default:1"`
	IsActive             bool      `gorm:"not null;default:true"`
	CreatedAt            time.Time `gorm:"autoCreateTime"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime"`
}

func (TaxJurisdiction) TableName() string {
	return "tax_jurisdictions"
}

// TaxYearFor returns the calendar year in which the fiscal year containing
// date starts.
func (j TaxJurisdiction) TaxYearFor(date time.Time) int {
	return TaxYearFor(date, time.Month(j.FiscalYearStartMonth))
}

type IncomeTaxRule struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	JurisdictionID   uuid.UUID  `gorm:"type:uuid;index;not null"`
	TaxYear          int        `gorm:"index;not null"`
	EffectiveFrom    time.Time  `gorm:"type:date;not null"`
	EffectiveTo      *time.Time `gorm:"type:date"`
	RoundingMode     string     `gorm:"size:16;not null;default:nearest"`
	Periodization    string     `gorm:"size:16;not null;default:annualized"`
	DeductionType    string     `gorm:"size:16;not null"`
	DeductionAmount  int64
	DeductionBasis   string       `gorm:"size:16"`
	DeductionFormula string       `gorm:"type:text"`
	Bands            []TaxBandRow `gorm:"foreignKey:RuleID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time    `gorm:"autoCreateTime"`
	UpdatedAt        time.Time    `gorm:"autoUpdateTime"`
}

func (IncomeTaxRule) TableName() string {
	return "income_tax_rules"
}

type TaxBandRow struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	RuleID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	BandOrder  int             `gorm:"not null"`
	Name       string          `gorm:"size:64"`
	MinAmount  int64           `gorm:"not null"`
	MaxAmount  *int64          ``
	Rate       decimal.Decimal `gorm:"type:numeric(9,6);not null"`
	FlatAmount *int64          ``
}

func (TaxBandRow) TableName() string {
	return "tax_bands"
}

type SocialSecurityRuleRow struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	JurisdictionID uuid.UUID       `gorm:"type:uuid;index;not null"`
	TaxYear        int             `gorm:"index;not null"`
	EffectiveFrom  time.Time       `gorm:"type:date;not null"`
	EffectiveTo    *time.Time      `gorm:"type:date"`
	EmployeeRate   decimal.Decimal `gorm:"type:numeric(9,6);not null"`
	EmployerRate   decimal.Decimal `gorm:"type:numeric(9,6);not null"`
	Ceiling        int64
	CeilingPeriod  string    `gorm:"size:16;not null;default:none"`
	Basis          string    `gorm:"size:16;not null;default:gross"`
	Components     string    `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (SocialSecurityRuleRow) TableName() string {
	return "social_security_rules"
}

// effectiveOn reports whether [from, to] contains day. A nil to is open ended.
func effectiveOn(from time.Time, to *time.Time, day time.Time) bool {
	d := dateOnly(day)
	if d.Before(dateOnly(from)) {
		return false
	}
	return to == nil || !d.After(dateOnly(*to))
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

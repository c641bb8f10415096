package jurisdiction

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"peopleflow-hr/internal/payrolltax"
	jurisdictionerrors "peopleflow-hr/internal/jurisdiction/errors"
	"peopleflow-hr/internal/shared/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// FileVersion is the only rule file layout this loader understands.
const FileVersion = 1

const dateLayout = "2006-01-02"

// File is a rule file as written by hand. Amounts are major units.
type File struct {
	Version       int                      `yaml:"version"`
	Jurisdictions []JurisdictionDefinition `yaml:"jurisdictions"`
}

type JurisdictionDefinition struct {
	Code                 string                         `yaml:"code"`
	Name                 string                         `yaml:"name"`
	Currency             string                         `yaml:"currency"`
	CurrencySymbol       string                         `yaml:"currency_symbol"`
	FiscalYearStartMonth int                            `yaml:"fiscal_year_start_month"`
	Active               *bool                          `yaml:"active"`
	IncomeTax            []IncomeTaxRuleDefinition      `yaml:"income_tax"`
	SocialSecurity       []SocialSecurityRuleDefinition `yaml:"social_security"`
}

type IncomeTaxRuleDefinition struct {
	TaxYear       int                 `yaml:"tax_year"`
	EffectiveFrom string              `yaml:"effective_from"`
	EffectiveTo   string              `yaml:"effective_to"`
	RoundingMode  string              `yaml:"rounding_mode"`
	Periodization string              `yaml:"periodization"`
	Deduction     DeductionDefinition `yaml:"deduction"`
	Bands         []BandDefinition    `yaml:"bands"`
}

type DeductionDefinition struct {
	Type    string          `yaml:"type"`
	Amount  decimal.Decimal `yaml:"amount"`
	Basis   string          `yaml:"basis"`
	Formula string          `yaml:"formula"`
}

type BandDefinition struct {
	Name string           `yaml:"name"`
	Min  decimal.Decimal  `yaml:"min"`
	Max  *decimal.Decimal `yaml:"max"`
	Rate decimal.Decimal  `yaml:"rate"`
	Flat *decimal.Decimal `yaml:"flat"`
}

type SocialSecurityRuleDefinition struct {
	TaxYear       int             `yaml:"tax_year"`
	EffectiveFrom string          `yaml:"effective_from"`
	EffectiveTo   string          `yaml:"effective_to"`
	EmployeeRate  decimal.Decimal `yaml:"employee_rate"`
	EmployerRate  decimal.Decimal `yaml:"employer_rate"`
	Ceiling       decimal.Decimal `yaml:"ceiling"`
	CeilingPeriod string          `yaml:"ceiling_period"`
	Basis         string          `yaml:"basis"`
	Components    []string        `yaml:"components"`
}

func LoadFile(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, err
	}
	defer f.Close()

	file, err := Parse(f)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return file, nil
}

// Parse decodes and validates a rule file. Unknown keys are rejected and
// every formula is parsed, so a broken file never reaches the database.
func Parse(r io.Reader) (File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file File
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return File{}, fmt.Errorf("%w: file is empty", jurisdictionerrors.ErrInvalidRuleFile)
		}
		return File{}, fmt.Errorf("%w: %v", jurisdictionerrors.ErrInvalidRuleFile, err)
	}
	if file.Version != FileVersion {
		return File{}, fmt.Errorf("%w: got %d, want %d", jurisdictionerrors.ErrUnsupportedFileVersion, file.Version, FileVersion)
	}

	seen := make(map[string]bool, len(file.Jurisdictions))
	for _, def := range file.Jurisdictions {
		if _, _, _, err := def.toEntities(); err != nil {
			return File{}, err
		}
		code := normalizeCode(def.Code)
		if seen[code] {
			return File{}, fmt.Errorf("%w: %s listed twice", jurisdictionerrors.ErrInvalidRuleFile, code)
		}
		seen[code] = true
	}
	return file, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// toEntities converts a definition into rows ready to persist and validates
// each rule with the engine's own checks.
func (d JurisdictionDefinition) toEntities() (TaxJurisdiction, []IncomeTaxRule, []SocialSecurityRuleRow, error) {
	code := normalizeCode(d.Code)
	fail := func(format string, args ...any) (TaxJurisdiction, []IncomeTaxRule, []SocialSecurityRuleRow, error) {
		return TaxJurisdiction{}, nil, nil, fmt.Errorf("jurisdiction %q: "+format, append([]any{code}, args...)...)
	}

	if code == "" {
		return fail("%w: code is required", jurisdictionerrors.ErrInvalidRuleFile)
	}
	if strings.TrimSpace(d.Name) == "" {
		return fail("%w: name is required", jurisdictionerrors.ErrInvalidRuleFile)
	}
	if len(strings.TrimSpace(d.Currency)) != 3 {
		return fail("%w: currency must be a 3-letter code", jurisdictionerrors.ErrInvalidRuleFile)
	}
	month := d.FiscalYearStartMonth
	if month == 0 {
		month = 1
	}
	if month < 1 || month > 12 {
		return fail("%w: fiscal_year_start_month %d outside 1..12", jurisdictionerrors.ErrInvalidRuleFile, d.FiscalYearStartMonth)
	}

	j := TaxJurisdiction{
		Code:                 code,
		Name:                 strings.TrimSpace(d.Name),
		Currency:             strings.ToUpper(strings.TrimSpace(d.Currency)),
		CurrencySymbol:       d.CurrencySymbol,
		FiscalYearStartMonth: month,
		IsActive:             d.Active == nil || *d.Active,
	}

	incomeRules := make([]IncomeTaxRule, 0, len(d.IncomeTax))
	for i, def := range d.IncomeTax {
		rule, err := def.toEntity(time.Month(month))
		if err != nil {
			return fail("income_tax[%d]: %w", i, err)
		}
		if err := payrolltax.ValidateIncomeTaxRule(toEngineIncomeTaxRule(rule)); err != nil {
			return fail("income_tax[%d]: %w", i, err)
		}
		incomeRules = append(incomeRules, rule)
	}

	socialRules := make([]SocialSecurityRuleRow, 0, len(d.SocialSecurity))
	for i, def := range d.SocialSecurity {
		rule, err := def.toEntity(time.Month(month))
		if err != nil {
			return fail("social_security[%d]: %w", i, err)
		}
		if err := payrolltax.ValidateSocialSecurityRule(toEngineSocialSecurityRule(rule)); err != nil {
			return fail("social_security[%d]: %w", i, err)
		}
		socialRules = append(socialRules, rule)
	}

	// Every tax year with income tax needs its own contribution rule; a
	// jurisdiction without a scheme declares zero rates.
	socialYears := make(map[int]bool, len(socialRules))
	for _, r := range socialRules {
		socialYears[r.TaxYear] = true
	}
	for _, r := range incomeRules {
		if !socialYears[r.TaxYear] {
			return fail("%w: tax year %d has no social_security rule", jurisdictionerrors.ErrInvalidRuleFile, r.TaxYear)
		}
	}

	return j, incomeRules, socialRules, nil
}

func (d IncomeTaxRuleDefinition) toEntity(fiscalStart time.Month) (IncomeTaxRule, error) {
	from, to, err := effectiveRange(d.TaxYear, d.EffectiveFrom, d.EffectiveTo, fiscalStart)
	if err != nil {
		return IncomeTaxRule{}, err
	}

	rule := IncomeTaxRule{
		ID:               uuid.New(),
		TaxYear:          d.TaxYear,
		EffectiveFrom:    from,
		EffectiveTo:      to,
		RoundingMode:     orDefault(d.RoundingMode, string(payrolltax.RoundNearest)),
		Periodization:    orDefault(d.Periodization, string(payrolltax.PeriodizeAnnualized)),
		DeductionType:    strings.ToLower(strings.TrimSpace(d.Deduction.Type)),
		DeductionAmount:  int64(money.FromMajor(d.Deduction.Amount)),
		DeductionBasis:   strings.ToLower(strings.TrimSpace(d.Deduction.Basis)),
		DeductionFormula: strings.TrimSpace(d.Deduction.Formula),
	}

	for i, b := range d.Bands {
		row := TaxBandRow{
			ID:        uuid.New(),
			RuleID:    rule.ID,
			BandOrder: i + 1,
			Name:      b.Name,
			MinAmount: int64(money.FromMajor(b.Min)),
			Rate:      b.Rate,
		}
		if b.Max != nil {
			v := int64(money.FromMajor(*b.Max))
			row.MaxAmount = &v
		}
		if b.Flat != nil {
			v := int64(money.FromMajor(*b.Flat))
			row.FlatAmount = &v
		}
		rule.Bands = append(rule.Bands, row)
	}
	return rule, nil
}

func (d SocialSecurityRuleDefinition) toEntity(fiscalStart time.Month) (SocialSecurityRuleRow, error) {
	from, to, err := effectiveRange(d.TaxYear, d.EffectiveFrom, d.EffectiveTo, fiscalStart)
	if err != nil {
		return SocialSecurityRuleRow{}, err
	}

	components := make([]string, 0, len(d.Components))
	for _, c := range d.Components {
		if c = strings.TrimSpace(c); c != "" {
			components = append(components, c)
		}
	}

	return SocialSecurityRuleRow{
		ID:            uuid.New(),
		TaxYear:       d.TaxYear,
		EffectiveFrom: from,
		EffectiveTo:   to,
		EmployeeRate:  d.EmployeeRate,
		EmployerRate:  d.EmployerRate,
		Ceiling:       int64(money.FromMajor(d.Ceiling)),
		CeilingPeriod: orDefault(d.CeilingPeriod, string(payrolltax.CeilingNone)),
		Basis:         orDefault(d.Basis, string(payrolltax.ContributionBasisGross)),
		Components:    strings.Join(components, ","),
	}, nil
}

// effectiveRange defaults a missing start to the first day of the tax year.
func effectiveRange(taxYear int, fromStr, toStr string, fiscalStart time.Month) (time.Time, *time.Time, error) {
	if taxYear < 1900 || taxYear > 9999 {
		return time.Time{}, nil, fmt.Errorf("%w: tax_year %d is out of range", jurisdictionerrors.ErrInvalidRuleFile, taxYear)
	}

	from := time.Date(taxYear, fiscalStart, 1, 0, 0, 0, 0, time.UTC)
	if s := strings.TrimSpace(fromStr); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("%w: effective_from %q", jurisdictionerrors.ErrInvalidRuleFile, fromStr)
		}
		from = t
	}

	var to *time.Time
	if s := strings.TrimSpace(toStr); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("%w: effective_to %q", jurisdictionerrors.ErrInvalidRuleFile, toStr)
		}
		if t.Before(from) {
			return time.Time{}, nil, fmt.Errorf("%w: effective_to %s before effective_from %s", jurisdictionerrors.ErrInvalidRuleFile, s, from.Format(dateLayout))
		}
		to = &t
	}
	return from, to, nil
}

func orDefault(v, def string) string {
	if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
		return v
	}
	return def
}

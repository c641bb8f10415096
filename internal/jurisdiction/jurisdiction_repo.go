package jurisdiction

import (
	"context"
	"database/sql"

	"peopleflow-hr/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=jurisdiction_repo.go -destination=mock/jurisdiction_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindAll(ctx context.Context) ([]TaxJurisdiction, error)
	FindByCode(ctx context.Context, code string) (*TaxJurisdiction, error)
	FindIncomeTaxRules(ctx context.Context, jurisdictionID uuid.UUID, taxYear int) ([]IncomeTaxRule, error)
	FindSocialSecurityRules(ctx context.Context, jurisdictionID uuid.UUID, taxYear int) ([]SocialSecurityRuleRow, error)
	SaveJurisdiction(ctx context.Context, j *TaxJurisdiction) error
	DeleteRulesForYear(ctx context.Context, jurisdictionID uuid.UUID, taxYear int) error
	CreateIncomeTaxRule(ctx context.Context, rule *IncomeTaxRule) error
	CreateSocialSecurityRule(ctx context.Context, rule *SocialSecurityRuleRow) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return connection.BindTx(ctx, r.db, r.tx)
}

func (r *repository) FindAll(ctx context.Context) ([]TaxJurisdiction, error) {
	var items []TaxJurisdiction
	err := r.conn(ctx).Order("code ASC").Find(&items).Error
	return items, err
}

func (r *repository) FindByCode(ctx context.Context, code string) (*TaxJurisdiction, error) {
	var j TaxJurisdiction
	err := r.conn(ctx).First(&j, "code = ?", code).Error
	return &j, err
}

func (r *repository) FindIncomeTaxRules(ctx context.Context, jurisdictionID uuid.UUID, taxYear int) ([]IncomeTaxRule, error) {
	var rules []IncomeTaxRule
	err := r.conn(ctx).
		Preload("Bands", func(db *gorm.DB) *gorm.DB {
			return db.Order("band_order ASC")
		}).
		Where("jurisdiction_id = ? AND tax_year = ?", jurisdictionID, taxYear).
		Order("effective_from ASC").
		Find(&rules).Error
	return rules, err
}

func (r *repository) FindSocialSecurityRules(ctx context.Context, jurisdictionID uuid.UUID, taxYear int) ([]SocialSecurityRuleRow, error) {
	var rules []SocialSecurityRuleRow
	err := r.conn(ctx).
		Where("jurisdiction_id = ? AND tax_year = ?", jurisdictionID, taxYear).
		Order("effective_from ASC").
		Find(&rules).Error
	return rules, err
}

func (r *repository) SaveJurisdiction(ctx context.Context, j *TaxJurisdiction) error {
	return r.conn(ctx).Save(j).Error
}

func (r *repository) DeleteRulesForYear(ctx context.Context, jurisdictionID uuid.UUID, taxYear int) error {
	db := r.conn(ctx)
	ruleIDs := db.Model(&IncomeTaxRule{}).
		Select("id").
		Where("jurisdiction_id = ? AND tax_year = ?", jurisdictionID, taxYear)

	if err := db.Where("rule_id IN (?)", ruleIDs).Delete(&TaxBandRow{}).Error; err != nil {
		return err
	}
	if err := db.Where("jurisdiction_id = ? AND tax_year = ?", jurisdictionID, taxYear).Delete(&IncomeTaxRule{}).Error; err != nil {
		return err
	}
	return db.Where("jurisdiction_id = ? AND tax_year = ?", jurisdictionID, taxYear).Delete(&SocialSecurityRuleRow{}).Error
}

func (r *repository) CreateIncomeTaxRule(ctx context.Context, rule *IncomeTaxRule) error {
	return r.conn(ctx).Create(rule).Error
}

func (r *repository) CreateSocialSecurityRule(ctx context.Context, rule *SocialSecurityRuleRow) error {
	return r.conn(ctx).Create(rule).Error
}

package jurisdiction

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	jurisdictionerrors "peopleflow-hr/internal/jurisdiction/errors"
	"peopleflow-hr/internal/payrolltax"
	payrolltaxerrors "peopleflow-hr/internal/payrolltax/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	JurisdictionAllKey       = "jurisdictions:all"
	JurisdictionDetailPrefix = "jurisdictions:detail:"
	JurisdictionRulesPrefix  = "jurisdictions:rules:"

	DefaultCacheTTL = 30 * time.Minute
)

func GetJurisdictionDetailKey(code string) string {
	return JurisdictionDetailPrefix + code
}

func GetJurisdictionRulesKey(code string, taxYear int) string {
	return JurisdictionRulesPrefix + code + ":" + strconv.Itoa(taxYear)
}

//go:generate mockgen -source=jurisdiction_service.go -destination=mock/jurisdiction_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context) ([]JurisdictionResponse, error)
	GetByCode(ctx context.Context, code string) (JurisdictionResponse, error)
	// ResolveRules returns the rules in force in code's jurisdiction on
	// asOf. Exactly one income tax rule must apply; social security is
	// optional.
	ResolveRules(ctx context.Context, code string, asOf time.Time) (payrolltax.RuleSet, error)
	// Upsert replaces the jurisdiction and every rule of the tax years the
	// definition mentions.
	Upsert(ctx context.Context, def JurisdictionDefinition) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	ttl    time.Duration
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, cacheTTL time.Duration) Service {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &service{
		db:     db,
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		ttl:    cacheTTL,
		logger: zap.L().Named("jurisdiction.cache"),
	}
}

// datedIncomeTaxRule and datedSocialSecurityRule keep the effective range
// next to the engine rule so one cached entry serves every date in a year.
type datedIncomeTaxRule struct {
	EffectiveFrom time.Time                `json:"effective_from"`
	EffectiveTo   *time.Time               `json:"effective_to,omitempty"`
	Rule          payrolltax.IncomeTaxRule `json:"rule"`
}

type datedSocialSecurityRule struct {
	EffectiveFrom time.Time                     `json:"effective_from"`
	EffectiveTo   *time.Time                    `json:"effective_to,omitempty"`
	Rule          payrolltax.SocialSecurityRule `json:"rule"`
}

type yearRules struct {
	Code           string                    `json:"code"`
	Currency       string                    `json:"currency"`
	TaxYear        int                       `json:"tax_year"`
	IncomeTax      []datedIncomeTaxRule      `json:"income_tax"`
	SocialSecurity []datedSocialSecurityRule `json:"social_security"`
}

func (y yearRules) resolve(asOf time.Time) (payrolltax.RuleSet, error) {
	day := asOf.Format(dateLayout)

	var income []payrolltax.IncomeTaxRule
	for _, r := range y.IncomeTax {
		if effectiveOn(r.EffectiveFrom, r.EffectiveTo, asOf) {
			income = append(income, r.Rule)
		}
	}
	switch len(income) {
	case 0:
		return payrolltax.RuleSet{}, fmt.Errorf("%w: %s has no income tax rule in force on %s (tax year %d)",
			payrolltaxerrors.ErrNoApplicableTaxRule, y.Code, day, y.TaxYear)
	case 1:
	default:
		return payrolltax.RuleSet{}, fmt.Errorf("%w: %s has %d overlapping income tax rules on %s",
			payrolltaxerrors.ErrNoApplicableTaxRule, y.Code, len(income), day)
	}

	var social []payrolltax.SocialSecurityRule
	for _, r := range y.SocialSecurity {
		if effectiveOn(r.EffectiveFrom, r.EffectiveTo, asOf) {
			social = append(social, r.Rule)
		}
	}
	switch len(social) {
	case 0:
		return payrolltax.RuleSet{}, fmt.Errorf("%w: %s has no social security rule in force on %s (tax year %d)",
			payrolltaxerrors.ErrNoApplicableTaxRule, y.Code, day, y.TaxYear)
	case 1:
	default:
		return payrolltax.RuleSet{}, fmt.Errorf("%w: %s has %d overlapping social security rules on %s",
			payrolltaxerrors.ErrNoApplicableTaxRule, y.Code, len(social), day)
	}

	return payrolltax.RuleSet{
		JurisdictionCode: y.Code,
		Currency:         y.Currency,
		TaxYear:          y.TaxYear,
		IncomeTax:        income[0],
		SocialSecurity:   &social[0],
	}, nil
}

func (s *service) GetAll(ctx context.Context) ([]JurisdictionResponse, error) {
	var cached []JurisdictionResponse
	if s.getCached(ctx, JurisdictionAllKey, &cached) {
		return cached, nil
	}

	v, err, _ := s.sf.Do(JurisdictionAllKey, func() (interface{}, error) {
		items, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		resp := mapToListResponse(items)
		s.setCached(ctx, JurisdictionAllKey, resp)
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]JurisdictionResponse), nil
}

func (s *service) GetByCode(ctx context.Context, code string) (JurisdictionResponse, error) {
	j, err := s.loadJurisdiction(ctx, normalizeCode(code))
	if err != nil {
		return JurisdictionResponse{}, err
	}
	return mapToResponse(j), nil
}

func (s *service) ResolveRules(ctx context.Context, code string, asOf time.Time) (payrolltax.RuleSet, error) {
	j, err := s.loadJurisdiction(ctx, normalizeCode(code))
	if err != nil {
		return payrolltax.RuleSet{}, err
	}
	if !j.IsActive {
		return payrolltax.RuleSet{}, fmt.Errorf("%w: %s", jurisdictionerrors.ErrJurisdictionInactive, j.Code)
	}

	rules, err := s.loadYear(ctx, j, j.TaxYearFor(asOf))
	if err != nil {
		return payrolltax.RuleSet{}, err
	}
	return rules.resolve(asOf)
}

func (s *service) loadJurisdiction(ctx context.Context, code string) (TaxJurisdiction, error) {
	key := GetJurisdictionDetailKey(code)

	var cached TaxJurisdiction
	if s.getCached(ctx, key, &cached) {
		return cached, nil
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		j, err := s.repo.FindByCode(ctx, code)
		if err != nil {
			return nil, mapRepositoryError(err, code)
		}
		s.setCached(ctx, key, j)
		return *j, nil
	})
	if err != nil {
		return TaxJurisdiction{}, err
	}

	return v.(TaxJurisdiction), nil
}

func (s *service) loadYear(ctx context.Context, j TaxJurisdiction, taxYear int) (yearRules, error) {
	key := GetJurisdictionRulesKey(j.Code, taxYear)

	var cached yearRules
	if s.getCached(ctx, key, &cached) {
		return cached, nil
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		income, err := s.repo.FindIncomeTaxRules(ctx, j.ID, taxYear)
		if err != nil {
			return nil, err
		}
		social, err := s.repo.FindSocialSecurityRules(ctx, j.ID, taxYear)
		if err != nil {
			return nil, err
		}

		rules := yearRules{
			Code:           j.Code,
			Currency:       j.Currency,
			TaxYear:        taxYear,
			IncomeTax:      make([]datedIncomeTaxRule, 0, len(income)),
			SocialSecurity: make([]datedSocialSecurityRule, 0, len(social)),
		}
		for _, r := range income {
			rules.IncomeTax = append(rules.IncomeTax, datedIncomeTaxRule{
				EffectiveFrom: r.EffectiveFrom,
				EffectiveTo:   r.EffectiveTo,
				Rule:          toEngineIncomeTaxRule(r),
			})
		}
		for _, r := range social {
			rules.SocialSecurity = append(rules.SocialSecurity, datedSocialSecurityRule{
				EffectiveFrom: r.EffectiveFrom,
				EffectiveTo:   r.EffectiveTo,
				Rule:          toEngineSocialSecurityRule(r),
			})
		}

		s.setCached(ctx, key, rules)
		return rules, nil
	})
	if err != nil {
		return yearRules{}, err
	}

	return v.(yearRules), nil
}

func (s *service) Upsert(ctx context.Context, def JurisdictionDefinition) error {
	j, incomeRules, socialRules, err := def.toEntities()
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	existing, err := qtx.FindByCode(ctx, j.Code)
	switch {
	case err == nil:
		j.ID = existing.ID
		j.CreatedAt = existing.CreatedAt
	case errors.Is(err, gorm.ErrRecordNotFound):
		j.ID = uuid.New()
	default:
		return err
	}

	if err := qtx.SaveJurisdiction(ctx, &j); err != nil {
		return mapRepositoryError(err, j.Code)
	}

	years := map[int]struct{}{}
	for _, r := range incomeRules {
		years[r.TaxYear] = struct{}{}
	}
	for _, r := range socialRules {
		years[r.TaxYear] = struct{}{}
	}
	sortedYears := make([]int, 0, len(years))
	for y := range years {
		sortedYears = append(sortedYears, y)
	}
	sort.Ints(sortedYears)

	for _, y := range sortedYears {
		if err := qtx.DeleteRulesForYear(ctx, j.ID, y); err != nil {
			return err
		}
	}
	for i := range incomeRules {
		incomeRules[i].JurisdictionID = j.ID
		if err := qtx.CreateIncomeTaxRule(ctx, &incomeRules[i]); err != nil {
			return err
		}
	}
	for i := range socialRules {
		socialRules[i].JurisdictionID = j.ID
		if err := qtx.CreateSocialSecurityRule(ctx, &socialRules[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	keys := []string{JurisdictionAllKey, GetJurisdictionDetailKey(j.Code)}
	for _, y := range sortedYears {
		keys = append(keys, GetJurisdictionRulesKey(j.Code, y))
	}
	s.invalidate(ctx, keys...)

	s.logger.Info("jurisdiction rules replaced",
		zap.String("code", j.Code),
		zap.Ints("tax_years", sortedYears),
		zap.Int("income_tax_rules", len(incomeRules)),
		zap.Int("social_security_rules", len(socialRules)),
	)
	return nil
}

func (s *service) getCached(ctx context.Context, key string, dst any) bool {
	if s.rdb == nil {
		return false
	}
	cached, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal([]byte(cached), dst); err != nil {
		s.logger.Warn("cache entry undecodable", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *service) setCached(ctx context.Context, key string, v any) {
	if s.rdb == nil {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *service) invalidate(ctx context.Context, keys ...string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.logger.Error("failed to invalidate cache", zap.Strings("keys", keys), zap.Error(err))
	}
}

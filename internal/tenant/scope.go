// Package tenant holds the gorm scopes every company-owned table shares.
package tenant

import (
	"time"

	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// Scope restricts a query to one company's rows.
func Scope(companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}

// EffectiveOn keeps rows whose effective_date is on or before asOf, latest
// first. Combined with First it yields the row in force on asOf.
func EffectiveOn(asOf time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Where("effective_date <= ?", asOf.Format(dateLayout)).
			Order("effective_date DESC").
			Order("created_at DESC")
	}
}

// OverlapsPeriod keeps rows whose [period_start, period_end] intersects
// [start, end]. Both ranges are inclusive.
func OverlapsPeriod(start, end time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Where("period_end >= ?", start).
			Where("period_start <= ?", end)
	}
}

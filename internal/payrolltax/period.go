package payrolltax

import (
	"fmt"
	"strings"

	payrolltaxerrors "peopleflow-hr/internal/payrolltax/errors"

	"github.com/shopspring/decimal"
)

type PayFrequency string

const (
	FrequencyAnnual      PayFrequency = "annual"
	FrequencyMonthly     PayFrequency = "monthly"
	FrequencySemiMonthly PayFrequency = "semimonthly"
	FrequencyBiweekly    PayFrequency = "biweekly"
	FrequencyWeekly      PayFrequency = "weekly"
)

var periodsPerYear = map[PayFrequency]int64{
	FrequencyAnnual:      1,
	FrequencyMonthly:     12,
	FrequencySemiMonthly: 24,
	FrequencyBiweekly:    26,
	FrequencyWeekly:      52,
}

func ParsePayFrequency(s string) (PayFrequency, error) {
	f := PayFrequency(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := periodsPerYear[f]; !ok {
		return "", fmt.Errorf("%w: unsupported pay frequency %q", payrolltaxerrors.ErrInvalidInput, s)
	}
	return f, nil
}

func (f PayFrequency) PeriodsPerYear() decimal.Decimal {
	return decimal.NewFromInt(periodsPerYear[f])
}

func (f PayFrequency) Valid() bool {
	_, ok := periodsPerYear[f]
	return ok
}

var monthsPerYear = decimal.NewFromInt(12)

// ToAnnual scales a per-period amount to a yearly amount.
func ToAnnual(amount, periods decimal.Decimal) (decimal.Decimal, error) {
	if err := checkPeriods(periods); err != nil {
		return zero, err
	}
	return amount.Mul(periods), nil
}

// FromAnnual scales a yearly amount down to one period.
func FromAnnual(amount, periods decimal.Decimal) (decimal.Decimal, error) {
	if err := checkPeriods(periods); err != nil {
		return zero, err
	}
	return amount.Div(periods), nil
}

func checkPeriods(periods decimal.Decimal) error {
	if !periods.IsPositive() {
		return fmt.Errorf("%w: periods per year must be positive, got %s", payrolltaxerrors.ErrInvalidInput, periods)
	}
	return nil
}

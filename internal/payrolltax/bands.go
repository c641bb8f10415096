package payrolltax

import (
	"fmt"

	payrolltaxerrors "peopleflow-hr/internal/payrolltax/errors"
	"peopleflow-hr/internal/shared/money"

	"github.com/shopspring/decimal"
)

// TaxBandDetail is the share of taxable income that fell into one band.
// Amounts are minor units.
type TaxBandDetail struct {
	Order      int             `json:"order"`
	BandName   string          `json:"band_name"`
	Amount     decimal.Decimal `json:"amount"`
	Rate       decimal.Decimal `json:"rate"`
	FlatAmount decimal.Decimal `json:"flat_amount"`
	Tax        decimal.Decimal `json:"tax"`
}

type TaxComputation struct {
	TotalTax  decimal.Decimal `json:"total_tax"`
	Breakdown []TaxBandDetail `json:"breakdown"`
}

// bandBounds is a TaxBand in decimal minor units, so bands can be scaled to
// a pay period without losing precision.
type bandBounds struct {
	order int
	name  string
	min   decimal.Decimal
	max   *decimal.Decimal
	rate  decimal.Decimal
	flat  decimal.Decimal
}

// ValidateBands checks that bands are non-empty, ascending and
// non-overlapping, with at most one unbounded band in last position.
func ValidateBands(bands []TaxBand) error {
	if len(bands) == 0 {
		return bandErr("no bands configured")
	}

	for i, b := range bands {
		label := bandLabel(i, b)
		if b.MinAmount < 0 {
			return bandErr("%s: min amount %d is negative", label, b.MinAmount)
		}
		if !rateInRange(b.Rate) {
			return bandErr("%s: rate %s outside [0,1]", label, b.Rate)
		}
		if b.FlatAmount != nil && *b.FlatAmount < 0 {
			return bandErr("%s: flat amount %d is negative", label, *b.FlatAmount)
		}
		if b.MaxAmount == nil {
			if i != len(bands)-1 {
				return bandErr("%s: only the last band may be unbounded", label)
			}
		} else if *b.MaxAmount <= b.MinAmount {
			return bandErr("%s: max amount %d must exceed min amount %d", label, *b.MaxAmount, b.MinAmount)
		}

		if i == 0 {
			continue
		}
		prev := bands[i-1]
		if b.MinAmount <= prev.MinAmount {
			return bandErr("%s: bands must be sorted ascending by min amount", label)
		}
		if prev.MaxAmount != nil && b.MinAmount < *prev.MaxAmount {
			return bandErr("%s: overlaps %s", label, bandLabel(i-1, prev))
		}
	}
	return nil
}

// ComputeTax runs the progressive schedule over an annual taxable amount.
// Negative taxable income is treated as zero. The rounding mode is applied
// once, to the total, at the minor-unit boundary.
func ComputeTax(bands []TaxBand, taxable money.Cents, mode RoundingMode) (TaxComputation, error) {
	if err := ValidateBands(bands); err != nil {
		return TaxComputation{}, err
	}
	return computeBands(toBounds(bands), taxable.Decimal(), mode)
}

func toBounds(bands []TaxBand) []bandBounds {
	out := make([]bandBounds, len(bands))
	for i, b := range bands {
		bb := bandBounds{
			order: b.Order,
			name:  b.Name,
			min:   b.MinAmount.Decimal(),
			rate:  b.Rate,
			flat:  zero,
		}
		if bb.order == 0 {
			bb.order = i + 1
		}
		if b.MaxAmount != nil {
			hi := b.MaxAmount.Decimal()
			bb.max = &hi
		}
		if b.FlatAmount != nil {
			bb.flat = b.FlatAmount.Decimal()
		}
		out[i] = bb
	}
	return out
}

// scaleBounds divides every threshold and flat add-on by periods.
func scaleBounds(bounds []bandBounds, periods decimal.Decimal) []bandBounds {
	out := make([]bandBounds, len(bounds))
	for i, b := range bounds {
		scaled := b
		scaled.min = b.min.Div(periods)
		scaled.flat = b.flat.Div(periods)
		if b.max != nil {
			hi := b.max.Div(periods)
			scaled.max = &hi
		}
		out[i] = scaled
	}
	return out
}

func computeBands(bounds []bandBounds, taxable decimal.Decimal, mode RoundingMode) (TaxComputation, error) {
	if taxable.IsNegative() {
		taxable = zero
	}

	total := zero
	breakdown := make([]TaxBandDetail, 0, len(bounds))
	for _, b := range bounds {
		if taxable.LessThanOrEqual(b.min) {
			break
		}

		upper := taxable
		if b.max != nil && b.max.LessThan(upper) {
			upper = *b.max
		}
		inBand := upper.Sub(b.min)
		if !inBand.IsPositive() {
			continue
		}

		tax := inBand.Mul(b.rate).Add(b.flat)
		total = total.Add(tax)
		breakdown = append(breakdown, TaxBandDetail{
			Order:      b.order,
			BandName:   b.name,
			Amount:     inBand,
			Rate:       b.rate,
			FlatAmount: b.flat,
			Tax:        tax,
		})
	}

	rounded, err := applyRounding(total, mode)
	if err != nil {
		return TaxComputation{}, err
	}
	return TaxComputation{TotalTax: rounded, Breakdown: breakdown}, nil
}

// applyRounding rounds a minor-unit amount to a whole minor unit.
// An empty mode means nearest.
func applyRounding(v decimal.Decimal, mode RoundingMode) (decimal.Decimal, error) {
	switch mode {
	case RoundNearest, "":
		return v.Round(0), nil
	case RoundUp:
		return v.Ceil(), nil
	case RoundDown:
		return v.Floor(), nil
	case RoundNone:
		return v, nil
	default:
		return zero, fmt.Errorf("%w: unknown rounding mode %q", payrolltaxerrors.ErrInvalidInput, mode)
	}
}

func bandLabel(i int, b TaxBand) string {
	if b.Name != "" {
		return fmt.Sprintf("band %d (%s)", i+1, b.Name)
	}
	return fmt.Sprintf("band %d", i+1)
}

func bandErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", payrolltaxerrors.ErrInvalidBandConfiguration, fmt.Sprintf(format, args...))
}

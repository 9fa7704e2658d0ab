package instrument

import (
	"math"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// MaturityLayout is the accepted textual maturity format (MM/DD/YYYY).
const MaturityLayout = "01/02/2006"

// ErrValidation is returned when an instrument violates one of its invariants.
var ErrValidation = errors.New("instrument validation failed")

type OptionType int

const (
	Call OptionType = iota + 1
	Put
)

func (t OptionType) String() string {
	switch t {
	case Call:
		return "call"
	case Put:
		return "put"
	}
	return "unknown"
}

func (t OptionType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ParseOptionType accepts "call", "c", "put" or "p" in any case.
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "c":
		return Call, nil
	case "put", "p":
		return Put, nil
	}
	return 0, errors.Wrapf(ErrValidation, "unknown option type %q", s)
}

// Spec carries the fields requested for a new Instrument.
type Spec struct {
	UnderlyingPrice float64    `json:"underlying_price"`
	Rate            float64    `json:"rate"`
	Volatility      float64    `json:"volatility"`
	Maturity        time.Time  `json:"maturity"`
	Strike          float64    `json:"strike"`
	Dividend        float64    `json:"dividend"`
	Type            OptionType `json:"type"`
}

// Instrument is an immutable European option contract.
type Instrument struct {
	underlyingPrice float64
	rate            float64
	volatility      float64
	maturity        time.Time
	strike          float64
	dividend        float64
	optionType      OptionType
}

// New validates spec and returns the corresponding Instrument.
func New(spec Spec) (Instrument, error) {
	if err := validate(spec); err != nil {
		return Instrument{}, err
	}
	return Instrument{
		underlyingPrice: spec.UnderlyingPrice,
		rate:            spec.Rate,
		volatility:      spec.Volatility,
		maturity:        spec.Maturity,
		strike:          spec.Strike,
		dividend:        spec.Dividend,
		optionType:      spec.Type,
	}, nil
}

// NewFromString parses maturity as MM/DD/YYYY before building the Instrument.
func NewFromString(spec Spec, maturity string) (Instrument, error) {
	m, err := ParseMaturity(maturity)
	if err != nil {
		return Instrument{}, err
	}
	spec.Maturity = m
	return New(spec)
}

func ParseMaturity(s string) (time.Time, error) {
	m, err := time.Parse(MaturityLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, errors.Wrapf(ErrValidation, "maturity %q is not MM/DD/YYYY", s)
	}
	return m, nil
}

func validate(spec Spec) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"underlying price", spec.UnderlyingPrice},
		{"rate", spec.Rate},
		{"volatility", spec.Volatility},
		{"strike", spec.Strike},
		{"dividend", spec.Dividend},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return errors.Wrapf(ErrValidation, "%s must be finite, got %v", f.name, f.value)
		}
	}

	switch {
	case spec.UnderlyingPrice < 0:
		return errors.Wrapf(ErrValidation, "underlying price must be >= 0, got %v", spec.UnderlyingPrice)
	case spec.Volatility < 0:
		return errors.Wrapf(ErrValidation, "volatility must be >= 0, got %v", spec.Volatility)
	case spec.Dividend < 0:
		return errors.Wrapf(ErrValidation, "dividend must be >= 0, got %v", spec.Dividend)
	case spec.Strike <= 0:
		return errors.Wrapf(ErrValidation, "strike must be > 0, got %v", spec.Strike)
	case spec.Maturity.IsZero():
		return errors.Wrap(ErrValidation, "maturity is required")
	}
	return nil
}

// Validate re-checks the field invariants and that maturity falls strictly
// after the valuation date.
func (i Instrument) Validate(valuation time.Time) error {
	if err := validate(i.Spec()); err != nil {
		return err
	}
	if DaysBetween(valuation, i.maturity) <= 0 {
		return errors.Wrapf(ErrValidation, "maturity %s must be after valuation date %s",
			i.maturity.Format(MaturityLayout), valuation.Format(MaturityLayout))
	}
	return nil
}

// Spec returns a copy of the fields the Instrument was built from.
func (i Instrument) Spec() Spec {
	return Spec{
		UnderlyingPrice: i.underlyingPrice,
		Rate:            i.rate,
		Volatility:      i.volatility,
		Maturity:        i.maturity,
		Strike:          i.strike,
		Dividend:        i.dividend,
		Type:            i.optionType,
	}
}

func (i Instrument) UnderlyingPrice() float64 { return i.underlyingPrice }
func (i Instrument) Rate() float64            { return i.rate }
func (i Instrument) Volatility() float64      { return i.volatility }
func (i Instrument) Maturity() time.Time      { return i.maturity }
func (i Instrument) Strike() float64          { return i.strike }
func (i Instrument) Dividend() float64        { return i.dividend }
func (i Instrument) Type() OptionType         { return i.optionType }

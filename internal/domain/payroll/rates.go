package payroll

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Contribution holds insurance rates as fractions of gross salary.
type Contribution struct {
	Social       decimal.Decimal `json:"social"`
	Health       decimal.Decimal `json:"health"`
	Unemployment decimal.Decimal `json:"unemployment"`
}

func (c Contribution) Total() decimal.Decimal {
	return c.Social.Add(c.Health).Add(c.Unemployment)
}

// Bracket is one step of the progressive schedule. A zero Width marks the
// unbounded top bracket.
type Bracket struct {
	Width decimal.Decimal `json:"width"`
	Rate  decimal.Decimal `json:"rate"`
}

func (b Bracket) Unbounded() bool {
	return b.Width.IsZero()
}

type Rates struct {
	Employee           Contribution    `json:"employee"`
	Employer           Contribution    `json:"employer"`
	TradeUnion         decimal.Decimal `json:"tradeUnion"`
	PersonalDeduction  decimal.Decimal `json:"personalDeduction"`
	DependentDeduction decimal.Decimal `json:"dependentDeduction"`
	Brackets           []Bracket       `json:"brackets"`
	FlatRate           decimal.Decimal `json:"flatRate"`
	LumpSumShortRate   decimal.Decimal `json:"lumpSumShortRate"`
	LumpSumMultiplier  decimal.Decimal `json:"lumpSumMultiplier"`
}

func DefaultRates() Rates {
	return Rates{
		Employee: Contribution{
			Social:       decimal.RequireFromString("0.08"),
			Health:       decimal.RequireFromString("0.015"),
			Unemployment: decimal.RequireFromString("0.01"),
		},
		Employer: Contribution{
			Social:       decimal.RequireFromString("0.175"),
			Health:       decimal.RequireFromString("0.03"),
			Unemployment: decimal.RequireFromString("0.01"),
		},
		TradeUnion:         decimal.RequireFromString("0.02"),
		PersonalDeduction:  decimal.NewFromInt(11_000_000),
		DependentDeduction: decimal.NewFromInt(4_400_000),
		Brackets: []Bracket{
			{Width: decimal.NewFromInt(5_000_000), Rate: decimal.RequireFromString("0.05")},
			{Width: decimal.NewFromInt(5_000_000), Rate: decimal.RequireFromString("0.10")},
			{Width: decimal.NewFromInt(8_000_000), Rate: decimal.RequireFromString("0.15")},
			{Width: decimal.NewFromInt(14_000_000), Rate: decimal.RequireFromString("0.20")},
			{Width: decimal.NewFromInt(18_000_000), Rate: decimal.RequireFromString("0.25")},
			{Width: decimal.NewFromInt(32_000_000), Rate: decimal.RequireFromString("0.30")},
			{Width: decimal.Zero, Rate: decimal.RequireFromString("0.35")},
		},
		FlatRate:          decimal.RequireFromString("0.10"),
		LumpSumShortRate:  decimal.RequireFromString("0.22"),
		LumpSumMultiplier: decimal.NewFromInt(2),
	}
}

func (r Rates) Validate() error {
	fractions := []struct {
		name  string
		value decimal.Decimal
	}{
		{"employee.social", r.Employee.Social},
		{"employee.health", r.Employee.Health},
		{"employee.unemployment", r.Employee.Unemployment},
		{"employer.social", r.Employer.Social},
		{"employer.health", r.Employer.Health},
		{"employer.unemployment", r.Employer.Unemployment},
		{"trade_union", r.TradeUnion},
		{"flat_rate", r.FlatRate},
		{"lump_sum.short_rate", r.LumpSumShortRate},
	}
	for _, f := range fractions {
		if f.value.IsNegative() || f.value.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("%w: %s must be between 0 and 1", ErrInvalidRates, f.name)
		}
	}
	if r.Employee.Total().GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: employee contributions must total less than 1", ErrInvalidRates)
	}
	if r.PersonalDeduction.IsNegative() || r.DependentDeduction.IsNegative() {
		return fmt.Errorf("%w: deductions must not be negative", ErrInvalidRates)
	}
	if r.LumpSumMultiplier.IsNegative() {
		return fmt.Errorf("%w: lump_sum.multiplier must not be negative", ErrInvalidRates)
	}
	if len(r.Brackets) == 0 {
		return fmt.Errorf("%w: at least one bracket is required", ErrInvalidRates)
	}
	for i, b := range r.Brackets {
		if b.Width.IsNegative() {
			return fmt.Errorf("%w: bracket %d width must not be negative", ErrInvalidRates, i+1)
		}
		if b.Rate.IsNegative() || b.Rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return fmt.Errorf("%w: bracket %d rate must be in [0, 1)", ErrInvalidRates, i+1)
		}
		last := i == len(r.Brackets)-1
		if b.Unbounded() != last {
			return fmt.Errorf("%w: only the last bracket may be unbounded and it must be", ErrInvalidRates)
		}
	}
	return nil
}

type contributionFile struct {
	Social       *decimal.Decimal `yaml:"social"`
	Health       *decimal.Decimal `yaml:"health"`
	Unemployment *decimal.Decimal `yaml:"unemployment"`
}

type bracketFile struct {
	Width string          `yaml:"width"`
	Rate  decimal.Decimal `yaml:"rate"`
}

type ratesFile struct {
	Version            int               `yaml:"version"`
	Employee           *contributionFile `yaml:"employee"`
	Employer           *contributionFile `yaml:"employer"`
	TradeUnion         *decimal.Decimal  `yaml:"trade_union"`
	PersonalDeduction  *decimal.Decimal  `yaml:"personal_deduction"`
	DependentDeduction *decimal.Decimal  `yaml:"dependent_deduction"`
	Brackets           []bracketFile     `yaml:"brackets"`
	FlatRate           *decimal.Decimal  `yaml:"flat_rate"`
	LumpSum            *struct {
		ShortRate  *decimal.Decimal `yaml:"short_rate"`
		Multiplier *decimal.Decimal `yaml:"multiplier"`
	} `yaml:"lump_sum"`
}

// ParseRatesYAML overlays the document on DefaultRates. A bracket width of
// "unbounded" (or an empty width) marks the top bracket.
func ParseRatesYAML(b []byte) (Rates, error) {
	var f ratesFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return Rates{}, fmt.Errorf("%w: %v", ErrInvalidRates, err)
	}
	if f.Version != 1 {
		return Rates{}, fmt.Errorf("%w: unsupported version %d", ErrInvalidRates, f.Version)
	}

	rates := DefaultRates()
	overlayContribution(&rates.Employee, f.Employee)
	overlayContribution(&rates.Employer, f.Employer)
	overlay(&rates.TradeUnion, f.TradeUnion)
	overlay(&rates.PersonalDeduction, f.PersonalDeduction)
	overlay(&rates.DependentDeduction, f.DependentDeduction)
	overlay(&rates.FlatRate, f.FlatRate)
	if f.LumpSum != nil {
		overlay(&rates.LumpSumShortRate, f.LumpSum.ShortRate)
		overlay(&rates.LumpSumMultiplier, f.LumpSum.Multiplier)
	}
	if len(f.Brackets) > 0 {
		brackets := make([]Bracket, 0, len(f.Brackets))
		for i, raw := range f.Brackets {
			width := decimal.Zero
			if raw.Width != "" && raw.Width != "unbounded" {
				parsed, err := decimal.NewFromString(raw.Width)
				if err != nil {
					return Rates{}, fmt.Errorf("%w: bracket %d width %q", ErrInvalidRates, i+1, raw.Width)
				}
				width = parsed
			}
			brackets = append(brackets, Bracket{Width: width, Rate: raw.Rate})
		}
		rates.Brackets = brackets
	}

	if err := rates.Validate(); err != nil {
		return Rates{}, err
	}
	return rates, nil
}

func LoadRates(path string) (Rates, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Rates{}, err
	}
	return ParseRatesYAML(b)
}

func overlay(dst *decimal.Decimal, src *decimal.Decimal) {
	if src != nil {
		*dst = *src
	}
}

func overlayContribution(dst *Contribution, src *contributionFile) {
	if src == nil {
		return
	}
	overlay(&dst.Social, src.Social)
	overlay(&dst.Health, src.Health)
	overlay(&dst.Unemployment, src.Unemployment)
}

package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"
)

func (p ContributionPhase) Validate() error {
	if p.FromMonth < 1 || p.FromMonth > 12 {
		return fmt.Errorf("%w: fromMonth must be between 1 and 12", ErrInvalidInput)
	}
	if p.ToMonth < 1 || p.ToMonth > 12 {
		return fmt.Errorf("%w: toMonth must be between 1 and 12", ErrInvalidInput)
	}
	if p.FromYear < MinPhaseYear || p.FromYear > MaxPhaseYear {
		return fmt.Errorf("%w: fromYear must be between %d and %d", ErrInvalidInput, MinPhaseYear, MaxPhaseYear)
	}
	if p.ToYear < MinPhaseYear || p.ToYear > MaxPhaseYear {
		return fmt.Errorf("%w: toYear must be between %d and %d", ErrInvalidInput, MinPhaseYear, MaxPhaseYear)
	}
	if p.Months() < 1 {
		return fmt.Errorf("%w: phase must not end before it starts", ErrInvalidInput)
	}
	if p.MonthlySalary.IsNegative() {
		return fmt.Errorf("%w: monthlySalary must not be negative", ErrInvalidInput)
	}
	return nil
}

// OneTimeSocialInsurance sums the lump-sum benefit of independent phases.
// Overlapping phases are not detected.
func (e *Engine) OneTimeSocialInsurance(phases []ContributionPhase) (LumpSumResult, error) {
	if len(phases) == 0 {
		return LumpSumResult{}, fmt.Errorf("%w: at least one phase is required", ErrInvalidInput)
	}

	result := LumpSumResult{Phases: make([]PhaseBenefit, 0, len(phases)), Total: decimal.Zero}
	for i, phase := range phases {
		if err := phase.Validate(); err != nil {
			return LumpSumResult{}, fmt.Errorf("phase %d: %w", i+1, err)
		}
		benefit := e.phaseBenefit(phase)
		result.Phases = append(result.Phases, benefit)
		result.Total = result.Total.Add(benefit.Benefit)
	}
	return result, nil
}

func (e *Engine) phaseBenefit(p ContributionPhase) PhaseBenefit {
	months := p.Months()
	if months < 12 {
		contributions := p.MonthlySalary.Mul(decimal.NewFromInt(int64(months)))
		return PhaseBenefit{
			Months:  months,
			Years:   decimal.Zero,
			Benefit: contributions.Mul(e.rates.LumpSumShortRate),
		}
	}
	years := ContributionYears(months)
	return PhaseBenefit{
		Months:  months,
		Years:   years,
		Benefit: e.rates.LumpSumMultiplier.Mul(p.MonthlySalary).Mul(years),
	}
}

// ContributionYears converts a contribution length into benefit years.
// Leftover months count as nothing (0), a tenth of a year (1-6) or a whole
// year (7-11).
func ContributionYears(months int) decimal.Decimal {
	years := decimal.NewFromInt(int64(months / 12))
	switch rem := months % 12; {
	case rem >= 7:
		years = years.Add(decimal.NewFromInt(1))
	case rem >= 1:
		years = years.Add(decimal.New(1, -1))
	}
	return years
}

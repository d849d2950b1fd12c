package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	maxGrowSteps   = 64
	maxBisectSteps = 256
)

// Engine evaluates salary breakdowns against one rate table. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	rates Rates
}

func NewEngine(rates Rates) *Engine {
	return &Engine{rates: rates}
}

func (e *Engine) Rates() Rates {
	return e.rates
}

// Calculate fills defaults, validates and dispatches on the input mode.
func (e *Engine) Calculate(in SalaryInput) (SalaryBreakdown, error) {
	in = in.withDefaults()
	if err := in.Validate(); err != nil {
		return SalaryBreakdown{}, err
	}
	if in.Mode == ModeNetToGross {
		return e.netToGross(in)
	}
	return e.grossToNet(in), nil
}

func (e *Engine) GrossToNet(in SalaryInput) (SalaryBreakdown, error) {
	in.Mode = ModeGrossToNet
	return e.Calculate(in)
}

func (e *Engine) NetToGross(in SalaryInput) (SalaryBreakdown, error) {
	in.Mode = ModeNetToGross
	return e.Calculate(in)
}

func (in SalaryInput) withDefaults() SalaryInput {
	if in.Mode == "" {
		in.Mode = ModeGrossToNet
	}
	if in.Currency == "" {
		in.Currency = CurrencyVND
	}
	if in.TaxMethod == "" {
		in.TaxMethod = TaxMethodProgressive
	}
	if in.InsuranceBase == "" {
		in.InsuranceBase = InsuranceBaseFull
	}
	if in.Nationality == "" {
		in.Nationality = NationalityLocal
	}
	if in.Zone == "" {
		in.Zone = Zone1
	}
	return in
}

// Validate rejects inputs the formula cannot give a meaningful answer for.
// Currency, nationality, zone and insurance base are display metadata and
// are not checked here.
func (in SalaryInput) Validate() error {
	if in.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalidInput)
	}
	if in.Dependents < 0 || in.Dependents > MaxDependents {
		return fmt.Errorf("%w: dependents must be between 0 and %d", ErrInvalidInput, MaxDependents)
	}
	switch in.Mode {
	case ModeGrossToNet, ModeNetToGross:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, in.Mode)
	}
	switch in.TaxMethod {
	case TaxMethodProgressive, TaxMethodFixed:
	default:
		return fmt.Errorf("%w: unknown tax method %q", ErrInvalidInput, in.TaxMethod)
	}
	return nil
}

func (e *Engine) grossToNet(in SalaryInput) SalaryBreakdown {
	r := e.rates
	gross := in.Amount

	out := SalaryBreakdown{
		Mode:         in.Mode,
		Currency:     in.Currency,
		TaxMethod:    in.TaxMethod,
		GrossSalary:  gross,
		TaxByBracket: []BracketTax{},
	}

	out.EmployeeSocialInsurance = gross.Mul(r.Employee.Social)
	out.EmployeeHealthInsurance = gross.Mul(r.Employee.Health)
	out.EmployeeUnemploymentInsurance = gross.Mul(r.Employee.Unemployment)
	out.SalaryBeforeTax = gross.
		Sub(out.EmployeeSocialInsurance).
		Sub(out.EmployeeHealthInsurance).
		Sub(out.EmployeeUnemploymentInsurance)

	out.PersonalDeduction = r.PersonalDeduction
	out.DependentDeduction = r.DependentDeduction.Mul(decimal.NewFromInt(int64(in.Dependents)))
	out.TaxableSalary = decimal.Max(decimal.Zero,
		out.SalaryBeforeTax.Sub(out.PersonalDeduction).Sub(out.DependentDeduction))

	if in.TaxMethod == TaxMethodFixed {
		out.PersonalIncomeTax = e.FlatTax(out.TaxableSalary)
	} else {
		out.PersonalIncomeTax, out.TaxByBracket = e.ProgressiveTax(out.TaxableSalary)
	}
	out.NetSalary = out.SalaryBeforeTax.Sub(out.PersonalIncomeTax)

	out.EmployerSocialInsurance = gross.Mul(r.Employer.Social)
	out.EmployerHealthInsurance = gross.Mul(r.Employer.Health)
	out.EmployerUnemploymentInsurance = gross.Mul(r.Employer.Unemployment)
	out.TradeUnion = gross.Mul(r.TradeUnion)
	out.TotalEmployerCost = gross.
		Add(out.EmployerSocialInsurance).
		Add(out.EmployerHealthInsurance).
		Add(out.EmployerUnemploymentInsurance).
		Add(out.TradeUnion)

	return out
}

// netToGross finds the smallest gross, at the currency's precision, whose
// net salary reaches the target. Net is strictly increasing in gross, so a
// bisection over [lo, hi] with net(lo) < target <= net(hi) converges.
func (e *Engine) netToGross(in SalaryInput) (SalaryBreakdown, error) {
	target := in.Amount
	places := in.Currency.Places()
	step := decimal.New(1, -places)
	two := decimal.NewFromInt(2)

	netAt := func(gross decimal.Decimal) decimal.Decimal {
		probe := in
		probe.Amount = gross
		return e.grossToNet(probe).NetSalary
	}

	if !target.IsPositive() {
		in.Amount = decimal.Zero
		return e.grossToNet(in), nil
	}

	lo := decimal.Zero
	hi := decimal.Max(target.RoundCeil(places), step)
	for i := 0; netAt(hi).LessThan(target); i++ {
		if i >= maxGrowSteps {
			return SalaryBreakdown{}, fmt.Errorf("%w: target %s", ErrNoSolution, target)
		}
		lo = hi
		hi = hi.Mul(two)
	}

	for i := 0; hi.Sub(lo).GreaterThan(step) && i < maxBisectSteps; i++ {
		mid := lo.Add(hi).Div(two).RoundFloor(places)
		if netAt(mid).GreaterThanOrEqual(target) {
			hi = mid
		} else {
			lo = mid
		}
	}

	in.Amount = hi
	return e.grossToNet(in), nil
}

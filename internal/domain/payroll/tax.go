package payroll

import "github.com/shopspring/decimal"

// ProgressiveTax consumes taxable income bracket by bracket, each bracket
// filling its full width before the next applies.
func (e *Engine) ProgressiveTax(taxable decimal.Decimal) (decimal.Decimal, []BracketTax) {
	return progressiveTax(e.rates.Brackets, taxable)
}

// FlatTax ignores the schedule and applies the flat rate to all taxable income.
func (e *Engine) FlatTax(taxable decimal.Decimal) decimal.Decimal {
	if !taxable.IsPositive() {
		return decimal.Zero
	}
	return taxable.Mul(e.rates.FlatRate)
}

func progressiveTax(brackets []Bracket, taxable decimal.Decimal) (decimal.Decimal, []BracketTax) {
	total := decimal.Zero
	lines := []BracketTax{}
	remaining := taxable
	for i, b := range brackets {
		if !remaining.IsPositive() {
			break
		}
		portion := remaining
		if !b.Unbounded() {
			portion = decimal.Min(remaining, b.Width)
		}
		tax := portion.Mul(b.Rate)
		total = total.Add(tax)
		lines = append(lines, BracketTax{Bracket: i + 1, Rate: b.Rate, Taxed: portion, Tax: tax})
		remaining = remaining.Sub(portion)
	}
	return total, lines
}

package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const WarningNegativeNet = "negative_net"

type InputLine struct {
	Type   string
	Amount decimal.Decimal
}

func ComputePayroll(baseSalary decimal.Decimal, inputs []InputLine) (gross, deductions, net decimal.Decimal) {
	gross = baseSalary
	deductions = decimal.Zero
	for _, input := range inputs {
		switch input.Type {
		case ElementTypeEarning:
			gross = gross.Add(input.Amount)
		case ElementTypeDeduction:
			deductions = deductions.Add(input.Amount)
		}
	}
	net = gross.Sub(deductions)
	return gross, deductions, net
}

func (p EmployeePay) Lines() []InputLine {
	return []InputLine{
		{Type: ElementTypeEarning, Amount: p.Bonus},
		{Type: ElementTypeEarning, Amount: p.Overtime},
		{Type: ElementTypeDeduction, Amount: p.Deductions},
	}
}

func (p EmployeePay) Validate() error {
	amounts := []struct {
		field string
		value decimal.Decimal
	}{
		{"baseSalary", p.BaseSalary},
		{"bonus", p.Bonus},
		{"overtime", p.Overtime},
		{"deductions", p.Deductions},
	}
	for _, a := range amounts {
		if a.value.IsNegative() {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidInput, a.field)
		}
	}
	return nil
}

// RunPayroll totals base + bonus + overtime - deductions per employee.
func RunPayroll(currency Currency, employees []EmployeePay) (PayrollRun, error) {
	if len(employees) == 0 {
		return PayrollRun{}, fmt.Errorf("%w: at least one employee is required", ErrInvalidInput)
	}
	if currency == "" {
		currency = CurrencyVND
	}

	run := PayrollRun{
		Currency:        currency,
		Lines:           make([]PayrollLine, 0, len(employees)),
		TotalGross:      decimal.Zero,
		TotalDeductions: decimal.Zero,
		Total:           decimal.Zero,
	}
	for i, employee := range employees {
		if err := employee.Validate(); err != nil {
			return PayrollRun{}, fmt.Errorf("employee %d: %w", i+1, err)
		}
		gross, deductions, net := ComputePayroll(employee.BaseSalary, employee.Lines())
		line := PayrollLine{
			Name:       employee.Name,
			Position:   employee.Position,
			Gross:      gross,
			Deductions: deductions,
			Net:        net,
		}
		if net.IsNegative() {
			line.Warnings = append(line.Warnings, WarningNegativeNet)
		}
		run.Lines = append(run.Lines, line)
		run.TotalGross = run.TotalGross.Add(gross)
		run.TotalDeductions = run.TotalDeductions.Add(deductions)
		run.Total = run.Total.Add(net)
	}
	return run, nil
}

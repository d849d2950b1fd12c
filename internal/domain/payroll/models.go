package payroll

import "github.com/shopspring/decimal"

type SalaryInput struct {
	Amount        decimal.Decimal `json:"amount"`
	Mode          Mode            `json:"mode"`
	Currency      Currency        `json:"currency"`
	Dependents    int             `json:"dependents"`
	TaxMethod     TaxMethod       `json:"taxMethod"`
	InsuranceBase InsuranceBase   `json:"insuranceBase"`
	Nationality   Nationality     `json:"nationality"`
	Zone          Zone            `json:"zone"`
}

type BracketTax struct {
	Bracket int             `json:"bracket"`
	Rate    decimal.Decimal `json:"rate"`
	Taxed   decimal.Decimal `json:"taxed"`
	Tax     decimal.Decimal `json:"tax"`
}

type SalaryBreakdown struct {
	Mode      Mode      `json:"mode"`
	Currency  Currency  `json:"currency"`
	TaxMethod TaxMethod `json:"taxMethod"`

	GrossSalary                   decimal.Decimal `json:"grossSalary"`
	EmployeeSocialInsurance       decimal.Decimal `json:"employeeSocialInsurance"`
	EmployeeHealthInsurance       decimal.Decimal `json:"employeeHealthInsurance"`
	EmployeeUnemploymentInsurance decimal.Decimal `json:"employeeUnemploymentInsurance"`
	SalaryBeforeTax               decimal.Decimal `json:"salaryBeforeTax"`
	PersonalDeduction             decimal.Decimal `json:"personalDeduction"`
	DependentDeduction            decimal.Decimal `json:"dependentDeduction"`
	TaxableSalary                 decimal.Decimal `json:"taxableSalary"`
	PersonalIncomeTax             decimal.Decimal `json:"personalIncomeTax"`
	NetSalary                     decimal.Decimal `json:"netSalary"`
	EmployerSocialInsurance       decimal.Decimal `json:"employerSocialInsurance"`
	EmployerHealthInsurance       decimal.Decimal `json:"employerHealthInsurance"`
	EmployerUnemploymentInsurance decimal.Decimal `json:"employerUnemploymentInsurance"`
	TradeUnion                    decimal.Decimal `json:"tradeUnion"`
	TotalEmployerCost             decimal.Decimal `json:"totalEmployerCost"`

	TaxByBracket []BracketTax `json:"taxByBracket"`
}

type ContributionPhase struct {
	FromMonth     int             `json:"fromMonth"`
	FromYear      int             `json:"fromYear"`
	ToMonth       int             `json:"toMonth"`
	ToYear        int             `json:"toYear"`
	MonthlySalary decimal.Decimal `json:"monthlySalary"`
}

// Months counts both endpoint months.
func (p ContributionPhase) Months() int {
	return (p.ToYear-p.FromYear)*12 + (p.ToMonth - p.FromMonth) + 1
}

type PhaseBenefit struct {
	Months  int             `json:"months"`
	Years   decimal.Decimal `json:"years"`
	Benefit decimal.Decimal `json:"benefit"`
}

type LumpSumResult struct {
	Phases []PhaseBenefit  `json:"phases"`
	Total  decimal.Decimal `json:"total"`
}

type EmployeePay struct {
	Name       string          `json:"name"`
	Position   string          `json:"position"`
	BaseSalary decimal.Decimal `json:"baseSalary"`
	Bonus      decimal.Decimal `json:"bonus"`
	Overtime   decimal.Decimal `json:"overtime"`
	Deductions decimal.Decimal `json:"deductions"`
}

type PayrollLine struct {
	Name       string          `json:"name"`
	Position   string          `json:"position"`
	Gross      decimal.Decimal `json:"gross"`
	Deductions decimal.Decimal `json:"deductions"`
	Net        decimal.Decimal `json:"net"`
	Warnings   []string        `json:"warnings,omitempty"`
}

type PayrollRun struct {
	Currency        Currency        `json:"currency"`
	Lines           []PayrollLine   `json:"lines"`
	TotalGross      decimal.Decimal `json:"totalGross"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	Total           decimal.Decimal `json:"total"`
}

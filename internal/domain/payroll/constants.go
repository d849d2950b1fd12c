package payroll

type Mode string

const (
	ModeGrossToNet Mode = "gross_to_net"
	ModeNetToGross Mode = "net_to_gross"
)

type Currency string

const (
	CurrencyVND Currency = "VND"
	CurrencyUSD Currency = "USD"
)

type TaxMethod string

const (
	TaxMethodProgressive TaxMethod = "progressive"
	TaxMethodFixed       TaxMethod = "fixed"
)

// InsuranceBase, Nationality and Zone are carried through to the breakdown
// but do not change any amount.
type InsuranceBase string

const (
	InsuranceBaseFull  InsuranceBase = "full"
	InsuranceBaseOther InsuranceBase = "other"
)

type Nationality string

const (
	NationalityLocal Nationality = "local"
	NationalityExpat Nationality = "expat"
)

type Zone string

const (
	Zone1 Zone = "1"
	Zone2 Zone = "2"
	Zone3 Zone = "3"
	Zone4 Zone = "4"
)

const (
	ElementTypeEarning   = "earning"
	ElementTypeDeduction = "deduction"

	MaxDependents = 20

	// Vietnam's social insurance fund dates from 1995.
	MinPhaseYear = 1995
	MaxPhaseYear = 2100
)

var (
	Modes          = []string{string(ModeGrossToNet), string(ModeNetToGross)}
	Currencies     = []string{string(CurrencyVND), string(CurrencyUSD)}
	TaxMethods     = []string{string(TaxMethodProgressive), string(TaxMethodFixed)}
	InsuranceBases = []string{string(InsuranceBaseFull), string(InsuranceBaseOther)}
	Nationalities  = []string{string(NationalityLocal), string(NationalityExpat)}
	Zones          = []string{string(Zone1), string(Zone2), string(Zone3), string(Zone4)}
)

// Places is the number of decimal places amounts are settled at.
func (c Currency) Places() int32 {
	if c == CurrencyUSD {
		return 2
	}
	return 0
}

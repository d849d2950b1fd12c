package payroll

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultRatesAreValid(t *testing.T) {
	require.NoError(t, DefaultRates().Validate())
}

func TestParseRatesYAMLOverlaysDefaults(t *testing.T) {
	rates, err := ParseRatesYAML([]byte(`
version: 1
personal_deduction: 15500000
dependent_deduction: 6200000
employer:
  social: 0.17
lump_sum:
  short_rate: 0.2
`))
	require.NoError(t, err)
	requireDecimal(t, "15500000", rates.PersonalDeduction, "personalDeduction")
	requireDecimal(t, "6200000", rates.DependentDeduction, "dependentDeduction")
	requireDecimal(t, "0.17", rates.Employer.Social, "employer.social")
	requireDecimal(t, "0.03", rates.Employer.Health, "employer.health")
	requireDecimal(t, "0.2", rates.LumpSumShortRate, "lumpSumShortRate")
	requireDecimal(t, "2", rates.LumpSumMultiplier, "lumpSumMultiplier")
	require.Len(t, rates.Brackets, 7)
}

func TestParseRatesYAMLBrackets(t *testing.T) {
	rates, err := ParseRatesYAML([]byte(`
version: 1
brackets:
  - width: 10000000
    rate: 0.05
  - width: 20000000
    rate: 0.15
  - width: unbounded
    rate: 0.25
`))
	require.NoError(t, err)
	require.Len(t, rates.Brackets, 3)
	require.True(t, rates.Brackets[2].Unbounded())

	tax, lines := NewEngine(rates).ProgressiveTax(dec("40000000"))
	require.Len(t, lines, 3)
	requireDecimal(t, "6000000", tax, "tax")
}

func TestParseRatesYAMLRejectsInvalidTables(t *testing.T) {
	cases := map[string]string{
		"wrong version":        "version: 2\n",
		"unbounded not last":   "version: 1\nbrackets:\n  - width: unbounded\n    rate: 0.1\n  - width: 100\n    rate: 0.2\n",
		"bounded top bracket":  "version: 1\nbrackets:\n  - width: 100\n    rate: 0.1\n",
		"negative deduction":   "version: 1\npersonal_deduction: -1\n",
		"rate above one":       "version: 1\ntrade_union: 1.5\n",
		"bad bracket width":    "version: 1\nbrackets:\n  - width: lots\n    rate: 0.1\n",
		"contributions sum >1": "version: 1\nemployee:\n  social: 0.9\n  health: 0.1\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRatesYAML([]byte(doc))
			require.True(t, errors.Is(err, ErrInvalidRates), "got %v", err)
		})
	}
}

func TestValidateNamesFirstInvalidRate(t *testing.T) {
	rates := DefaultRates()
	rates.Employer.Health = dec("-0.1")
	rates.TradeUnion = dec("2")
	rates.FlatRate = dec("-1")
	for i := 0; i < 20; i++ {
		err := rates.Validate()
		require.ErrorIs(t, err, ErrInvalidRates)
		require.Contains(t, err.Error(), "employer.health")
	}
}

func TestLoadRates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1\nflat_rate: 0.2\n"), 0o600))

	rates, err := LoadRates(path)
	require.NoError(t, err)
	requireDecimal(t, "0.2", rates.FlatRate, "flatRate")

	_, err = LoadRates(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestShippedRatesFileMatchesDefaults(t *testing.T) {
	rates, err := LoadRates(filepath.Join("..", "..", "..", "configs", "rates.yaml"))
	require.NoError(t, err)

	defaults := DefaultRates()
	require.Len(t, rates.Brackets, len(defaults.Brackets))
	for i := range defaults.Brackets {
		requireDecimal(t, defaults.Brackets[i].Width.String(), rates.Brackets[i].Width, "bracket width")
		requireDecimal(t, defaults.Brackets[i].Rate.String(), rates.Brackets[i].Rate, "bracket rate")
	}
	requireDecimal(t, defaults.PersonalDeduction.String(), rates.PersonalDeduction, "personalDeduction")
	requireDecimal(t, defaults.Employer.Social.String(), rates.Employer.Social, "employer.social")
	requireDecimal(t, defaults.LumpSumShortRate.String(), rates.LumpSumShortRate, "lumpSumShortRate")
}

package payroll

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	viPrinter = message.NewPrinter(language.Vietnamese)
	enPrinter = message.NewPrinter(language.AmericanEnglish)
)

// FormatAmount renders an amount for display: "17.460.000 ₫" or "$1,234.50".
func FormatAmount(amount decimal.Decimal, currency Currency) string {
	sign, digits := formatDigits(amount, currency)
	if currency == CurrencyUSD {
		return sign + "$" + digits
	}
	return sign + digits + " ₫"
}

// FormatAmountCode uses the currency code instead of a symbol, for outputs
// limited to Latin-1 such as the PDF core fonts.
func FormatAmountCode(amount decimal.Decimal, currency Currency) string {
	sign, digits := formatDigits(amount, currency)
	code := string(currency)
	if code == "" {
		code = string(CurrencyVND)
	}
	return sign + digits + " " + code
}

// numberStyle holds a locale's separators. Digits are grouped from the exact
// decimal string, so arbitrarily large amounts keep every digit.
type numberStyle struct {
	group   string
	decimal string
}

var (
	viStyle = styleOf(viPrinter)
	enStyle = styleOf(enPrinter)
)

func styleOf(p *message.Printer) numberStyle {
	grouped := p.Sprint(number.Decimal(1000))
	fraction := p.Sprint(number.Decimal(1.5, number.MinFractionDigits(1)))
	return numberStyle{
		group:   strings.TrimSuffix(strings.TrimPrefix(grouped, "1"), "000"),
		decimal: strings.TrimSuffix(strings.TrimPrefix(fraction, "1"), "5"),
	}
}

func formatDigits(amount decimal.Decimal, currency Currency) (string, string) {
	places := currency.Places()
	rounded := amount.Round(places)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	style := viStyle
	if currency == CurrencyUSD {
		style = enStyle
	}
	whole, fraction, _ := strings.Cut(rounded.StringFixed(places), ".")
	out := groupDigits(whole, style.group)
	if fraction != "" {
		out += style.decimal + fraction
	}
	return sign, out
}

func groupDigits(digits, sep string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

package prices

import (
	"math/big"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const (
	markerUp   = "🟢"
	markerDown = "🔴"
)

type display struct {
	icon     string
	decimals int32
}

var displays = map[Symbol]display{
	XRP: {icon: "💎", decimals: 4},
	BTC: {icon: "🟡", decimals: 2},
	ETH: {icon: "🟣", decimals: 2},
}

var currencySigns = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// Formatter renders quotes into the reply of the price command.
type Formatter struct {
	apology  string
	currency string
	now      func() time.Time
}

// NewFormatter builds a Formatter. apology is returned verbatim for fetch failures.
func NewFormatter(apology, currency string, now func() time.Time) *Formatter {
	if now == nil {
		now = time.Now
	}

	return &Formatter{
		apology:  apology,
		currency: strings.ToUpper(currency),
		now:      now,
	}
}

// Format renders one line per symbol in fixed order, a UTC timestamp and the answering provider.
func (f *Formatter) Format(quotes Quotes, err error) string {
	if err != nil || len(quotes) == 0 {
		return f.apology
	}

	var b strings.Builder
	b.WriteString("💰 *Cryptocurrency Prices*\n\n")

	var source Source
	for _, symbol := range DefaultSymbols {
		q, ok := quotes[symbol]
		if !ok {
			continue
		}
		source = q.Source

		d := displays[symbol]
		b.WriteString(d.icon)
		b.WriteString(" ")
		b.WriteString(string(symbol))
		b.WriteString(": ")
		b.WriteString(f.sign())
		b.WriteString(groupThousands(q.Price.StringFixed(d.decimals)))
		b.WriteString(" (")
		b.WriteString(FormatChange(q.Change24h))
		b.WriteString(")\n")
	}

	b.WriteString("\nUpdated: ")
	b.WriteString(f.now().UTC().Format("15:04:05"))
	b.WriteString(" UTC\n")
	b.WriteString("Powered by ")
	b.WriteString(source.DisplayName())
	b.WriteString(" 📊")

	return b.String()
}

// FormatChange renders a 24h change with its trend marker. The marker is keyed on the
// value rounded to two places being strictly positive, so zero renders as down.
func FormatChange(change decimal.Decimal) string {
	rounded := change.Round(2)
	marker := markerDown
	if rounded.GreaterThan(decimal.Zero) {
		marker = markerUp
	}
	return marker + " " + rounded.StringFixed(2) + "%"
}

func (f *Formatter) sign() string {
	if sign, ok := currencySigns[f.currency]; ok {
		return sign
	}
	return f.currency + " "
}

// groupThousands inserts comma separators into the integer part of a fixed-point number string.
// The integer part is grouped as a big.Int so no precision is lost.
func groupThousands(number string) string {
	integer, fraction, hasFraction := strings.Cut(number, ".")

	n, ok := new(big.Int).SetString(integer, 10)
	if !ok {
		return number
	}

	grouped := humanize.BigComma(n)
	if n.Sign() == 0 && strings.HasPrefix(integer, "-") {
		grouped = "-" + grouped
	}
	if hasFraction {
		grouped += "." + fraction
	}

	return grouped
}

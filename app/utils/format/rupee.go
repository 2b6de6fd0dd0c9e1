package format

import (
	"strings"

	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

const rupeeSymbol = "₹"

// Every field is set so FormatMoneyDecimal never fills in defaults on the shared value.
var rupee = accounting.Accounting{
	Symbol:         rupeeSymbol,
	Precision:      2,
	Thousand:       ",",
	Decimal:        ".",
	Format:         "%s%v",
	FormatNegative: "-%s%v",
	FormatZero:     "%s%v",
}

// Rupee renders amount with Indian digit grouping: "₹1,250.00", "₹12,50,000.00".
func Rupee(amount decimal.Decimal) string {
	plain := rupee.FormatMoneyDecimal(amount)
	start := strings.Index(plain, rupeeSymbol)
	if start < 0 {
		return plain
	}
	start += len(rupeeSymbol)
	end := strings.IndexByte(plain[start:], '.')
	if end < 0 {
		end = len(plain) - start
	}
	end += start
	digits := strings.ReplaceAll(plain[start:end], ",", "")
	return plain[:start] + groupLakh(digits) + plain[end:]
}

// groupLakh separates the last three digits, then every two.
func groupLakh(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var b strings.Builder
	lead := len(head) % 2
	if lead > 0 {
		b.WriteString(head[:lead])
	}
	for i := lead; i < len(head); i += 2 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(head[i : i+2])
	}
	b.WriteByte(',')
	b.WriteString(tail)
	return b.String()
}

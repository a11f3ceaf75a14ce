package gst

import (
	"strings"

	"github.com/shopspring/decimal"
)

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

const zeroWords = "Zero Only"

// AmountToWords spells out a rupee amount using the Indian numbering system
// (Thousand, Lakh, Crore), e.g. 1234567.89 becomes
// "Twelve Lakh Thirty Four Thousand Five Hundred Sixty Seven Rupees and Eighty Nine Paise Only".
func AmountToWords(amount decimal.Decimal) string {
	amount = amount.Round(2)
	if amount.IsNegative() {
		return "Minus " + AmountToWords(amount.Neg())
	}
	if amount.IsZero() {
		return zeroWords
	}

	whole := amount.Truncate(0)
	rupees := whole.IntPart()
	paise := amount.Sub(whole).Shift(2).IntPart()

	var parts []string
	if rupees > 0 {
		parts = append(parts, indianWords(rupees)+" Rupees")
	}
	if paise > 0 {
		p := belowThousand(paise) + " Paise"
		if rupees > 0 {
			p = "and " + p
		}
		parts = append(parts, p)
	}
	parts = append(parts, "Only")
	return strings.Join(parts, " ")
}

// AmountToWordsString parses s as a decimal and spells it out.
// Input that is not a number yields "Zero Only".
func AmountToWordsString(s string) string {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return zeroWords
	}
	return AmountToWords(d)
}

func indianWords(n int64) string {
	if n == 0 {
		return ""
	}

	crore := n / 10000000
	n %= 10000000
	lakh := n / 100000
	n %= 100000
	thousand := n / 1000
	rest := n % 1000

	var groups []string
	if crore > 0 {
		// counts of a thousand crore and above keep the same grouping
		groups = append(groups, indianWords(crore)+" Crore")
	}
	if lakh > 0 {
		groups = append(groups, belowThousand(lakh)+" Lakh")
	}
	if thousand > 0 {
		groups = append(groups, belowThousand(thousand)+" Thousand")
	}
	if rest > 0 {
		groups = append(groups, belowThousand(rest))
	}
	return strings.TrimSpace(strings.Join(groups, " "))
}

func belowThousand(n int64) string {
	switch {
	case n <= 0:
		return ""
	case n < 20:
		return ones[n]
	case n < 100:
		if n%10 == 0 {
			return tens[n/10]
		}
		return tens[n/10] + " " + ones[n%10]
	default:
		s := ones[n/100] + " Hundred"
		if r := belowThousand(n % 100); r != "" {
			s += " " + r
		}
		return s
	}
}

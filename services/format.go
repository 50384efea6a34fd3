package services

import (
	"fmt"
	"math"
	"strings"
)

// FormatUSD formats a float64 amount as US dollars with thousands
// grouping and exactly 2 decimal places, e.g. $12,345,678.90.
func FormatUSD(amount float64) string {
	negative := false
	if amount < 0 {
		negative = true
		amount = -amount
	}

	raw := fmt.Sprintf("%.2f", amount)

	parts := strings.SplitN(raw, ".", 2)
	intPart := parts[0]
	decPart := parts[1]

	result := "$" + groupThousands(intPart) + "." + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// groupThousands inserts commas every 3 digits from the right.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]
	for len(remaining) > 3 {
		result = remaining[len(remaining)-3:] + "," + result
		remaining = remaining[:len(remaining)-3]
	}
	return remaining + "," + result
}

// FormatQty renders a quantity as a whole number when it has no
// fractional part, otherwise with 2 decimals.
func FormatQty(qty float64) string {
	if qty == math.Trunc(qty) {
		return fmt.Sprintf("%.0f", qty)
	}
	return fmt.Sprintf("%.2f", qty)
}

// AmountToWords converts a numeric amount to English words for the quote
// PDF footer. Example: 2500.00 → "Two Thousand Five Hundred Dollars Only".
func AmountToWords(amount float64) string {
	if amount < 0 {
		return "Negative " + AmountToWords(-amount)
	}

	dollars := int64(math.Round(amount))

	if dollars == 0 {
		return "Zero Dollars Only"
	}

	return convertToWords(dollars) + " Dollars Only"
}

func convertToWords(n int64) string {
	var parts []string

	if n >= 1000000000 {
		parts = append(parts, convertUnder1000(n/1000000000)+" Billion")
		n %= 1000000000
	}
	if n >= 1000000 {
		parts = append(parts, convertUnder1000(n/1000000)+" Million")
		n %= 1000000
	}
	if n >= 1000 {
		parts = append(parts, convertUnder1000(n/1000)+" Thousand")
		n %= 1000
	}
	if n > 0 {
		parts = append(parts, convertUnder1000(n))
	}

	return strings.Join(parts, " ")
}

func convertUnder1000(n int64) string {
	if n >= 100 {
		result := ones[n/100] + " Hundred"
		if n%100 != 0 {
			result += " " + convertUnder100(n%100)
		}
		return result
	}
	return convertUnder100(n)
}

func convertUnder100(n int64) string {
	if n < 20 {
		return ones[n]
	}
	result := tens[n/10]
	if n%10 != 0 {
		result += " " + ones[n%10]
	}
	return result
}

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

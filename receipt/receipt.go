// Package receipt lays out a completed transaction as text lines for a
// fixed-width printer.
package receipt

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"canteen-pos/cart"
	"canteen-pos/models"
	"canteen-pos/pricing"
)

// Columns maps the paper width class from settings to printable columns:
// 80 mm stock gives 48, everything else is treated as 58 mm / 32 columns.
func Columns(paperWidth int) int {
	if paperWidth >= 80 {
		return 48
	}
	return 32
}

// Render formats the receipt. cashReceived is optional; when present it
// must already be validated as >= total — the change-due line is printed
// without re-checking.
func Render(lines []cart.Line, totals pricing.Totals, settings models.SessionSettings, at time.Time, cashReceived *float64) []string {
	width := Columns(settings.PaperWidth)
	nameWidth := width - 16
	sep := strings.Repeat("-", width)

	out := []string{
		center(settings.CanteenName, width),
		sep,
	}

	for _, l := range lines {
		// Truncate by rune, not byte — item names are not always ASCII.
		name := l.Name
		if r := []rune(name); len(r) > nameWidth {
			name = string(r[:nameWidth])
		}
		amount := l.UnitPrice * float64(l.Qty)
		out = append(out, fmt.Sprintf("%-*s%4d %9.2f", nameWidth, name, l.Qty, amount))
	}

	out = append(out, sep)
	out = append(out, amountLine("Subtotal:", totals.Subtotal, width))
	out = append(out, amountLine(fmt.Sprintf("Tax (%g%%):", settings.TaxPercent), totals.Tax, width))
	out = append(out, amountLine("Total:", totals.Total, width))

	if cashReceived != nil {
		out = append(out, amountLine("Cash:", *cashReceived, width))
		out = append(out, amountLine("Change:", *cashReceived-totals.Total, width))
	}

	out = append(out, sep)
	out = append(out, center("Date: "+at.Format("2006-01-02 15:04"), width))
	out = append(out, "")
	out = append(out, center("Thank you! Visit again", width))
	return out
}

func amountLine(label string, amount float64, width int) string {
	return fmt.Sprintf("%-*s%9.2f", width-9, label, amount)
}

func center(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	pad := (width - n) / 2
	return strings.Repeat(" ", pad) + s
}

package receipt

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"canteen-pos/cart"
	"canteen-pos/models"
	"canteen-pos/pricing"
)

var testSettings = models.SessionSettings{
	CanteenName: "College Canteen",
	TaxPercent:  5.0,
	PaperWidth:  58,
}

func TestColumns(t *testing.T) {
	tests := []struct {
		paperWidth int
		want       int
	}{
		{58, 32},
		{80, 48},
		{0, 32},
	}
	for _, tt := range tests {
		if got := Columns(tt.paperWidth); got != tt.want {
			t.Errorf("Columns(%d) = %d, want %d", tt.paperWidth, got, tt.want)
		}
	}
}

func TestRenderChangeDue(t *testing.T) {
	lines := []cart.Line{{Name: "Thali", UnitPrice: 75.0, Qty: 1}}
	totals := pricing.Compute(lines, testSettings.TaxPercent)
	cash := 100.0

	out := Render(lines, totals, testSettings, time.Now(), &cash)

	joined := strings.Join(out, "\n")
	if !strings.Contains(joined, "Total:") || !strings.Contains(joined, "78.75") {
		t.Errorf("receipt missing total 78.75:\n%s", joined)
	}
	if !strings.Contains(joined, "Cash:") || !strings.Contains(joined, "100.00") {
		t.Errorf("receipt missing cash line:\n%s", joined)
	}
	if !strings.Contains(joined, "Change:") || !strings.Contains(joined, "21.25") {
		t.Errorf("receipt missing change 21.25:\n%s", joined)
	}
}

func TestRenderWithoutCashOmitsChange(t *testing.T) {
	lines := []cart.Line{{Name: "Tea", UnitPrice: 10.0, Qty: 2}}
	totals := pricing.Compute(lines, testSettings.TaxPercent)

	out := Render(lines, totals, testSettings, time.Now(), nil)
	for _, line := range out {
		if strings.Contains(line, "Change:") || strings.Contains(line, "Cash:") {
			t.Errorf("unexpected cash line without cash received: %q", line)
		}
	}
}

func TestRenderLayout(t *testing.T) {
	lines := []cart.Line{
		{Name: "A very long item name that will not fit", UnitPrice: 99.0, Qty: 1},
		{Name: "Tea", UnitPrice: 10.0, Qty: 2},
	}
	totals := pricing.Compute(lines, testSettings.TaxPercent)
	at := time.Date(2026, 8, 31, 12, 30, 0, 0, time.Local)

	out := Render(lines, totals, testSettings, at, nil)

	if !strings.Contains(out[0], "College Canteen") {
		t.Errorf("header = %q, want canteen name", out[0])
	}
	if out[1] != strings.Repeat("-", 32) {
		t.Errorf("separator = %q, want 32 dashes", out[1])
	}
	for _, line := range out {
		if n := utf8.RuneCountInString(line); n > 32 {
			t.Errorf("line exceeds paper width: %q (%d cols)", line, n)
		}
	}
	if !strings.Contains(strings.Join(out, "\n"), "2026-08-31 12:30") {
		t.Error("receipt missing date footer")
	}

	wide := testSettings
	wide.PaperWidth = 80
	out = Render(lines, totals, wide, at, nil)
	if out[1] != strings.Repeat("-", 48) {
		t.Errorf("wide separator = %q, want 48 dashes", out[1])
	}
}

func TestRenderMultiByteNames(t *testing.T) {
	st := testSettings
	st.CanteenName = "चाय की दुकान"
	lines := []cart.Line{
		// Long enough to force truncation inside multi-byte text.
		{Name: "मसाला चाय स्पेशल एक्स्ट्रा बड़ा कप", UnitPrice: 25.0, Qty: 1},
		{Name: "Tea", UnitPrice: 10.0, Qty: 2},
	}
	totals := pricing.Compute(lines, st.TaxPercent)

	out := Render(lines, totals, st, time.Now(), nil)
	for _, line := range out {
		if !utf8.ValidString(line) {
			t.Errorf("truncation split a rune: %q", line)
		}
		if n := utf8.RuneCountInString(line); n > 32 {
			t.Errorf("line exceeds paper width: %q (%d cols)", line, n)
		}
	}
	if !strings.Contains(out[0], "चाय की दुकान") {
		t.Errorf("header = %q, want multi-byte canteen name centered intact", out[0])
	}
}

func TestRenderTaxLabelUsesConfiguredRate(t *testing.T) {
	st := testSettings
	st.TaxPercent = 12.5
	lines := []cart.Line{{Name: "Tea", UnitPrice: 10.0, Qty: 1}}
	totals := pricing.Compute(lines, st.TaxPercent)

	out := Render(lines, totals, st, time.Now(), nil)
	if !strings.Contains(strings.Join(out, "\n"), "Tax (12.5%):") {
		t.Error("tax label should carry the configured rate")
	}
}

package printing

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/mitchellh/go-wordwrap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// ptToMM converts font points to millimetres
	ptToMM = 25.4 / 72
	// avgGlyphEm is the average Helvetica glyph advance as a share of the em.
	// Text fitting estimates width from character count at this ratio.
	avgGlyphEm = 0.5
	ellipsis   = "…"
)

var numberPrinter = message.NewPrinter(language.English)

// estimateWidthMM approximates the printed width of text at size points
func estimateWidthMM(text string, size float64) float64 {
	return float64(utf8.RuneCountInString(text)) * size * ptToMM * avgGlyphEm
}

// charsThatFit is how many average glyphs fit into widthMM at size points
func charsThatFit(widthMM, size float64) int {
	per := size * ptToMM * avgGlyphEm
	if per <= 0 {
		return 0
	}
	return int(math.Floor(widthMM / per))
}

// fitText truncates text with an ellipsis so it fits into widthMM
func fitText(text string, widthMM, size float64) string {
	limit := charsThatFit(widthMM, size)
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	if limit <= 1 {
		return ""
	}
	runes := []rune(text)
	return strings.TrimRight(string(runes[:limit-1]), " ") + ellipsis
}

// wrapText breaks text into lines that fit into widthMM at size points.
// Words longer than a line are hard-split.
func wrapText(text string, widthMM, size float64) []string {
	limit := charsThatFit(widthMM, size)
	if limit < 1 {
		limit = 1
	}
	var lines []string
	for _, para := range strings.Split(strings.TrimSpace(text), "\n") {
		para = strings.Join(strings.Fields(para), " ")
		if para == "" {
			continue
		}
		for _, line := range strings.Split(wordwrap.WrapString(para, uint(limit)), "\n") {
			for utf8.RuneCountInString(line) > limit {
				r := []rune(line)
				lines = append(lines, string(r[:limit]))
				line = string(r[limit:])
			}
			lines = append(lines, line)
		}
	}
	return lines
}

// formatDelta renders a change with an explicit sign and unit suffix:
// "+1.2 kg", "-0.5%", "±0.0 cm".
func formatDelta(delta float64, unit string) string {
	rounded := math.Round(delta*10) / 10
	var s string
	switch {
	case rounded > 0:
		s = numberPrinter.Sprintf("+%.1f", rounded)
	case rounded < 0:
		s = numberPrinter.Sprintf("-%.1f", -rounded)
	default:
		s = "±0.0"
	}
	return withUnit(s, unit)
}

// formatMetric renders a measured value with one decimal
func formatMetric(v float64, unit string) string {
	return withUnit(numberPrinter.Sprintf("%.1f", v), unit)
}

func withUnit(s, unit string) string {
	switch unit {
	case "":
		return s
	case "%":
		return s + "%"
	}
	return s + " " + unit
}

// formatKcal groups thousands: 1850 -> "1,850"
func formatKcal(kcal int) string {
	return numberPrinter.Sprintf("%d", kcal)
}

// formatGrams renders macro grams without a trailing ".0"
func formatGrams(g float64) string {
	if g == math.Trunc(g) {
		return numberPrinter.Sprintf("%.0f g", g)
	}
	return numberPrinter.Sprintf("%.1f g", g)
}

// plural picks the singular or plural noun for n
func plural(n int, one, many string) string {
	if n == 1 {
		return formatKcal(n) + " " + one
	}
	return formatKcal(n) + " " + many
}

// joinNonEmpty joins the non-empty parts with sep
func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

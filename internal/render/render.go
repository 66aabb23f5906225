// Package render prints the session ledger and its totals.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/spboyer/kcal/internal/locale"
	"github.com/spboyer/kcal/internal/models"
)

const (
	minNameWidth = 12
	maxNameWidth = 32
	colCalories  = 12
	colGrams     = 10
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	totalStyle   = lipgloss.NewStyle().Bold(true)
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Renderer formats records with localized labels and numbers.
type Renderer struct {
	p *message.Printer
}

// New creates a Renderer for the given printer.
func New(p *message.Printer) *Renderer {
	return &Renderer{p: p}
}

// Ledger writes the record list followed by the totals.
func (r *Renderer) Ledger(w io.Writer, records []models.NutritionRecord, totals models.Totals) {
	fmt.Fprintf(w, "\n%s\n", headingStyle.Render(r.p.Sprintf(locale.KeyRecords))) //nolint:errcheck
	if len(records) == 0 {
		fmt.Fprintf(w, "%s\n\n", r.p.Sprintf(locale.KeyNoRecords)) //nolint:errcheck
		return
	}

	nameWidth := minNameWidth
	for _, rec := range records {
		if sw := runewidth.StringWidth(rec.Name); sw > nameWidth {
			nameWidth = sw
		}
	}
	nameWidth = min(nameWidth, maxNameWidth)
	totalWidth := nameWidth + colCalories + 3*colGrams + 8 // 4 gaps × 2 spaces

	fmt.Fprintf(w, "%s  %s  %s  %s  %s\n", //nolint:errcheck
		padRight("", nameWidth),
		padRight(r.p.Sprintf(locale.KeyCalories), colCalories),
		padRight(r.p.Sprintf(locale.KeyProtein), colGrams),
		padRight(r.p.Sprintf(locale.KeyFat), colGrams),
		r.p.Sprintf(locale.KeyCarbs))
	fmt.Fprintf(w, "%s\n", strings.Repeat("─", totalWidth)) //nolint:errcheck

	for _, rec := range records {
		fmt.Fprintf(w, "%s  %s  %s  %s  %s\n", //nolint:errcheck
			padRight(runewidth.Truncate(rec.Name, nameWidth, "…"), nameWidth),
			padRight(r.calories(rec.Calories), colCalories),
			padRight(r.grams(rec.Protein), colGrams),
			padRight(r.grams(rec.Fat), colGrams),
			r.grams(rec.Carbs))
	}
	fmt.Fprintf(w, "%s\n", strings.Repeat("─", totalWidth)) //nolint:errcheck
	r.Totals(w, totals)
}

// Totals writes the aggregate line.
func (r *Renderer) Totals(w io.Writer, t models.Totals) {
	line := fmt.Sprintf("%s %s / %s %s / %s %s / %s %s",
		r.p.Sprintf(locale.KeyCalories), r.calories(&t.Calories),
		r.p.Sprintf(locale.KeyProtein), r.grams(&t.Protein),
		r.p.Sprintf(locale.KeyFat), r.grams(&t.Fat),
		r.p.Sprintf(locale.KeyCarbs), r.grams(&t.Carbs))
	fmt.Fprintf(w, "%s %s\n\n", totalStyle.Render(r.p.Sprintf(locale.KeyTotal)), line) //nolint:errcheck
}

// Record writes a single estimate, one field per line.
func (r *Renderer) Record(w io.Writer, rec models.NutritionRecord) {
	fmt.Fprintf(w, "%s\n", headingStyle.Render(rec.Name)) //nolint:errcheck
	rows := []struct {
		label string
		value string
	}{
		{r.p.Sprintf(locale.KeyCalories), r.calories(rec.Calories)},
		{r.p.Sprintf(locale.KeyProtein), r.grams(rec.Protein)},
		{r.p.Sprintf(locale.KeyFat), r.grams(rec.Fat)},
		{r.p.Sprintf(locale.KeyCarbs), r.grams(rec.Carbs)},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "  %s  %s\n", padRight(row.label, colGrams), row.value) //nolint:errcheck
	}
}

// Notice writes a failure message.
func (r *Renderer) Notice(w io.Writer, msg string) {
	fmt.Fprintf(w, "%s\n", noticeStyle.Render(msg)) //nolint:errcheck
}

// calories and grams show "-" for a field the reply left out.
func (r *Renderer) calories(v *float64) string {
	if v == nil {
		return "-"
	}
	return r.p.Sprintf(locale.KeyUnitCalories, r.decimal(*v))
}

func (r *Renderer) grams(v *float64) string {
	if v == nil {
		return "-"
	}
	return r.p.Sprintf(locale.KeyUnitGrams, r.decimal(*v))
}

func (r *Renderer) decimal(v float64) string {
	return r.p.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(1)))
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

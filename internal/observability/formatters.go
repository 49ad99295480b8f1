// Package observability provides human-readable CLI summaries of recommendations and imports.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/baigao417/meal-planner-assistant/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for --pretty mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to max runes, marking the cut with "...".
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func formatMacros(m types.Macros) string {
	return fmt.Sprintf("P %.0fg / C %.0fg / F %.0fg", m.Protein, m.Carbs, m.Fat)
}

// PrintTargets outputs the daily macro target and its energy content.
func (p *Printer) PrintTargets(goal types.DietGoal, weightKg float64, target types.Macros, calories float64) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Goal:     %s\n", goal))
	sb.WriteString(fmt.Sprintf("Weight:   %.1f kg\n", weightKg))
	sb.WriteString(fmt.Sprintf("Target:   %s\n", formatMacros(target)))
	sb.WriteString(fmt.Sprintf("Energy:   %.0f kcal", calories))

	p.printBox("DAILY MACRO TARGETS", sb.String())
}

// PrintRecommendation outputs the recommended meal with its scores and reasoning.
func (p *Printer) PrintRecommendation(rec *types.MealRecommendation, threshold float64) {
	if rec == nil {
		return
	}

	var sb strings.Builder
	for _, d := range rec.Dishes {
		sb.WriteString(fmt.Sprintf("• %s (%s) %.2f\n", d.Name, d.Restaurant, d.Price))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Total:        %.2f\n", rec.TotalPrice))
	sb.WriteString(fmt.Sprintf("Macros:       %s\n", formatMacros(rec.Macros)))
	sb.WriteString(fmt.Sprintf("Target:       %s\n", formatMacros(rec.TargetMacros)))
	sb.WriteString(fmt.Sprintf("Satisfaction: %.1f (threshold %.0f)\n", rec.SatisfactionScore, threshold))
	sb.WriteString(fmt.Sprintf("  nutrition %.0f  preference %.0f  history %.0f  budget %.0f\n",
		rec.Nutrition, rec.Preference, rec.History, rec.Budget))

	if rec.PreferenceFallback {
		sb.WriteString("  (preference scores are defaults)\n")
	}
	for _, w := range rec.Warnings {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", w))
	}

	if rec.Reasoning != "" {
		sb.WriteString("\n")
		sb.WriteString(wrap(rec.Reasoning, boxWidth-4))
	}

	p.printBox("RECOMMENDED MEAL", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintNoResult explains why nothing was recommended.
func (p *Printer) PrintNoResult(reason string, bestScore, threshold float64, poolSize int) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Reason:     %s\n", reason))
	sb.WriteString(fmt.Sprintf("Candidates: %d\n", poolSize))
	if poolSize > 0 {
		sb.WriteString(fmt.Sprintf("Best score: %.1f (threshold %.0f)", bestScore, threshold))
	}

	p.printBox("NO MEAL RECOMMENDED", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAlternatives outputs the runner-up meals, best first.
func (p *Printer) PrintAlternatives(alternatives []types.ScoredCandidate) {
	if len(alternatives) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(alternatives), maxItemsToShow)
	for i := 0; i < count; i++ {
		alt := alternatives[i]
		sb.WriteString(fmt.Sprintf("#%d  %.1f  %.2f\n", i+2, alt.SatisfactionScore, alt.TotalPrice))
		sb.WriteString(fmt.Sprintf("    %s\n", strings.Join(alt.DishNames(), ", ")))
	}
	if len(alternatives) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(alternatives)-maxItemsToShow))
	}

	p.printBox("ALTERNATIVES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintImportedDishes outputs the dishes extracted from a menu.
func (p *Printer) PrintImportedDishes(dishes []types.Dish, duplicates int) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Imported %d dishes", len(dishes)))
	if duplicates > 0 {
		sb.WriteString(fmt.Sprintf(" (%d duplicates dropped)", duplicates))
	}
	sb.WriteString("\n\n")

	for _, d := range dishes {
		sb.WriteString(fmt.Sprintf("• %s  %.2f  [%s]\n", d.Name, d.Price, d.Category))
		sb.WriteString(fmt.Sprintf("  %s\n", formatMacros(d.Macros())))
	}

	p.printBox("IMPORTED DISHES", strings.TrimSuffix(sb.String(), "\n"))
}

// wrap breaks text into lines of at most width runes at word boundaries.
func wrap(text string, width int) string {
	var sb strings.Builder
	lineLen := 0
	for _, word := range strings.Fields(text) {
		n := len([]rune(word))
		if lineLen > 0 && lineLen+1+n > width {
			sb.WriteString("\n")
			lineLen = 0
		}
		if lineLen > 0 {
			sb.WriteString(" ")
			lineLen++
		}
		sb.WriteString(word)
		lineLen += n
	}
	return sb.String()
}

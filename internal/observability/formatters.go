// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/resumind/internal/pipeline/steps"
	"github.com/jonathan/resumind/internal/rendering"
	"github.com/jonathan/resumind/internal/scoring"
	"github.com/jonathan/resumind/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// NotFound stands in for a field the extractor could not find.
	NotFound = "Not found"
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads a line to the box's inner width, counting runes.
func pad(line string) string {
	inner := boxWidth - 4
	n := utf8.RuneCountInString(line)
	if n > inner {
		runes := []rune(line)
		return string(runes[:inner-3]) + "..."
	}
	return line + strings.Repeat(" ", inner-n)
}

func orNotFound(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotFound
	}
	return s
}

// list writes up to limit items and a "... and N more" line.
func list(sb *strings.Builder, items []string, limit int) {
	if len(items) == 0 {
		sb.WriteString("  " + NotFound + "\n")
		return
	}
	for _, item := range items[:min(len(items), limit)] {
		fmt.Fprintf(sb, "  • %s\n", firstLine(item))
	}
	if len(items) > limit {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-limit)
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// PrintProfile outputs the extracted profile. Missing fields and empty
// sections are shown as "Not found" so partial extractions are obvious.
func (p *Printer) PrintProfile(profile *types.Profile) {
	if profile == nil {
		profile = types.NewProfile("")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Name:      %s\n", orNotFound(profile.Name))
	fmt.Fprintf(&sb, "Headline:  %s\n", orNotFound(profile.Headline))
	fmt.Fprintf(&sb, "Location:  %s\n", orNotFound(profile.Location))
	fmt.Fprintf(&sb, "URL:       %s\n", orNotFound(profile.ProfileURL))
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "Experience (%d):\n", len(profile.Experiences))
	exps := make([]string, len(profile.Experiences))
	for i, e := range profile.Experiences {
		exps[i] = fmt.Sprintf("%s at %s (%s)", e.Title, e.Company, orNotFound(e.DateRange))
	}
	list(&sb, exps, maxItemsToShow)
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "Education (%d):\n", len(profile.Educations))
	edus := make([]string, len(profile.Educations))
	for i, e := range profile.Educations {
		parts := []string{e.School}
		if e.Degree != "" {
			parts = append(parts, e.Degree)
		}
		if e.Field != "" {
			parts = append(parts, e.Field)
		}
		edus[i] = strings.Join(parts, ", ")
	}
	list(&sb, edus, maxItemsToShow)
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "Skills (%d):\n", len(profile.Skills))
	list(&sb, profile.Skills, maxItemsToShow*2)
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "Posts (%d):\n", len(profile.Posts))
	posts := make([]string, len(profile.Posts))
	for i, post := range profile.Posts {
		posts[i] = post.Text
		if post.Date != "" {
			posts[i] = post.Date + ": " + post.Text
		}
	}
	list(&sb, posts, 3)

	p.printBox("EXTRACTED PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintScore outputs a match score with the top missing keywords.
func (p *Printer) PrintScore(result scoring.Result) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Match:    %d%% (%d of %d keywords)\n", result.Percentage, len(result.Matched), result.Total)
	sb.WriteString("\n")

	missing := result.TopMissing(scoring.DefaultMissingShown)
	if len(missing) == 0 {
		sb.WriteString("No missing keywords.")
	} else {
		sb.WriteString("Missing keywords:\n")
		for _, line := range wrapWords(missing, boxWidth-6) {
			fmt.Fprintf(&sb, "  %s\n", line)
		}
	}

	p.printBox("JOB MATCH SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

// wrapWords joins words with ", " into lines no longer than width runes.
func wrapWords(words []string, width int) []string {
	var lines []string
	var cur string
	for _, w := range words {
		next := w
		if cur != "" {
			next = cur + ", " + w
		}
		if cur != "" && utf8.RuneCountInString(next) > width {
			lines = append(lines, cur+",")
			next = w
		}
		cur = next
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

// PrintTemplates outputs the template catalog.
func (p *Printer) PrintTemplates(infos []rendering.Info) {
	var sb strings.Builder
	for i, info := range infos {
		fmt.Fprintf(&sb, "%2d. %-22s %s\n", i+1, info.ID, info.Name)
		fmt.Fprintf(&sb, "    layout: %s\n", info.Layout)
	}
	p.printBox("TEMPLATES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSteps outputs the status of every import step.
func (p *Printer) PrintSteps(records []steps.StepRecord) {
	if len(records) == 0 {
		return
	}

	var sb strings.Builder
	for _, rec := range records {
		icon := "·"
		switch rec.Status {
		case steps.StatusCompleted:
			icon = "✓"
		case steps.StatusFailed:
			icon = "✗"
		case steps.StatusSkipped:
			icon = "-"
		}
		line := fmt.Sprintf("%s %-16s %s", icon, rec.Step, rec.Status)
		if rec.Duration > 0 {
			line += fmt.Sprintf(" (%s)", rec.Duration.Round(time.Millisecond))
		}
		sb.WriteString(line + "\n")
		if rec.Error != "" {
			fmt.Fprintf(&sb, "    %s\n", rec.Error)
		}
	}
	p.printBox("IMPORT STEPS", strings.TrimSuffix(sb.String(), "\n"))
}

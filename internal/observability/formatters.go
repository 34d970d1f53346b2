// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/nexusats/matchengine/internal/domain"
	"github.com/nexusats/matchengine/internal/ranking"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
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
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintJobProfile outputs a human-readable summary of the post-processed JD.
func (p *Printer) PrintJobProfile(profile *domain.JobSkillProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Role:      %s\n", profile.RoleContext))
	sb.WriteString(fmt.Sprintf("Domain:    %s\n", profile.PrimaryDomain))
	sb.WriteString(fmt.Sprintf("Seniority: %s\n\n", profile.SeniorityLevel))

	hard := profile.HardRequirements()
	if len(hard) > 0 {
		sb.WriteString("Hard Requirements:\n")
		count := min(len(hard), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", requirementLabel(hard[i])))
		}
		if len(hard) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(hard)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	soft := profile.SoftRequirements()
	if len(soft) > 0 {
		sb.WriteString("Soft Requirements:\n")
		count := min(len(soft), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", requirementLabel(soft[i])))
		}
		if len(soft) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(soft)-3))
		}
	}

	p.printBox("PARSED JOB PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

func requirementLabel(r domain.Requirement) string {
	switch req := r.(type) {
	case *domain.SkillRequirement:
		return req.RawSkill
	case *domain.CategoryRequirement:
		return fmt.Sprintf("%s (any of %d)", req.Category, req.MinRequired)
	default:
		return "unknown requirement"
	}
}

// PrintEligibility outputs the size of an eligible candidate set.
func (p *Printer) PrintEligibility(eligible map[string]bool, totalCandidates int) {
	sb := fmt.Sprintf("Eligible:  %d / %d candidates\n", len(eligible), totalCandidates)
	p.printBox("ELIGIBILITY GATE", strings.TrimSuffix(sb, "\n"))
}

// PrintRankedCandidates outputs the top N ranked candidates with scores and
// matched skills.
func (p *Printer) PrintRankedCandidates(scores []ranking.CandidateScore) {
	if len(scores) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total candidates ranked: %d\n\n", len(scores)))

	count := min(len(scores), maxItemsToShow)
	for i := 0; i < count; i++ {
		c := scores[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, c.Name))
		sb.WriteString(fmt.Sprintf("    Score: %.4f (%s)\n", c.Score, c.Confidence))
		if len(c.Matches) > 0 {
			matches := strings.Join(c.Matches, ", ")
			if len(matches) > 40 {
				matches = matches[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("    Matches: %s\n", matches))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(scores) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more candidates", len(scores)-maxItemsToShow))
	}

	p.printBox("RANKED CANDIDATES", sb.String())
}

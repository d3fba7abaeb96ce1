package evaluation

import (
	"fmt"
	"strings"

	"github.com/spigell/recruiter-copilot/internal/candidate"
	"github.com/spigell/recruiter-copilot/internal/validator"
)

// Explain renders a markdown explanation of the result. The analysis adds
// strengths and concerns when present.
func Explain(r *Result, analysis *candidate.SemanticAnalysis) string {
	if r == nil {
		return ""
	}

	b := r.Breakdown
	w := b.Weights

	var sb strings.Builder
	fmt.Fprintf(&sb, "**Overall Score: %.1f/10 (%s)**\n\n", b.Display, b.Band.Rating)

	sb.WriteString("**Score Breakdown:**\n")
	fmt.Fprintf(&sb, "- Technical Match: %.1f/10 (weight: %s)\n", b.TechnicalMatch, percent(w.Technical))
	fmt.Fprintf(&sb, "- Experience Depth: %.1f/10 (weight: %s)\n", b.ExperienceDepth, percent(w.Experience))
	fmt.Fprintf(&sb, "- Activity Score: %.1f/10 (weight: %s)\n", b.Activity, percent(w.Activity))
	fmt.Fprintf(&sb, "- Credibility: %.1f/10 (weight: %s)\n\n", b.Credibility, percent(w.Credibility))

	if analysis != nil {
		writeList(&sb, "Strengths", analysis.Strengths)
		writeList(&sb, "Concerns", analysis.Concerns)
	}

	var critical []string
	for _, f := range r.Flags {
		if f.Severity == validator.SeverityHigh {
			critical = append(critical, f.Description)
		}
	}
	writeList(&sb, "Critical Flags", critical)

	fmt.Fprintf(&sb, "**Recommendation:** %s\n", b.Band.Recommendation)
	fmt.Fprintf(&sb, "_%s_", b.Band.Description)

	return sb.String()
}

func writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "**%s:**\n", title)
	for _, item := range items {
		fmt.Fprintf(sb, "- %s\n", item)
	}
	sb.WriteString("\n")
}

func percent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

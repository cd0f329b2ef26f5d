package service

import (
	"fmt"
	"strings"

	"github.com/ekazakov/pulsecal/internal/domain"
)

// FormatReport renders an analysis result as a plain-text report. Coloring
// is left to the CLI layer.
func FormatReport(result *domain.AnalysisResult) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Schedule health: %d/100\n", result.Health.Overall))
	sb.WriteString(fmt.Sprintf("  utilization %d  conflicts %d  balance %d  buffer %d\n",
		result.Health.TimeUtilization, result.Health.ConflictManagement,
		result.Health.Balance, result.Health.Buffer))

	if len(result.Conflicts) == 0 {
		sb.WriteString("\nNo conflicts.\n")
	} else {
		sb.WriteString(fmt.Sprintf("\nConflicts (%d):\n", len(result.Conflicts)))
		for _, c := range result.Conflicts {
			titles := make([]string, len(c.Events))
			for i, e := range c.Events {
				titles[i] = e.Title
			}
			sb.WriteString(fmt.Sprintf("  [%s] %s, overlap %s-%s (%d min)\n",
				c.Severity, strings.Join(titles, " / "),
				c.OverlapStart.Format("15:04"), c.OverlapEnd.Format("15:04"),
				int(c.OverlapDuration().Minutes())))
		}
	}

	if len(result.Issues) > 0 {
		sb.WriteString(fmt.Sprintf("\nLogistics (%d):\n", len(result.Issues)))
		for _, issue := range result.Issues {
			sb.WriteString(fmt.Sprintf("  [%s] %s\n", issue.Severity, issue.Description))
		}
	}

	if len(result.Patterns) > 0 {
		sb.WriteString(fmt.Sprintf("\nPatterns (%d):\n", len(result.Patterns)))
		for _, p := range result.Patterns {
			sb.WriteString(fmt.Sprintf("  %s: %s %s\n", p.Title, p.Description, sparkline(p.Series)))
		}
	}

	if len(result.Recommendations) > 0 {
		sb.WriteString(fmt.Sprintf("\nSuggestions (%d):\n", len(result.Recommendations)))
		for _, r := range result.Recommendations {
			sb.WriteString(fmt.Sprintf("  [%s %.0f%%] %s\n", r.Action, r.Confidence*100, r.Description))
		}
	}

	if len(result.Skipped) > 0 {
		sb.WriteString(fmt.Sprintf("\nSkipped %d malformed event(s):\n", len(result.Skipped)))
		for _, sk := range result.Skipped {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", sk.Title, sk.Reason))
		}
	}

	return sb.String()
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// sparkline renders a normalized [0,1] series as a unicode bar strip.
func sparkline(series []float64) string {
	if len(series) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, v := range series {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		idx := int(v * float64(len(sparkRunes)-1))
		sb.WriteRune(sparkRunes[idx])
	}
	return sb.String()
}

package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/PhilipWesterink92/trendwatcher/internal/domain/trend"
)

// Action tier boundaries for the weekly report.
const (
	actNowMin   = 18.0
	nearTermMin = 12.0
	watchMin    = 8.0
)

// Tier labels a trend by how urgently assortment should react to it.
func Tier(score float64) string {
	switch {
	case score >= actNowMin:
		return "act_now"
	case score >= nearTermMin:
		return "near_term"
	case score >= watchMin:
		return "watchlist"
	default:
		return "ignore"
	}
}

// Markdown renders the weekly trend report. Trends below the watchlist
// threshold are omitted.
func Markdown(trends []trend.Trend, generatedAt time.Time) string {
	var actNow, nearTerm, watchlist []trend.Trend
	for _, t := range trends {
		switch Tier(t.Score) {
		case "act_now":
			actNow = append(actNow, t)
		case "near_term":
			nearTerm = append(nearTerm, t)
		case "watchlist":
			watchlist = append(watchlist, t)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Food Trend Report, week %s\n\n", trend.WeekID(generatedAt))
	fmt.Fprintf(&sb, "Generated %s. %d trends scored, %d actionable.\n\n",
		generatedAt.Format("2006-01-02"), len(trends), len(actNow)+len(nearTerm))

	writeSection(&sb, "🔥 Act Now", actNow,
		"High conviction. Brief category managers this week.")
	writeSection(&sb, "📈 Near Term", nearTerm,
		"Building momentum. Start sourcing conversations.")
	writeSection(&sb, "👀 Watchlist", watchlist,
		"Early signals. Revisit next week.")

	return sb.String()
}

func writeSection(sb *strings.Builder, title string, trends []trend.Trend, note string) {
	if len(trends) == 0 {
		return
	}
	fmt.Fprintf(sb, "## %s\n\n%s\n\n", title, note)

	for _, t := range trends {
		fmt.Fprintf(sb, "### %s (%.1f)\n\n", t.Label, t.Score)
		fmt.Fprintf(sb, "- Markets: %s\n", strings.Join(t.Countries, ", "))
		fmt.Fprintf(sb, "- Sources: %d (%s)\n", t.SeedCount, strings.Join(t.Seeds, ", "))
		fmt.Fprintf(sb, "- Mentions: %d\n", t.RawCount)
		if t.EntityType != "" {
			fmt.Fprintf(sb, "- Entity: %s (%.2f)\n", t.EntityType, t.EntityConfidence)
		}
		if len(t.ScoreBreakdown) > 0 {
			fmt.Fprintf(sb, "- Breakdown: %s\n", formatBreakdown(t.ScoreBreakdown))
		}
		if t.LeadLag.HasLead && !t.LeadLag.HasTarget {
			fmt.Fprintf(sb, "- Lead/lag: seen in lead markets since %s, not yet in NL/DE/FR\n", t.LeadLag.LeadFirst)
		}
		if len(t.Examples) > 0 {
			fmt.Fprintf(sb, "- Examples: %s\n", strings.Join(t.Examples, "; "))
		}
		if t.Analysis != nil && t.Analysis.Error == "" {
			if t.Analysis.ProductFit != "" {
				fmt.Fprintf(sb, "- Product fit: %s. %s\n", t.Analysis.ProductFit, t.Analysis.ProductFitReasoning)
			}
			for _, action := range t.Analysis.RecommendedActions {
				fmt.Fprintf(sb, "- Action: %s\n", action)
			}
		}
		sb.WriteString("\n")
	}
}

func formatBreakdown(breakdown map[string]float64) string {
	order := []string{"recency", "breadth", "velocity", "specificity", "diversity"}
	parts := make([]string, 0, len(order))
	for _, k := range order {
		if v, ok := breakdown[k]; ok {
			parts = append(parts, fmt.Sprintf("%s %.1f", k, v))
		}
	}
	return strings.Join(parts, ", ")
}
